/*
Package tracing provides a middleware unit that creates an opentracing
span for the rest of the chain.

	tracing()          // span named "route"
	tracing("users")   // span named "users"

When the request carries the context of a parent span in its headers, the
new span is its child. The span is tagged with the method, the url and
the status code, and it is available to the rest of the chain through the
context of the request.
*/
package tracing

import (
	"net/http"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const (
	Name = "tracing"

	DefaultOperationName = "route"
	FailureKindTag       = "failure.kind"
)

type spec struct {
	tracer opentracing.Tracer
}

type unit struct {
	tracer        opentracing.Tracer
	operationName string
}

// NewSpec creates the spec of the tracing middleware. When tracer is nil,
// the global tracer is used.
func NewSpec(tracer opentracing.Tracer) middleware.Spec {
	return &spec{tracer: tracer}
}

func (s *spec) Name() string { return Name }

func (s *spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	u := &unit{tracer: s.tracer, operationName: DefaultOperationName}
	switch len(args) {
	case 0:
	case 1:
		name, err := middleware.StringArg(args[0])
		if err != nil || name == "" {
			return nil, middleware.ErrInvalidMiddlewareParameters
		}

		u.operationName = name
	default:
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	return u, nil
}

func headerCarrier(r *request.Request) opentracing.HTTPHeadersCarrier {
	h := make(http.Header)
	for k, v := range r.Headers() {
		switch vv := v.(type) {
		case string:
			h.Set(k, vv)
		case []string:
			for _, vi := range vv {
				h.Add(k, vi)
			}
		}
	}

	return opentracing.HTTPHeadersCarrier(h)
}

func (u *unit) Handle(r *request.Request, next middleware.Next) (*http.Response, error) {
	tracer := u.tracer
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}

	var opts []opentracing.StartSpanOption
	if wireContext, err := tracer.Extract(opentracing.HTTPHeaders, headerCarrier(r)); err == nil {
		opts = append(opts, ext.RPCServerOption(wireContext))
	}

	span := tracer.StartSpan(u.operationName, opts...)
	defer span.Finish()

	ext.HTTPMethod.Set(span, r.Method())
	ext.HTTPUrl.Set(span, r.URL())

	rsp, err := next(r.WithContext(opentracing.ContextWithSpan(r.Context(), span)))
	if err != nil {
		ext.Error.Set(span, true)
		span.SetTag(FailureKindTag, string(failure.KindOf(err)))
		span.LogFields(log.Error(err))
		return rsp, err
	}

	if rsp != nil {
		ext.HTTPStatusCode.Set(span, uint16(rsp.StatusCode))
		if rsp.StatusCode >= http.StatusInternalServerError {
			ext.Error.Set(span, true)
		}
	}

	return rsp, nil
}
