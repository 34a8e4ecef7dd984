/*
Package dispatch implements the http.Handler that serves the requests
with the current routing table.

For every incoming request, the dispatcher:

  - creates the immutable request snapshot
  - looks up the first route whose condition is satisfied
  - runs the middleware chain and the handler of the route, with the
    arguments captured by the condition set on the request
  - translates the failures to responses with the error translator
  - writes the response and the access log entry

When no route matches, the request fails with failure.ErrNotFound, which
is translated like any other failure. When the translator returns the
failure, it is logged and a bare 500 response is sent. Panics are
recovered the same way.
*/
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zalando/routecond/errorhandler"
	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/logging"
	"github.com/zalando/routecond/metrics"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/middleware/accesslog"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

// Router looks up the route of a request. It is implemented by
// routing.Routing.
type Router interface {
	Route(*request.Request) (*routing.Route, map[string]string)
}

// Options of the dispatcher.
type Options struct {

	// Router providing the routes. Required.
	Router Router

	// Translator of the failures. Defaults to a translator with debug
	// disabled.
	Translator *errorhandler.Translator

	// Metrics collector. Defaults to metrics.Default.
	Metrics metrics.Metrics

	// Log receives the failures that could not be translated. Defaults
	// to the application log.
	Log logging.Logger

	// MaxBodyBytes limits the size of the parsed request bodies.
	MaxBodyBytes int64

	// When set, the access log entries are written only for the routes
	// that enable them with the enableAccessLog middleware.
	AccessLogDisabled bool
}

// Dispatcher serves the requests with the matching routes.
type Dispatcher struct {
	router            Router
	translator        *errorhandler.Translator
	metrics           metrics.Metrics
	log               logging.Logger
	maxBodyBytes      int64
	accessLogDisabled bool
}

type countingWriter struct {
	w     http.ResponseWriter
	bytes int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.bytes += int64(n)
	return n, err
}

// New creates a dispatcher.
func New(o Options) *Dispatcher {
	if o.Translator == nil {
		o.Translator = errorhandler.New(nil, false)
	}

	if o.Metrics == nil {
		o.Metrics = metrics.Default
	}

	if o.Log == nil {
		o.Log = logging.Standard()
	}

	return &Dispatcher{
		router:            o.Router,
		translator:        o.Translator,
		metrics:           o.Metrics,
		log:               o.Log,
		maxBodyBytes:      o.MaxBodyBytes,
		accessLogDisabled: o.AccessLogDisabled,
	}
}

func (d *Dispatcher) serve(r *request.Request) (rsp *http.Response, routeID string, err error) {
	defer func() {
		if p := recover(); p != nil {
			rsp = nil
			err = failure.Unhandled(fmt.Errorf("panic: %v", p))
		}
	}()

	route, args := d.router.Route(r)
	if route == nil {
		d.metrics.IncRoutingFailures()
		return nil, "", failure.NotFound("no route matched %s %s", r.Method(), r.Path())
	}

	rsp, err = route.Serve(r.WithParams(args))
	if err == nil && rsp == nil {
		err = failure.Unhandled(fmt.Errorf("route %s returned no response", route.ID))
	}

	return rsp, route.ID, err
}

func (d *Dispatcher) resolve(r *request.Request, err error) *http.Response {
	kind := failure.KindOf(err)
	d.metrics.IncFailure(string(kind))

	rsp, rerr := d.translator.ResolveRequest(r, err)
	if rerr != nil {
		d.log.Errorf("unhandled failure while serving %s %s: %v", r.Method(), r.Path(), rerr)
		return middleware.NewTextResponse(http.StatusInternalServerError, "")
	}

	if kind == failure.ErrUnhandled {
		d.log.Errorf("failure while serving %s %s: %v", r.Method(), r.Path(), err)
	}

	return rsp
}

func (d *Dispatcher) badRequest(err error) *http.Response {
	if errors.Is(err, request.ErrBodyTooLarge) {
		return middleware.NewTextResponse(http.StatusRequestEntityTooLarge, "")
	}

	d.log.Debugf("invalid request: %v", err)
	return middleware.NewTextResponse(http.StatusBadRequest, "")
}

func (d *Dispatcher) write(w http.ResponseWriter, rsp *http.Response) int64 {
	if rsp.Body != nil {
		defer rsp.Body.Close()
	}

	h := w.Header()
	for k, v := range rsp.Header {
		h[k] = append([]string(nil), v...)
	}

	w.WriteHeader(rsp.StatusCode)
	if rsp.Body == nil {
		return 0
	}

	cw := &countingWriter{w: w}
	if _, err := io.Copy(cw, rsp.Body); err != nil {
		d.log.Errorf("failed to write response: %v", err)
	}

	return cw.bytes
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := request.FromHTTP(r, request.Options{MaxBodyBytes: d.maxBodyBytes})
	if err != nil {
		rsp := d.badRequest(err)
		size := d.write(w, rsp)
		if !d.accessLogDisabled {
			logging.LogAccess(&logging.AccessEntry{
				StatusCode:   rsp.StatusCode,
				ResponseSize: size,
				RequestTime:  start,
				Duration:     time.Since(start),
			})
		}

		return
	}

	req = accesslog.WithControl(req)
	rsp, routeID, err := d.serve(req)
	if err != nil {
		rsp = d.resolve(req, err)
	}

	size := d.write(w, rsp)
	if routeID != "" {
		d.metrics.MeasureServe(routeID, req.Method(), rsp.StatusCode, start)
	}

	if accesslog.ShouldLog(req, rsp.StatusCode, !d.accessLogDisabled) {
		logging.LogAccess(&logging.AccessEntry{
			Request:      req,
			StatusCode:   rsp.StatusCode,
			ResponseSize: size,
			RequestTime:  start,
			Duration:     time.Since(start),
		})
	}
}
