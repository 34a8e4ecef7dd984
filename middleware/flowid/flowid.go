/*
Package flowid provides a middleware unit that makes sure every request
carries a flow id in the X-Flow-Id header.

	flowId()        // always generate a new id
	flowId("reuse") // keep a valid incoming id

The id is set on the request passed to the rest of the chain, and echoed
on the response.
*/
package flowid

import (
	"net/http"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const (
	Name                = "flowId"
	ReuseParameterValue = "reuse"
	HeaderName          = "X-Flow-Id"

	MinLength = 8
	MaxLength = 64
)

var flowIDRegex = regexp.MustCompile(`^[0-9a-zA-Z+-]+$`)

type spec struct {
	generator Generator
}

type flowID struct {
	reuseExisting bool
	generator     Generator
}

// NewSpec creates the spec of the flowId middleware, using ULID flow
// ids.
func NewSpec() middleware.Spec {
	return WithGenerator(NewULIDGenerator())
}

// WithGenerator creates the spec of the flowId middleware with a custom
// generator.
func WithGenerator(g Generator) middleware.Spec {
	return &spec{generator: g}
}

func (s *spec) Name() string { return Name }

func (s *spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	var reuseExisting bool
	switch len(args) {
	case 0:
	case 1:
		r, ok := args[0].(string)
		if !ok {
			return nil, middleware.ErrInvalidMiddlewareParameters
		}

		reuseExisting = strings.ToLower(r) == ReuseParameterValue
	default:
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	return &flowID{reuseExisting: reuseExisting, generator: s.generator}, nil
}

// IsValid tells whether a flow id received from a client can be reused.
func IsValid(id string) bool {
	return len(id) >= MinLength && len(id) <= MaxLength && flowIDRegex.MatchString(id)
}

func (f *flowID) Handle(r *request.Request, next middleware.Next) (*http.Response, error) {
	id := r.Header(HeaderName)
	if !f.reuseExisting || !IsValid(id) {
		var err error
		id, err = f.generator.Generate()
		if err != nil {
			log.Errorf("failed to generate flow id: %v", err)
			return next(r)
		}

		r = r.WithHeader(HeaderName, id)
	}

	rsp, err := next(r)
	if rsp != nil {
		if rsp.Header == nil {
			rsp.Header = make(http.Header)
		}

		rsp.Header.Set(HeaderName, id)
	}

	return rsp, err
}
