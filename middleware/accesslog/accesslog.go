/*
Package accesslog provides middleware units controlling whether the
dispatcher writes the access log entry of a request.

	disableAccessLog()          // no entry for the route
	disableAccessLog(4, 301)    // no entry for 4xx responses and 301
	enableAccessLog(2)          // only 2xx responses are logged

The arguments are status code prefixes: one digit selects a class of
status codes, two digits a decade, three digits an exact code.
*/
package accesslog

import (
	"context"
	"net/http"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const (
	DisableAccessLogName = "disableAccessLog"
	EnableAccessLogName  = "enableAccessLog"
)

// Filter tells whether to log the requests with the status codes
// matching the prefixes. Without prefixes, Enable applies to every
// request.
type Filter struct {
	Enable   bool
	Prefixes []int
}

var (
	disabled = Filter{Enable: false}
	enabled  = Filter{Enable: true}
)

type contextKey struct{}

type control struct {
	filter *Filter
}

type spec struct {
	enable bool
}

type unit struct {
	filter Filter
}

// NewDisableAccessLog creates the spec of the disableAccessLog
// middleware.
func NewDisableAccessLog() middleware.Spec { return spec{enable: false} }

// NewEnableAccessLog creates the spec of the enableAccessLog middleware.
func NewEnableAccessLog() middleware.Spec { return spec{enable: true} }

func (s spec) Name() string {
	if s.enable {
		return EnableAccessLogName
	}

	return DisableAccessLogName
}

func (s spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	prefixes := make([]int, 0, len(args))
	for _, a := range args {
		p, err := middleware.IntArg(a)
		if err != nil || p < 0 {
			return nil, middleware.ErrInvalidMiddlewareParameters
		}

		prefixes = append(prefixes, p)
	}

	return &unit{filter: Filter{Enable: s.enable, Prefixes: prefixes}}, nil
}

func (u *unit) Handle(r *request.Request, next middleware.Next) (*http.Response, error) {
	if c, ok := r.Context().Value(contextKey{}).(*control); ok {
		f := u.filter
		c.filter = &f
	}

	return next(r)
}

// WithControl returns a copy of the request that carries the access log
// decision of the middleware units executed with it.
func WithControl(r *request.Request) *request.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKey{}, &control{}))
}

func matches(statusCode, prefix int) bool {
	switch {
	case prefix < 10:
		return statusCode >= prefix*100 && statusCode < (prefix+1)*100
	case prefix < 100:
		return statusCode >= prefix*10 && statusCode < (prefix+1)*10
	default:
		return statusCode == prefix
	}
}

// ShouldLog tells whether the filter allows logging a request with the
// status code.
func (f Filter) ShouldLog(statusCode int) bool {
	if len(f.Prefixes) == 0 {
		return f.Enable
	}

	match := false
	for _, p := range f.Prefixes {
		if matches(statusCode, p) {
			match = true
			break
		}
	}

	return match == f.Enable
}

// ShouldLog tells whether the access log entry of the request should be
// written. When no middleware unit decided about it, the default applies.
func ShouldLog(r *request.Request, statusCode int, enabledByDefault bool) bool {
	f := disabled
	if enabledByDefault {
		f = enabled
	}

	if c, ok := r.Context().Value(contextKey{}).(*control); ok && c.filter != nil {
		f = *c.filter
	}

	return f.ShouldLog(statusCode)
}
