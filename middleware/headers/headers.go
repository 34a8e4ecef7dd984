/*
Package headers provides middleware units modifying the request and the
response headers.

	setRequestHeader("X-User-Id", "${id}")
	setResponseHeader("Cache-Control", "no-store")
	appendResponseHeader("Vary", "Accept")
	dropResponseHeader("Server")

The values may reference the arguments captured by the condition of the
route in the ${name} form.
*/
package headers

import (
	"net/http"
	"regexp"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const (
	SetRequestHeaderName     = "setRequestHeader"
	SetResponseHeaderName    = "setResponseHeader"
	AppendResponseHeaderName = "appendResponseHeader"
	DropResponseHeaderName   = "dropResponseHeader"
)

type headerType int

const (
	setRequestHeader headerType = iota
	setResponseHeader
	appendResponseHeader
	dropResponseHeader
)

var placeholderRegexp = regexp.MustCompile(`\$\{([a-zA-Z0-9_]+)\}`)

type spec struct {
	typ  headerType
	name string
}

type header struct {
	typ        headerType
	key, value string
}

func NewSetRequestHeader() middleware.Spec {
	return &spec{typ: setRequestHeader, name: SetRequestHeaderName}
}

func NewSetResponseHeader() middleware.Spec {
	return &spec{typ: setResponseHeader, name: SetResponseHeaderName}
}

func NewAppendResponseHeader() middleware.Spec {
	return &spec{typ: appendResponseHeader, name: AppendResponseHeaderName}
}

func NewDropResponseHeader() middleware.Spec {
	return &spec{typ: dropResponseHeader, name: DropResponseHeaderName}
}

func (s *spec) Name() string { return s.name }

func (s *spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	expected := 2
	if s.typ == dropResponseHeader {
		expected = 1
	}

	if len(args) != expected {
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	key, err := middleware.StringArg(args[0])
	if err != nil || key == "" {
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	h := &header{typ: s.typ, key: key}
	if expected == 2 {
		if h.value, err = middleware.StringArg(args[1]); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// expands the ${name} placeholders with the captured arguments. Unknown
// names expand to an empty string.
func expand(value string, r *request.Request) string {
	return placeholderRegexp.ReplaceAllStringFunc(value, func(p string) string {
		return r.Param(p[2 : len(p)-1])
	})
}

func (h *header) Handle(r *request.Request, next middleware.Next) (*http.Response, error) {
	value := expand(h.value, r)
	if h.typ == setRequestHeader {
		return next(r.WithHeader(h.key, value))
	}

	rsp, err := next(r)
	if rsp == nil {
		return rsp, err
	}

	if rsp.Header == nil {
		rsp.Header = make(http.Header)
	}

	switch h.typ {
	case setResponseHeader:
		rsp.Header.Set(h.key, value)
	case appendResponseHeader:
		rsp.Header.Add(h.key, value)
	case dropResponseHeader:
		rsp.Header.Del(h.key)
	}

	return rsp, err
}
