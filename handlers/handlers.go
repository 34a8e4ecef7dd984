/*
Package handlers contains the named handlers that produce the responses of
the routes. A route definition references its handler by name, together
with the handler arguments, e.g.:

	handler:
	  name: inlineContent
	  args: ["Hello, world!", "text/plain"]

A handler may fail with failure.ErrNotFound to request a 404 response.
*/
package handlers

import (
	"errors"

	"github.com/zalando/routecond/middleware"
)

const (
	StatusName        = "status"
	InlineContentName = "inlineContent"
	RedirectToName    = "redirectTo"
	NotFoundName      = "notFound"
)

// ErrInvalidHandlerParameters is used in case of invalid handler
// parameters.
var ErrInvalidHandlerParameters = errors.New("invalid handler parameters")

// Handler produces the response of a route.
type Handler = middleware.Handler

// Spec objects are used to create handlers by the names and the arguments
// found in the route definitions.
type Spec interface {
	Name() string
	CreateHandler(args []interface{}) (Handler, error)
}

// Registry contains the handler specs by their names.
type Registry map[string]Spec

// Register a handler spec. A spec with the same name is replaced.
func (r Registry) Register(s Spec) {
	r[s.Name()] = s
}

// NewRegistry creates a registry with the built-in handlers.
func NewRegistry() Registry {
	r := make(Registry)
	for _, s := range []Spec{
		NewStatus(),
		NewInlineContent(),
		NewRedirectTo(),
		NewNotFound(),
	} {
		r.Register(s)
	}

	return r
}

func stringArg(a interface{}) (string, error) {
	s, ok := a.(string)
	if !ok {
		return "", ErrInvalidHandlerParameters
	}

	return s, nil
}

func codeArg(a interface{}) (int, error) {
	c, err := middleware.IntArg(a)
	if err != nil || c < 100 || c > 599 {
		return 0, ErrInvalidHandlerParameters
	}

	return c, nil
}
