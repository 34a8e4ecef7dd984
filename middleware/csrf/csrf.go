/*
Package csrf implements a middleware protecting routes against cross-site
request forgery.

On every request, the middleware looks up the token sent by the client.
When it is missing or invalid, the request fails with
failure.ErrInvalidCsrfToken. Otherwise it generates a new token for the
next cycle, makes it available to the rest of the chain with Token, and
sends it in the X-Csrf-Token response header.

With the "issue" argument, the middleware doesn't check the incoming
token, only generates the new one. This is meant for the routes that render
the forms:

	[csrf, issue]
*/
package csrf

import (
	"context"
	"net/http"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const (
	// Name of the csrf middleware in the route definitions.
	Name = "csrf"

	// TokenField is the body field carrying the token.
	TokenField = "_csrf"

	// TokenHeader carries the token in the requests and the responses.
	TokenHeader = "X-Csrf-Token"

	issueArg = "issue"
)

type tokenKey struct{}

type spec struct {
	store Store
}

type csrf struct {
	store     Store
	issueOnly bool
}

// NewSpec creates the csrf middleware spec using store.
func NewSpec(store Store) middleware.Spec {
	return &spec{store: store}
}

// New creates a middleware unit validating the tokens.
func New(store Store) middleware.Middleware {
	return &csrf{store: store}
}

func (*spec) Name() string { return Name }

func (s *spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	switch len(args) {
	case 0:
		return New(s.store), nil
	case 1:
		if a, err := middleware.StringArg(args[0]); err != nil || a != issueArg {
			return nil, middleware.ErrInvalidMiddlewareParameters
		}

		return &csrf{store: s.store, issueOnly: true}, nil
	default:
		return nil, middleware.ErrInvalidMiddlewareParameters
	}
}

// Token returns the token generated for the next cycle of the request.
func Token(r *request.Request) string {
	t, _ := r.Context().Value(tokenKey{}).(string)
	return t
}

func (c *csrf) Handle(r *request.Request, next middleware.Next) (*http.Response, error) {
	if !c.issueOnly && !c.store.IsValid(c.store.TokenForRequest(r)) {
		return nil, failure.Errorf(failure.ErrInvalidCsrfToken, "missing or invalid token for %s %s", r.Method(), r.Path())
	}

	token, err := c.store.Generate()
	if err != nil {
		return nil, err
	}

	rsp, err := next(r.WithContext(context.WithValue(r.Context(), tokenKey{}, token)))
	if rsp != nil {
		if rsp.Header == nil {
			rsp.Header = make(http.Header)
		}

		rsp.Header.Set(TokenHeader, token)
	}

	return rsp, err
}
