/*
Package middleware implements the ordered chains of request interceptors
that wrap the handler of a matched route.

A middleware unit receives the request and a continuation, next, that
executes the rest of the chain. A unit may:

  - inspect or transform the request before calling next, by passing a
    modified copy of the request to it
  - inspect or transform the response after next returns
  - return its own response without calling next, which short-circuits the
    chain: the subsequent units and the handler are not executed
  - return a failure, which propagates unchanged through the units that
    were already invoked, up to the caller of the pipeline

The units are executed strictly in the order of the chain, one at a time.

Middleware units referenced by name from the route definitions are created
by the specs found in a Registry.
*/
package middleware

import (
	"errors"
	"net/http"

	"github.com/zalando/routecond/request"
)

// ErrInvalidMiddlewareParameters is used in case of invalid middleware
// parameters.
var ErrInvalidMiddlewareParameters = errors.New("invalid middleware parameters")

// Next executes the rest of the chain.
type Next func(*request.Request) (*http.Response, error)

// Middleware is a single unit of a chain.
type Middleware interface {
	Handle(r *request.Request, next Next) (*http.Response, error)
}

// Func adapts a function to the Middleware interface.
type Func func(r *request.Request, next Next) (*http.Response, error)

// Handle calls f.
func (f Func) Handle(r *request.Request, next Next) (*http.Response, error) {
	return f(r, next)
}

// Handler is the target of a chain, producing the response of a route.
type Handler interface {
	Serve(r *request.Request) (*http.Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(r *request.Request) (*http.Response, error)

// Serve calls f.
func (f HandlerFunc) Serve(r *request.Request) (*http.Response, error) {
	return f(r)
}

// Pipeline is an ordered chain of middleware units.
type Pipeline struct {
	units []Middleware
}

// New creates a pipeline executing the units in the order of the
// arguments.
func New(units ...Middleware) *Pipeline {
	return &Pipeline{units: append([]Middleware(nil), units...)}
}

// Len returns the number of units in the pipeline.
func (p *Pipeline) Len() int { return len(p.units) }

// Run executes the chain with h as its target.
func (p *Pipeline) Run(r *request.Request, h Handler) (*http.Response, error) {
	return p.next(0, h)(r)
}

func (p *Pipeline) next(i int, h Handler) Next {
	if i >= len(p.units) {
		return h.Serve
	}

	return func(r *request.Request) (*http.Response, error) {
		return p.units[i].Handle(r, p.next(i+1, h))
	}
}
