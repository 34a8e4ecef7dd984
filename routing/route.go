package routing

import (
	"fmt"
	"net/http"

	"github.com/zalando/routecond/handlers"
	"github.com/zalando/routecond/metrics"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

// MiddlewareDef references a middleware unit in a route definition.
type MiddlewareDef struct {
	Name string        `json:"name"`
	Args []interface{} `json:"args,omitempty"`
}

// HandlerDef references the handler of a route definition.
type HandlerDef struct {
	Name string        `json:"name"`
	Args []interface{} `json:"args,omitempty"`
}

// RouteDef is the definition of a route, as loaded by the data clients.
// The condition is in the loosely typed form accepted by Factory.Make.
type RouteDef struct {
	ID         string          `json:"id"`
	Condition  interface{}     `json:"condition"`
	Middleware []MiddlewareDef `json:"middleware,omitempty"`
	Handler    HandlerDef      `json:"handler"`
}

// Route is the runtime representation of a route definition.
type Route struct {
	ID         string
	Def        *RouteDef
	Condition  Condition
	Middleware []middleware.Middleware
	Handler    middleware.Handler

	pipeline *middleware.Pipeline
}

// Pipeline returns the middleware chain of the route.
func (r *Route) Pipeline() *middleware.Pipeline { return r.pipeline }

// Serve executes the middleware chain and the handler of the route.
func (r *Route) Serve(req *request.Request) (*http.Response, error) {
	return r.pipeline.Run(req, r.Handler)
}

// Table is an ordered set of routes.
type Table struct {
	routes []*Route
}

// Routes returns the routes of the table, in the order of evaluation.
func (t *Table) Routes() []*Route {
	if t == nil {
		return nil
	}

	return append([]*Route(nil), t.routes...)
}

// Match returns the first route whose condition is satisfied by the
// request, and the arguments captured by the condition. It returns nil
// when no route matches.
func (t *Table) Match(r *request.Request) (*Route, map[string]string) {
	if t == nil {
		return nil, nil
	}

	for _, rt := range t.routes {
		if rt.Condition.Satisfied(r) {
			return rt, Arguments(rt.Condition, r)
		}
	}

	return nil, nil
}

// TableOptions contain the registries used to create the routes from
// their definitions.
type TableOptions struct {

	// Factory creating the conditions. Required.
	Factory *Factory

	// Middleware specs referenced by the route definitions.
	MiddlewareRegistry middleware.Registry

	// Handler specs referenced by the route definitions.
	HandlerRegistry handlers.Registry

	// Metrics collector. When set, the middleware units are
	// measured, and the invalid routes are reported.
	Metrics metrics.Metrics
}

func createMiddleware(o TableOptions, def MiddlewareDef) (middleware.Middleware, error) {
	spec, ok := o.MiddlewareRegistry[def.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownMiddleware, def.Name)
	}

	m, err := spec.CreateMiddleware(def.Args)
	if err != nil {
		return nil, wrapInvalidDefinitionReason(errInvalidMiddlewareParams, fmt.Errorf("failed to create middleware %q: %w", def.Name, err))
	}

	return middleware.Measure(def.Name, m, o.Metrics), nil
}

func createHandler(o TableOptions, def HandlerDef) (middleware.Handler, error) {
	if def.Name == "" {
		return nil, errMissingHandler
	}

	spec, ok := o.HandlerRegistry[def.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownHandler, def.Name)
	}

	h, err := spec.CreateHandler(def.Args)
	if err != nil {
		return nil, wrapInvalidDefinitionReason(errInvalidHandlerParams, fmt.Errorf("failed to create handler %q: %w", def.Name, err))
	}

	return h, nil
}

func processRouteDef(o TableOptions, def *RouteDef) (*Route, error) {
	if def.ID == "" {
		return nil, errMissingID
	}

	if def.Condition == nil {
		return nil, errMissingCondition
	}

	c, err := o.Factory.Make(def.Condition)
	if err != nil {
		return nil, err
	}

	var ms []middleware.Middleware
	for _, md := range def.Middleware {
		m, err := createMiddleware(o, md)
		if err != nil {
			return nil, err
		}

		ms = append(ms, m)
	}

	h, err := createHandler(o, def.Handler)
	if err != nil {
		return nil, err
	}

	return &Route{
		ID:         def.ID,
		Def:        def,
		Condition:  c,
		Middleware: ms,
		Handler:    h,
		pipeline:   middleware.New(ms...),
	}, nil
}

// NewTable creates a routing table from the definitions, in their order.
// It fails on the first invalid definition.
func NewTable(o TableOptions, defs []*RouteDef) (*Table, error) {
	t := &Table{}
	for _, def := range defs {
		r, err := processRouteDef(o, def)
		if err != nil {
			return nil, fmt.Errorf("invalid route %q: %w", def.ID, err)
		}

		t.routes = append(t.routes, r)
	}

	return t, nil
}
