package middleware

import (
	"net/http"
	"time"

	"github.com/zalando/routecond/metrics"
	"github.com/zalando/routecond/request"
)

// Spec objects are used to create middleware units by the names and the
// arguments found in the route definitions.
type Spec interface {

	// The name of the middleware as referenced in the route definitions.
	Name() string

	// Creates a middleware unit with the arguments of a route
	// definition.
	CreateMiddleware(args []interface{}) (Middleware, error)
}

// Registry contains the middleware specs by their names.
type Registry map[string]Spec

// Register a middleware spec. A spec with the same name is replaced.
func (r Registry) Register(s Spec) {
	r[s.Name()] = s
}

type measured struct {
	name    string
	unit    Middleware
	metrics metrics.Metrics
}

// Measure wraps a middleware unit so that its duration, including the
// rest of the chain, is reported to the metrics collector.
func Measure(name string, m Middleware, mtr metrics.Metrics) Middleware {
	if mtr == nil {
		return m
	}

	return &measured{name: name, unit: m, metrics: mtr}
}

func (m *measured) Handle(r *request.Request, next Next) (*http.Response, error) {
	defer m.metrics.MeasureMiddleware(m.name, time.Now())
	return m.unit.Handle(r, next)
}
