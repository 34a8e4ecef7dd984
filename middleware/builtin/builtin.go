// Package builtin provides the default middleware registry, containing
// the units of the middleware subpackages.
package builtin

import (
	"github.com/opentracing/opentracing-go"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/middleware/accesslog"
	"github.com/zalando/routecond/middleware/circuit"
	"github.com/zalando/routecond/middleware/csrf"
	"github.com/zalando/routecond/middleware/flowid"
	"github.com/zalando/routecond/middleware/headers"
	"github.com/zalando/routecond/middleware/ratelimit"
	"github.com/zalando/routecond/middleware/recovery"
	"github.com/zalando/routecond/middleware/tracing"
)

// Options for the builtin middleware units.
type Options struct {

	// Token store of the csrf middleware. When nil, the csrf middleware
	// is not registered.
	CsrfStore csrf.Store

	// Tracer of the tracing middleware. When nil, the global tracer is
	// used.
	Tracer opentracing.Tracer
}

// Specs returns the builtin middleware specs.
func Specs(o Options) []middleware.Spec {
	specs := []middleware.Spec{
		recovery.NewSpec(),
		accesslog.NewDisableAccessLog(),
		accesslog.NewEnableAccessLog(),
		flowid.NewSpec(),
		ratelimit.NewServiceRatelimit(),
		ratelimit.NewClientRatelimit(),
		circuit.NewConsecutiveBreaker(),
		circuit.NewRateBreaker(),
		headers.NewSetRequestHeader(),
		headers.NewSetResponseHeader(),
		headers.NewAppendResponseHeader(),
		headers.NewDropResponseHeader(),
		tracing.NewSpec(o.Tracer),
	}

	if o.CsrfStore != nil {
		specs = append(specs, csrf.NewSpec(o.CsrfStore))
	}

	return specs
}

// MakeRegistry creates a registry with the builtin middleware specs and
// the additional ones. The additional specs override the builtin ones with
// the same name.
func MakeRegistry(o Options, additional ...middleware.Spec) middleware.Registry {
	r := make(middleware.Registry)
	for _, s := range append(Specs(o), additional...) {
		r.Register(s)
	}

	return r
}
