// Package builtin provides the default condition registry, containing all
// the condition types of the conditions subpackages, and the url and the
// custom types of the routing package.
package builtin

import (
	"github.com/zalando/routecond/conditions/auth"
	"github.com/zalando/routecond/conditions/cookie"
	"github.com/zalando/routecond/conditions/cron"
	"github.com/zalando/routecond/conditions/expr"
	"github.com/zalando/routecond/conditions/header"
	"github.com/zalando/routecond/conditions/host"
	"github.com/zalando/routecond/conditions/interval"
	"github.com/zalando/routecond/conditions/methods"
	"github.com/zalando/routecond/conditions/primitive"
	"github.com/zalando/routecond/conditions/query"
	"github.com/zalando/routecond/conditions/source"
	"github.com/zalando/routecond/routing"
)

// Specs returns all the builtin condition specs. The url type uses the
// provided matcher options.
func Specs(o routing.URLOptions) ([]routing.ConditionSpec, error) {
	e, err := expr.New()
	if err != nil {
		return nil, err
	}

	return []routing.ConditionSpec{
		routing.NewURLSpec(o),
		routing.NewCustomSpec(),
		methods.New(),
		header.New(),
		header.NewAjax(),
		cookie.New(),
		query.New(),
		host.New(),
		interval.NewAfter(),
		interval.NewBefore(),
		interval.NewBetween(),
		cron.New(),
		source.New(),
		source.NewFromLast(),
		auth.NewClaims(),
		auth.NewClaimsAny(),
		e,
		primitive.NewTrue(),
		primitive.NewFalse(),
	}, nil
}

// MakeRegistry creates a registry with the builtin condition specs and
// the additional ones. The additional specs override the builtin ones with
// the same name.
func MakeRegistry(o routing.URLOptions, additional ...routing.ConditionSpec) (*routing.Registry, error) {
	specs, err := Specs(o)
	if err != nil {
		return nil, err
	}

	return routing.NewRegistry(append(specs, additional...)...), nil
}

// MakeFactory creates a condition factory with the builtin registry.
func MakeFactory(o routing.URLOptions, additional ...routing.ConditionSpec) (*routing.Factory, error) {
	r, err := MakeRegistry(o, additional...)
	if err != nil {
		return nil, err
	}

	f := routing.NewFactory(r)
	f.URL = o
	return f, nil
}
