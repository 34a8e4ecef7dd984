/*
Package header implements conditions matching the request headers.

The header condition requires the header to be present, and, when a
second argument is set, its value to match the regular expression:

	[header, X-Tenant]
	[header, Accept, "^application/json"]

The ajax condition matches the requests sent by XMLHttpRequest clients,
based on the X-Requested-With header:

	[ajax]
*/
package header

import (
	"regexp"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

const (
	requestedWithHeader = "X-Requested-With"
	xmlHTTPRequest      = "XMLHttpRequest"
)

type (
	spec     struct{}
	ajaxSpec struct{}

	condition struct {
		name     string
		valueExp *regexp.Regexp
	}
)

// New creates a header condition specification.
func New() routing.ConditionSpec { return &spec{} }

// NewAjax creates an ajax condition specification.
func NewAjax() routing.ConditionSpec { return &ajaxSpec{} }

func (*spec) Name() string { return conditions.HeaderName }

func (*spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	sargs, err := conditions.StringArgs(args)
	if err != nil {
		return nil, err
	}

	c := &condition{name: sargs[0]}
	if len(sargs) == 2 {
		if c.valueExp, err = regexp.Compile(sargs[1]); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (*ajaxSpec) Name() string { return conditions.AjaxName }

func (*ajaxSpec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) != 0 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	return &condition{
		name:     requestedWithHeader,
		valueExp: regexp.MustCompile("^" + xmlHTTPRequest + "$"),
	}, nil
}

func (c *condition) Satisfied(r *request.Request) bool {
	values := conditions.ValueStrings(r.HeadersValue(c.name))
	if len(values) == 0 {
		return false
	}

	if c.valueExp == nil {
		return true
	}

	for _, v := range values {
		if c.valueExp.MatchString(v) {
			return true
		}
	}

	return false
}
