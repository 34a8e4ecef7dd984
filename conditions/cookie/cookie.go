/*
Package cookie implements a condition to check the request cookies by name
and value.
*/
package cookie

import (
	"regexp"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type (
	spec struct{}

	condition struct {
		name     string
		valueExp *regexp.Regexp
	}
)

// New creates a condition specification, whose instances can be used to
// match request cookies.
//
// The cookie condition accepts two arguments, the cookie name, with what a
// cookie must exist in the request, and an expression that the cookie
// value needs to match.
//
// Example:
//
//	[cookie, tcial, "^enabled$"]
func New() routing.ConditionSpec { return &spec{} }

func (s *spec) Name() string { return conditions.CookieName }

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) != 2 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	sargs, err := conditions.StringArgs(args)
	if err != nil {
		return nil, err
	}

	valueExp, err := regexp.Compile(sargs[1])
	if err != nil {
		return nil, err
	}

	return &condition{sargs[0], valueExp}, nil
}

func (c *condition) Satisfied(r *request.Request) bool {
	v, ok := r.CookieValue(c.name).(string)
	if !ok {
		return false
	}

	return c.valueExp.MatchString(v)
}
