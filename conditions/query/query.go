/*
Package query implements a condition to match routes based on the query
variables of the request.

It supports checking the existence of a query variable and also whether
its value matches a given regular expression.

Examples:

	// matches /?bb=a&query=withvalue and /?query=
	[query_var, query]

	// matches /?query=example and /?query=testing&query=example
	[query_var, query, "^example$"]
*/
package query

import (
	"regexp"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type matchType int

const (
	exists matchType = iota + 1
	matches
)

type condition struct {
	typ      matchType
	varName  string
	valueExp *regexp.Regexp
}

type spec struct{}

// New creates a new query_var condition specification.
func New() routing.ConditionSpec { return &spec{} }

func (s *spec) Name() string {
	return conditions.QueryVarName
}

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	sargs, err := conditions.StringArgs(args)
	if err != nil {
		return nil, err
	}

	if len(sargs) == 1 {
		return &condition{exists, sargs[0], nil}, nil
	}

	valueExp, err := regexp.Compile(sargs[1])
	if err != nil {
		return nil, err
	}

	return &condition{matches, sargs[0], valueExp}, nil
}

func (c *condition) Satisfied(r *request.Request) bool {
	v := r.QueryValue(c.varName)
	if v == nil {
		return false
	}

	if c.typ == exists {
		return true
	}

	for _, s := range conditions.ValueStrings(v) {
		if c.valueExp.MatchString(s) {
			return true
		}
	}

	return false
}
