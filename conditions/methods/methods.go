/*
Package methods implements a condition to match routes based on the
effective HTTP method of the request.

It supports multiple methods, with case insensitive input. The effective
method respects the method override of the request model, so a form
posted with _method=DELETE matches a route restricted to DELETE.

Examples:

	// matches GET requests
	[method, GET]

	// matches GET or POST requests
	[method, GET, post]
*/
package methods

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type (
	spec struct {
		allowedMethods map[string]bool
	}

	condition struct {
		methods map[string]bool
	}
)

// New creates a method condition specification.
func New() routing.ConditionSpec {
	return &spec{allowedMethods: map[string]bool{
		http.MethodGet:     true,
		http.MethodHead:    true,
		http.MethodPost:    true,
		http.MethodPut:     true,
		http.MethodPatch:   true,
		http.MethodDelete:  true,
		http.MethodConnect: true,
		http.MethodOptions: true,
		http.MethodTrace:   true,
	}}
}

func (s *spec) Name() string { return conditions.MethodName }

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) == 0 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	methods, err := conditions.StringArgs(args)
	if err != nil {
		return nil, err
	}

	c := &condition{methods: make(map[string]bool)}
	for _, m := range methods {
		m = strings.ToUpper(m)
		if !s.allowedMethods[m] {
			return nil, fmt.Errorf("%w: method %s is not allowed", conditions.ErrInvalidConditionParameters, m)
		}

		c.methods[m] = true
	}

	return c, nil
}

func (c *condition) Satisfied(r *request.Request) bool {
	return c.methods[r.Method()]
}
