/*
Package expr implements a condition evaluating a CEL expression
(https://github.com/google/cel-go) against the request.

The expression needs to evaluate to a boolean. The following variables are
available:

	method  string               the effective method
	path    string               the request path
	url     string               the absolute request url
	query   map(string, dyn)     query variables
	body    map(string, dyn)     body fields
	cookie  map(string, dyn)     cookies
	headers map(string, dyn)     headers, with canonical keys
	server  map(string, dyn)     server variables

Example:

	[expr, 'method == "POST" && headers["X-Tenant"] == "acme"']
*/
package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"
	log "github.com/sirupsen/logrus"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type spec struct {
	env *cel.Env
}

type condition struct {
	expression string
	program    cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("method", cel.StringType),
		cel.Variable("path", cel.StringType),
		cel.Variable("url", cel.StringType),
		cel.Variable("query", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("body", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("cookie", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("headers", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("server", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// New creates the expr condition specification. It fails when the CEL
// environment cannot be created.
func New() (routing.ConditionSpec, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &spec{env: env}, nil
}

func (*spec) Name() string { return conditions.ExprName }

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) != 1 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	expression, ok := args[0].(string)
	if !ok {
		return nil, conditions.ErrInvalidConditionParameters
	}

	ast, issues := s.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must evaluate to bool: %s", conditions.ErrInvalidConditionParameters, expression)
	}

	program, err := s.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	return &condition{expression: expression, program: program}, nil
}

func activation(r *request.Request) map[string]interface{} {
	return map[string]interface{}{
		"method":  r.Method(),
		"path":    r.Path(),
		"url":     r.URL(),
		"query":   map[string]interface{}(r.Query()),
		"body":    map[string]interface{}(r.Body()),
		"cookie":  map[string]interface{}(r.Cookie()),
		"headers": map[string]interface{}(r.Headers()),
		"server":  map[string]interface{}(r.Server()),
	}
}

// Evaluation errors, like accessing a missing key, leave the condition
// unsatisfied.
func (c *condition) Satisfied(r *request.Request) bool {
	out, _, err := c.program.Eval(activation(r))
	if err != nil {
		log.Debugf("failed to evaluate expression %q: %v", c.expression, err)
		return false
	}

	v, ok := out.Value().(bool)
	return ok && v
}
