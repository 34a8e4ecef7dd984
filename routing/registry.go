package routing

import (
	"errors"
	"sort"
)

// ConditionSpec instances are used to create the conditions of a
// registered condition type.
type ConditionSpec interface {

	// Name of the condition type, as referenced in the route
	// definitions, e.g. "method" in ["method", "GET"].
	Name() string

	// Create a condition instance with the positional arguments of the
	// definition.
	Create(args []interface{}) (Condition, error)
}

type specFunc struct {
	name   string
	create func([]interface{}) (Condition, error)
}

// SpecFunc creates a ConditionSpec from a constructor function.
func SpecFunc(name string, create func(args []interface{}) (Condition, error)) ConditionSpec {
	return &specFunc{name: name, create: create}
}

func (s *specFunc) Name() string { return s.name }

func (s *specFunc) Create(args []interface{}) (Condition, error) {
	return s.create(args)
}

var errNotInstantiable = errors.New("condition type cannot be instantiated")

// Registry maps the condition type names to their specifications. It is
// populated once, when constructed, and it is safe for concurrent use.
type Registry struct {
	specs map[string]ConditionSpec
}

// NewRegistry creates a registry with the specs. When more specs have the
// same name, the last one wins.
func NewRegistry(specs ...ConditionSpec) *Registry {
	r := &Registry{specs: make(map[string]ConditionSpec, len(specs))}
	for _, s := range specs {
		r.specs[s.Name()] = s
	}

	return r
}

// With returns a new registry extended with the spec registered under
// name. A nil spec registers a type that exists, but cannot be
// instantiated.
func (r *Registry) With(name string, spec ConditionSpec) *Registry {
	c := &Registry{specs: make(map[string]ConditionSpec, len(r.specs)+1)}
	for n, s := range r.specs {
		c.specs[n] = s
	}

	c.specs[name] = spec
	return c
}

// Lookup returns the spec registered under name. The lookup is case
// sensitive.
func (r *Registry) Lookup(name string) (ConditionSpec, bool) {
	if r == nil {
		return nil, false
	}

	s, ok := r.specs[name]
	return s, ok
}

// Names returns the registered type names in alphabetical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}

	sort.Strings(names)
	return names
}
