package routing

import (
	"fmt"
	"strings"

	"github.com/zalando/routecond/failure"
)

const (
	// URLName is the registered name of the url condition type,
	// e.g. ["url", "/users/:id"].
	URLName = "url"

	// CustomName is the registered name of the inline predicate
	// condition type, e.g. ["custom", fn, "arg"].
	CustomName = "custom"
)

// Factory creates the executable conditions from condition definitions.
type Factory struct {

	// Registry of the condition types that can be referenced by name.
	Registry *Registry

	// URL configures the compilation of url patterns.
	URL URLOptions
}

// NewFactory creates a factory with the registry.
func NewFactory(r *Registry) *Factory {
	return &Factory{Registry: r}
}

// Make parses the condition definition and creates the condition. The
// definition can be:
//
//   - a string: a url pattern
//   - a list of nested definitions: all of them need to be satisfied
//   - a list starting with a condition type name, followed by the
//     positional arguments of the condition. A type name prefixed with !
//     negates the condition.
//   - a list starting with a predicate function, followed by the
//     arguments passed to it
//   - a predicate function
func (f *Factory) Make(raw interface{}) (Condition, error) {
	s, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}

	return f.MakeSpec(s)
}

// MakeSpec creates the condition from a parsed definition.
func (f *Factory) MakeSpec(s Spec) (Condition, error) {
	switch v := s.(type) {
	case URLSpec:
		return newURL(string(v), f.URL.Compile)
	case ListSpec:
		return f.makeList(v)
	case FuncSpec:
		if v == nil {
			break
		}

		return NewPredicate(PredicateFunc(v)), nil
	}

	return nil, failure.Errorf(failure.ErrInvalidConditionSpec, "invalid condition options supplied: %T", s)
}

func (f *Factory) makeList(l ListSpec) (Condition, error) {
	if len(l) == 0 {
		return nil, failure.Errorf(failure.ErrInvalidConditionSpec, "no condition type specified")
	}

	if isList(l[0]) {
		return f.makeComposite(l)
	}

	typ, args := l[0], l[1:]
	if name, ok := typ.(string); ok && strings.HasPrefix(name, NegationPrefix) {
		negated := append(ListSpec{strings.TrimPrefix(name, NegationPrefix)}, args...)
		inner, err := f.makeList(negated)
		if err != nil {
			return nil, err
		}

		return NewNegated(inner), nil
	}

	if name, ok := typ.(string); ok {
		if spec, registered := f.Registry.Lookup(name); registered {
			return createRegistered(name, spec, args)
		}
	}

	if fn, ok := asPredicate(typ); ok {
		return NewPredicate(fn, args...), nil
	}

	return nil, failure.Errorf(failure.ErrUnknownConditionType, "unknown condition type specified: %v", typ)
}

func (f *Factory) makeComposite(l ListSpec) (Condition, error) {
	children := make([]Condition, len(l))
	for i, raw := range l {
		c, err := f.Make(raw)
		if err != nil {
			return nil, err
		}

		children[i] = c
	}

	return NewComposite(children...), nil
}

func createRegistered(name string, spec ConditionSpec, args []interface{}) (Condition, error) {
	if spec == nil {
		return nil, failure.Errorf(failure.ErrMissingConditionClass, "condition type %q: %w", name, errNotInstantiable)
	}

	c, err := spec.Create(args)
	if err != nil {
		return nil, failure.Errorf(failure.ErrMissingConditionClass, "failed to create condition %q: %w", name, err)
	}

	if c == nil {
		return nil, failure.Errorf(failure.ErrMissingConditionClass, "condition type %q: %w", name, errNotInstantiable)
	}

	return c, nil
}

// NewURLSpec creates the spec of the url condition type. Its single
// argument is the url pattern.
func NewURLSpec(o URLOptions) ConditionSpec {
	return SpecFunc(URLName, func(args []interface{}) (Condition, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects a single url pattern, got %d arguments", URLName, len(args))
		}

		p, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s expects a string url pattern, got %T", URLName, args[0])
		}

		return newURL(p, o.Compile)
	})
}

// NewCustomSpec creates the spec of the custom condition type. Its first
// argument is the predicate function, the rest of the arguments are passed
// to the predicate.
func NewCustomSpec() ConditionSpec {
	return SpecFunc(CustomName, func(args []interface{}) (Condition, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s expects a predicate function", CustomName)
		}

		fn, ok := asPredicate(args[0])
		if !ok {
			return nil, fmt.Errorf("%s expects a predicate function, got %T", CustomName, args[0])
		}

		return NewPredicate(fn, args[1:]...), nil
	})
}
