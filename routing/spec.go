package routing

import (
	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/request"
)

// NegationPrefix marks a negated condition type, e.g. ["!ajax"].
const NegationPrefix = "!"

// Spec is the parsed form of a condition definition. It is one of URLSpec,
// ListSpec or FuncSpec.
type Spec interface {
	spec()
}

// URLSpec is a plain url pattern.
type URLSpec string

// ListSpec is either a condition type followed by its positional
// arguments, e.g. ["method", "GET"], or a list of nested condition
// definitions that all need to be satisfied, e.g. [["method", "GET"],
// ["ajax"]].
type ListSpec []interface{}

// FuncSpec is an inline predicate.
type FuncSpec PredicateFunc

func (URLSpec) spec()  {}
func (ListSpec) spec() {}
func (FuncSpec) spec() {}

// ParseSpec classifies a loosely typed condition definition, as found in
// Go literals or in decoded YAML and JSON documents.
func ParseSpec(raw interface{}) (Spec, error) {
	switch v := raw.(type) {
	case Spec:
		return v, nil
	case string:
		return URLSpec(v), nil
	case []interface{}:
		return ListSpec(v), nil
	case []string:
		l := make(ListSpec, len(v))
		for i := range v {
			l[i] = v[i]
		}

		return l, nil
	case []Spec:
		l := make(ListSpec, len(v))
		for i := range v {
			l[i] = v[i]
		}

		return l, nil
	}

	if fn, ok := asPredicate(raw); ok {
		return FuncSpec(fn), nil
	}

	return nil, failure.Errorf(failure.ErrInvalidConditionSpec, "invalid condition options supplied: %T", raw)
}

func asPredicate(v interface{}) (PredicateFunc, bool) {
	switch fn := v.(type) {
	case PredicateFunc:
		return fn, fn != nil
	case FuncSpec:
		return PredicateFunc(fn), fn != nil
	case func(*request.Request, ...interface{}) bool:
		return fn, fn != nil
	case func(*request.Request) bool:
		if fn == nil {
			return nil, false
		}

		return func(r *request.Request, _ ...interface{}) bool { return fn(r) }, true
	default:
		return nil, false
	}
}

func isList(v interface{}) bool {
	switch v.(type) {
	case ListSpec, []interface{}, []string, []Spec:
		return true
	default:
		return false
	}
}
