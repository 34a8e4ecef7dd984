package routing

import (
	"fmt"
	"strings"

	"github.com/zalando/routecond/request"
)

// Condition decides whether a route applies to a request.
type Condition interface {
	Satisfied(*request.Request) bool
}

// ArgumentsValidator is implemented by the conditions that capture values
// from the request when satisfied, e.g. the wildcards of a url pattern.
type ArgumentsValidator interface {
	ValidatedArguments(*request.Request) map[string]string
}

// PredicateFunc is an arbitrary function deciding whether a request
// satisfies a condition. It receives the positional arguments of the
// condition definition.
type PredicateFunc func(r *request.Request, args ...interface{}) bool

// Arguments returns the values captured by the condition, or nil when the
// condition doesn't capture any.
func Arguments(c Condition, r *request.Request) map[string]string {
	if v, ok := c.(ArgumentsValidator); ok {
		return v.ValidatedArguments(r)
	}

	return nil
}

func describe(c Condition) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", c)
}

type urlCondition struct {
	pattern string
	matcher URLMatcher
}

type predicateCondition struct {
	fn   PredicateFunc
	args []interface{}
}

type compositeCondition struct {
	children []Condition
}

type negatedCondition struct {
	inner Condition
}

// NewURL creates a condition matching the path of the request against the
// pattern, using the default url pattern grammar.
func NewURL(pattern string) (Condition, error) {
	return newURL(pattern, nil)
}

func newURL(pattern string, compile func(string) (URLMatcher, error)) (Condition, error) {
	if compile == nil {
		compile = CompilePattern
	}

	m, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	return &urlCondition{pattern: pattern, matcher: m}, nil
}

// NewPredicate creates a condition calling fn with the request and the
// args.
func NewPredicate(fn PredicateFunc, args ...interface{}) Condition {
	return &predicateCondition{fn: fn, args: args}
}

// NewComposite creates a condition that is satisfied when all the children
// are satisfied. The children are evaluated in order, and the evaluation
// stops at the first one not satisfied.
func NewComposite(children ...Condition) Condition {
	return &compositeCondition{children: children}
}

// NewNegated creates a condition that is satisfied when inner is not.
func NewNegated(inner Condition) Condition {
	return &negatedCondition{inner: inner}
}

func (c *urlCondition) Satisfied(r *request.Request) bool {
	ok, _ := c.matcher.Match(r.Path())
	return ok
}

func (c *urlCondition) ValidatedArguments(r *request.Request) map[string]string {
	_, args := c.matcher.Match(r.Path())
	return args
}

func (c *urlCondition) String() string {
	return fmt.Sprintf("url(%q)", c.pattern)
}

func (c *predicateCondition) Satisfied(r *request.Request) bool {
	return c.fn(r, c.args...)
}

func (c *predicateCondition) String() string {
	return fmt.Sprintf("predicate(%d args)", len(c.args))
}

func (c *compositeCondition) Satisfied(r *request.Request) bool {
	for _, ci := range c.children {
		if !ci.Satisfied(r) {
			return false
		}
	}

	return true
}

func (c *compositeCondition) ValidatedArguments(r *request.Request) map[string]string {
	var args map[string]string
	for _, ci := range c.children {
		for k, v := range Arguments(ci, r) {
			if args == nil {
				args = make(map[string]string)
			}

			args[k] = v
		}
	}

	return args
}

func (c *compositeCondition) String() string {
	s := make([]string, len(c.children))
	for i, ci := range c.children {
		s[i] = describe(ci)
	}

	return "all(" + strings.Join(s, ", ") + ")"
}

// a negated condition never captures arguments
func (c *negatedCondition) Satisfied(r *request.Request) bool {
	return !c.inner.Satisfied(r)
}

func (c *negatedCondition) String() string {
	return "not(" + describe(c.inner) + ")"
}
