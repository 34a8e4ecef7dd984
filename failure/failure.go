/*
Package failure defines the typed failures raised while parsing route
conditions and while dispatching requests.

Every failure carries one of the Kind values defined here. Kinds are
checked with errors.Is, and the details are wrapped around the kind with
fmt.Errorf:

	err := failure.Errorf(failure.ErrUnknownConditionType, "unknown condition type specified: %s", name)
	errors.Is(err, failure.ErrUnknownConditionType) // true

Errors that don't carry a kind are reported as ErrUnhandled by KindOf.
*/
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies a category of failure. Its string value is used as a
// stable code in logs and metrics.
type Kind string

func (k Kind) Error() string { return string(k) }
func (k Kind) Code() string  { return string(k) }

// IsParseTime tells whether the kind is raised when parsing condition
// specifications, as opposed to when dispatching a request.
func (k Kind) IsParseTime() bool {
	switch k {
	case ErrInvalidConditionSpec, ErrUnknownConditionType, ErrMissingConditionClass:
		return true
	default:
		return false
	}
}

const (
	// ErrInvalidConditionSpec is raised when a condition specification is
	// none of the accepted forms.
	ErrInvalidConditionSpec Kind = "invalid_condition_spec"

	// ErrUnknownConditionType is raised when the type token of a condition
	// is neither registered nor callable.
	ErrUnknownConditionType Kind = "unknown_condition_type"

	// ErrMissingConditionClass is raised when a registered condition type
	// cannot be instantiated.
	ErrMissingConditionClass Kind = "missing_condition_class"

	// ErrNotFound signals that no route or resource matched the request.
	ErrNotFound Kind = "not_found"

	// ErrInvalidCsrfToken signals a missing or invalid CSRF token.
	ErrInvalidCsrfToken Kind = "invalid_csrf_token"

	// ErrUnhandled marks any other failure raised during dispatch.
	ErrUnhandled Kind = "unhandled"
)

// lookup order of KindOf
var kinds = []Kind{
	ErrInvalidCsrfToken,
	ErrNotFound,
	ErrInvalidConditionSpec,
	ErrUnknownConditionType,
	ErrMissingConditionClass,
	ErrUnhandled,
}

// Errorf creates a failure of the given kind with a formatted message.
// The format may use %w to wrap a cause.
func Errorf(k Kind, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{k}, args...)...)
}

// Wrap annotates err with the kind. It returns nil when err is nil.
func Wrap(k Kind, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %w", k, err)
}

// Unhandled wraps an arbitrary failure raised during dispatch. Errors that
// already carry a kind are returned unchanged.
func Unhandled(cause error) error {
	if cause == nil {
		return nil
	}

	if HasKind(cause) {
		return cause
	}

	return Wrap(ErrUnhandled, cause)
}

// NotFound creates a failure of kind ErrNotFound.
func NotFound(format string, args ...interface{}) error {
	return Errorf(ErrNotFound, format, args...)
}

// HasKind tells whether err carries any of the known kinds.
func HasKind(err error) bool {
	var k Kind
	return errors.As(err, &k)
}

// KindOf returns the kind of the failure. Errors without a kind are
// reported as ErrUnhandled, nil as an empty kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}

	return ErrUnhandled
}

// IsParseTime tells whether err was raised while parsing a condition
// specification.
func IsParseTime(err error) bool {
	return KindOf(err).IsParseTime()
}
