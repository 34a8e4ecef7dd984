package routing

import (
	"errors"
	"fmt"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/metrics"
)

type invalidDefinitionError string

func (e invalidDefinitionError) Error() string { return string(e) }
func (e invalidDefinitionError) Code() string  { return string(e) }

var (
	errMissingID               = invalidDefinitionError("missing_id")
	errMissingCondition        = invalidDefinitionError("missing_condition")
	errUnknownMiddleware       = invalidDefinitionError("unknown_middleware")
	errInvalidMiddlewareParams = invalidDefinitionError("invalid_middleware_params")
	errMissingHandler          = invalidDefinitionError("missing_handler")
	errUnknownHandler          = invalidDefinitionError("unknown_handler")
	errInvalidHandlerParams    = invalidDefinitionError("invalid_handler_params")
)

func wrapInvalidDefinitionReason(reason invalidDefinitionError, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %w", reason, err)
}

// HandleValidationError reports an invalid route definition in the metrics,
// with the reason derived from the error.
func HandleValidationError(mtr metrics.Metrics, err error, routeID string) error {
	if err == nil {
		return nil
	}

	var defErr invalidDefinitionError
	reason := "other"
	switch {
	case errors.As(err, &defErr):
		reason = defErr.Code()
	case failure.HasKind(err):
		reason = failure.KindOf(err).Code()
	}

	mtr.SetInvalidRoute(routeID, reason)
	return fmt.Errorf("%s: %w", reason, err)
}
