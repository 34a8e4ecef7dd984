/*
Package circuit provides middleware units protecting a route with a
circuit breaker.

	consecutiveBreaker(5)                // opens after 5 failures in a row
	consecutiveBreaker(5, "30s", 3)      // with a timeout of 30s and 3 half-open requests
	rateBreaker(10, 100)                 // opens after 10 failures of the last 100 requests
	rateBreaker(10, 100, "30s", 3)

A request counts as failed when the rest of the chain returns a failure,
or a response with a status code of 500 or higher. While the breaker is
open, the chain is short-circuited with a 503 response.
*/
package circuit

import (
	"net/http"

	"github.com/zalando/routecond/circuit"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const (
	ConsecutiveBreakerName = "consecutiveBreaker"
	RateBreakerName        = "rateBreaker"

	// BreakerHeader is set on the responses rejected by an open breaker.
	BreakerHeader = "X-Circuit-Open"
)

type spec struct {
	typ circuit.BreakerType
}

type unit struct {
	breaker *circuit.Breaker
}

// NewConsecutiveBreaker creates the spec of the consecutiveBreaker
// middleware.
func NewConsecutiveBreaker() middleware.Spec {
	return &spec{typ: circuit.ConsecutiveFailures}
}

// NewRateBreaker creates the spec of the rateBreaker middleware.
func NewRateBreaker() middleware.Spec {
	return &spec{typ: circuit.FailureRate}
}

func (s *spec) Name() string {
	if s.typ == circuit.FailureRate {
		return RateBreakerName
	}

	return ConsecutiveBreakerName
}

func positiveInt(a interface{}) (int, error) {
	i, err := middleware.IntArg(a)
	if err != nil || i <= 0 {
		return 0, middleware.ErrInvalidMiddlewareParameters
	}

	return i, nil
}

// parses the optional timeout and half-open requests
func optionalArgs(s *circuit.BreakerSettings, args []interface{}) error {
	var err error
	if len(args) > 0 {
		s.Timeout, err = middleware.DurationArg(args[0])
		if err != nil || s.Timeout < 0 {
			return middleware.ErrInvalidMiddlewareParameters
		}
	}

	if len(args) > 1 {
		s.HalfOpenRequests, err = positiveInt(args[1])
		if err != nil {
			return err
		}
	}

	return nil
}

func consecutiveSettings(args []interface{}) (circuit.BreakerSettings, error) {
	if len(args) == 0 || len(args) > 3 {
		return circuit.BreakerSettings{}, middleware.ErrInvalidMiddlewareParameters
	}

	failures, err := positiveInt(args[0])
	if err != nil {
		return circuit.BreakerSettings{}, err
	}

	s := circuit.BreakerSettings{Type: circuit.ConsecutiveFailures, Failures: failures}
	return s, optionalArgs(&s, args[1:])
}

func rateSettings(args []interface{}) (circuit.BreakerSettings, error) {
	if len(args) < 2 || len(args) > 4 {
		return circuit.BreakerSettings{}, middleware.ErrInvalidMiddlewareParameters
	}

	failures, err := positiveInt(args[0])
	if err != nil {
		return circuit.BreakerSettings{}, err
	}

	window, err := positiveInt(args[1])
	if err != nil || window < failures {
		return circuit.BreakerSettings{}, middleware.ErrInvalidMiddlewareParameters
	}

	s := circuit.BreakerSettings{Type: circuit.FailureRate, Failures: failures, Window: window}
	return s, optionalArgs(&s, args[2:])
}

func (s *spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	var (
		settings circuit.BreakerSettings
		err      error
	)

	if s.typ == circuit.FailureRate {
		settings, err = rateSettings(args)
	} else {
		settings, err = consecutiveSettings(args)
	}

	if err != nil {
		return nil, err
	}

	return New(settings), nil
}

// New creates a middleware unit with its own breaker.
func New(s circuit.BreakerSettings) middleware.Middleware {
	if s.Name == "" {
		s.Name = s.String()
	}

	return &unit{breaker: circuit.NewBreaker(s)}
}

func (u *unit) Handle(r *request.Request, next middleware.Next) (*http.Response, error) {
	done, ok := u.breaker.Allow()
	if !ok {
		rsp := middleware.NewTextResponse(http.StatusServiceUnavailable, "")
		rsp.Header.Set(BreakerHeader, u.breaker.Settings().Name)
		return rsp, nil
	}

	rsp, err := next(r)
	done(err == nil && rsp != nil && rsp.StatusCode < http.StatusInternalServerError)
	return rsp, err
}

