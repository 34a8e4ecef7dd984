package circuit

import (
	"strconv"
	"strings"
	"time"
)

// BreakerType defines the type of the used breaker: consecutive, rate or
// disabled.
type BreakerType int

const (
	BreakerNone BreakerType = iota
	ConsecutiveFailures
	FailureRate
	BreakerDisabled
)

// BreakerSettings contain the settings of a single breaker.
type BreakerSettings struct {
	Type             BreakerType
	Name             string
	Window           int
	Failures         int
	Timeout          time.Duration
	HalfOpenRequests int
}

type breakerImplementation interface {
	Allow() (func(bool), bool)
}

type voidBreaker struct{}

// Breaker represents a single circuit breaker.
type Breaker struct {
	settings BreakerSettings
	impl     breakerImplementation
}

// String returns the string representation of the settings.
func (s BreakerSettings) String() string {
	var ss []string

	switch s.Type {
	case ConsecutiveFailures:
		ss = append(ss, "type=consecutive")
	case FailureRate:
		ss = append(ss, "type=rate")
	case BreakerDisabled:
		return "disabled"
	default:
		return "none"
	}

	if s.Name != "" {
		ss = append(ss, "name="+s.Name)
	}

	if s.Type == FailureRate && s.Window > 0 {
		ss = append(ss, "window="+strconv.Itoa(s.Window))
	}

	if s.Failures > 0 {
		ss = append(ss, "failures="+strconv.Itoa(s.Failures))
	}

	if s.Timeout > 0 {
		ss = append(ss, "timeout="+s.Timeout.String())
	}

	if s.HalfOpenRequests > 0 {
		ss = append(ss, "half-open-requests="+strconv.Itoa(s.HalfOpenRequests))
	}

	return strings.Join(ss, ",")
}

func (voidBreaker) Allow() (func(bool), bool) {
	return func(bool) {}, true
}

// NewBreaker creates a breaker. Breakers of type BreakerNone and
// BreakerDisabled always allow the requests.
func NewBreaker(s BreakerSettings) *Breaker {
	var impl breakerImplementation
	switch s.Type {
	case ConsecutiveFailures:
		impl = newConsecutive(s)
	case FailureRate:
		impl = newRate(s)
	default:
		impl = voidBreaker{}
	}

	return &Breaker{
		settings: s,
		impl:     impl,
	}
}

// Settings returns the settings of the breaker.
func (b *Breaker) Settings() BreakerSettings { return b.settings }

// Allow returns true if the breaker is in the closed state and a callback
// function for reporting the outcome of the operation. The callback
// expects true values if the outcome of the request was successful.
// Allow doesn't return a callback function when the state is open.
func (b *Breaker) Allow() (func(bool), bool) {
	return b.impl.Allow()
}
