package circuit

import (
	"sync"

	"github.com/sony/gobreaker"
)

type rateBreaker struct {
	settings BreakerSettings
	mx       sync.Mutex
	sampler  *failureSampler
	gb       *gobreaker.TwoStepCircuitBreaker
}

func newRate(s BreakerSettings) *rateBreaker {
	b := &rateBreaker{settings: s}
	b.gb = gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:          s.Name,
		MaxRequests:   uint32(s.HalfOpenRequests),
		Timeout:       s.Timeout,
		ReadyToTrip:   func(gobreaker.Counts) bool { return b.readyToTrip() },
		OnStateChange: logStateChange,
	})

	return b
}

func (b *rateBreaker) readyToTrip() bool {
	b.mx.Lock()
	defer b.mx.Unlock()

	if b.sampler == nil || b.sampler.failures < b.settings.Failures {
		return false
	}

	// the window starts over when the breaker closes again
	b.sampler = nil
	return true
}

// counts the failures in closed and half-open state
func (b *rateBreaker) countRate(success bool) {
	b.mx.Lock()
	defer b.mx.Unlock()

	if b.sampler == nil {
		b.sampler = newFailureSampler(b.settings.Window)
	}

	b.sampler.add(!success)
}

func (b *rateBreaker) Allow() (func(bool), bool) {
	done, err := b.gb.Allow()
	if err != nil {
		return nil, false
	}

	return func(success bool) {
		// the sample needs to be counted before gobreaker evaluates
		// readyToTrip
		b.countRate(success)
		done(success)
	}, true
}
