package metricstest

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zalando/routecond/metrics"
)

// MockMetrics records the collected values in memory, for tests.
type MockMetrics struct {
	Prefix string

	mu sync.Mutex

	// Metrics gathering
	counters map[string]int64
	gauges   map[string]float64
	measures map[string][]time.Duration
	Now      time.Time
}

var _ metrics.Metrics = (*MockMetrics)(nil)

//
// Public thread safe access to metrics
//

func (m *MockMetrics) WithCounters(f func(counters map[string]int64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	f(m.counters)
}

func (m *MockMetrics) WithMeasures(f func(measures map[string][]time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.measures == nil {
		m.measures = make(map[string][]time.Duration)
	}
	f(m.measures)
}

func (m *MockMetrics) WithGauges(f func(map[string]float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gauges == nil {
		m.gauges = make(map[string]float64)
	}

	f(m.gauges)
}

// Counter returns the current value of a counter.
func (m *MockMetrics) Counter(key string) (v int64) {
	m.WithCounters(func(c map[string]int64) { v = c[key] })
	return
}

// Gauge returns the current value of a gauge.
func (m *MockMetrics) Gauge(key string) (v float64, ok bool) {
	m.WithGauges(func(g map[string]float64) { v, ok = g[key] })
	return
}

// Measures returns the number of durations measured for the key.
func (m *MockMetrics) Measures(key string) (n int) {
	m.WithMeasures(func(ms map[string][]time.Duration) { n = len(ms[key]) })
	return
}

//
// Interface Metrics
//

func (m *MockMetrics) since(start time.Time) time.Duration {
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}

	return now.Sub(start)
}

func (m *MockMetrics) MeasureSince(key string, start time.Time) {
	d := m.since(start)
	key = m.Prefix + key
	m.WithMeasures(func(measures map[string][]time.Duration) {
		measures[key] = append(measures[key], d)
	})
}

func (m *MockMetrics) IncCounter(key string) {
	m.IncCounterBy(key, 1)
}

func (m *MockMetrics) IncCounterBy(key string, value int64) {
	key = m.Prefix + key
	m.WithCounters(func(counters map[string]int64) {
		counters[key] += value
	})
}

func (m *MockMetrics) UpdateGauge(key string, value float64) {
	key = m.Prefix + key
	m.WithGauges(func(g map[string]float64) {
		g[key] = value
	})
}

func (m *MockMetrics) MeasureRouteLookup(start time.Time) {
	m.MeasureSince(metrics.KeyRouteLookup, start)
}

func (m *MockMetrics) MeasureMiddleware(name string, start time.Time) {
	m.MeasureSince(fmt.Sprintf(metrics.KeyMiddleware, name), start)
}

func (m *MockMetrics) MeasureServe(routeID, method string, code int, start time.Time) {
	m.MeasureSince(fmt.Sprintf(metrics.KeyServeRoute, routeID, method, code), start)
}

func (m *MockMetrics) IncRoutingFailures() {
	m.IncCounter("routing.failures")
}

func (m *MockMetrics) IncFailure(kind string) {
	m.IncCounter(fmt.Sprintf(metrics.KeyFailure, kind))
}

func (m *MockMetrics) SetInvalidRoute(routeID, reason string) {
	m.UpdateGauge(fmt.Sprintf(metrics.KeyInvalidRoute, routeID, reason), 1)
}

func (m *MockMetrics) DeleteInvalidRoute(routeID string) {
	prefix := m.Prefix + fmt.Sprintf(metrics.KeyInvalidRoute, routeID, "")
	m.WithGauges(func(g map[string]float64) {
		for k := range g {
			if strings.HasPrefix(k, prefix) {
				delete(g, k)
			}
		}
	})
}

func (*MockMetrics) RegisterHandler(path string, handler *http.ServeMux) {}
