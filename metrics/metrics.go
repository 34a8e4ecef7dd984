/*
Package metrics implements collection of the request routing metrics.

The collected metrics include the time of looking up routes, the time spent
serving a route, the responses by status code, the failures by kind and the
route definitions that were rejected when loading them.

The metrics are collected with the Prometheus client library. To expose
them, the metrics need to be initialized with a Listener address, in which
case an additional http listener is started, where the current values can
be scraped from the /metrics path.
*/
package metrics

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	KeyRouteLookup  = "routelookup"
	KeyServeRoute   = "serve.route.%s.%s.%d"
	KeyFailure      = "failure.%s"
	KeyInvalidRoute = "route.invalid.%s..%s"
	KeyMiddleware   = "middleware.%s"
)

// Metrics is the generic interface that the collectors implement.
type Metrics interface {
	MeasureSince(key string, start time.Time)
	IncCounter(key string)
	IncCounterBy(key string, value int64)
	UpdateGauge(key string, value float64)
	MeasureRouteLookup(start time.Time)
	MeasureMiddleware(name string, start time.Time)
	MeasureServe(routeID, method string, code int, start time.Time)
	IncRoutingFailures()
	IncFailure(kind string)
	SetInvalidRoute(routeID, reason string)
	DeleteInvalidRoute(routeID string)
	RegisterHandler(path string, mux *http.ServeMux)
}

// Options for initializing metrics collection.
type Options struct {
	// Network address where the current metrics values
	// can be pulled from. If not set, the collection of
	// the metrics is disabled.
	Listener string

	// Common prefix for the keys of the different
	// collected metrics.
	Prefix string

	// If set, Go runtime and process metrics are collected
	// in addition to the http traffic metrics.
	EnableRuntimeMetrics bool

	// The buckets of the histograms. Defaults to the
	// Prometheus default buckets.
	HistogramBuckets []float64
}

// Default is the metrics collector used when none is configured. It
// discards all the values.
var Default Metrics = Void{}

// Init creates the Prometheus collector and, when a listener is
// configured, starts serving the collected values.
func Init(o Options) Metrics {
	if o.Listener == "" {
		log.Infoln("Metrics are disabled")
		return Default
	}

	p := NewPrometheus(o)
	mux := http.NewServeMux()
	p.RegisterHandler("/metrics", mux)

	log.Infof("metrics listener on %s/metrics", o.Listener)
	go func() {
		if err := http.ListenAndServe(o.Listener, mux); err != nil {
			log.Errorf("metrics listener failed: %v", err)
		}
	}()

	Default = p
	return p
}
