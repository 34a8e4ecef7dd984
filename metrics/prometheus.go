package metrics

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	promNamespace           = "routecond"
	promRouteSubsystem      = "route"
	promMiddlewareSubsystem = "middleware"
	promServeSubsystem      = "serve"
	promFailureSubsystem    = "failure"
	promCustomSubsystem     = "custom"
)

var version string

// Prometheus implements the prometheus metrics backend.
type Prometheus struct {
	routeLookupM    *prometheus.HistogramVec
	routeErrorsM    *prometheus.CounterVec
	invalidRouteM   *prometheus.GaugeVec
	middlewareM     *prometheus.HistogramVec
	serveRouteM     *prometheus.HistogramVec
	serveCounterM   *prometheus.CounterVec
	failureM        *prometheus.CounterVec
	customHistogram *prometheus.HistogramVec
	customCounterM  *prometheus.CounterVec
	customGaugeM    *prometheus.GaugeVec

	opts     Options
	registry *prometheus.Registry
	handler  http.Handler
}

// NewPrometheus returns a new Prometheus metric backend.
func NewPrometheus(opts Options) *Prometheus {
	namespace := promNamespace
	if opts.Prefix != "" {
		namespace = strings.TrimSuffix(opts.Prefix, ".")
	}

	buckets := opts.HistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	p := &Prometheus{
		routeLookupM: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: promRouteSubsystem,
			Name:      "lookup_duration_seconds",
			Help:      "Duration in seconds of a route lookup.",
			Buckets:   buckets,
		}, []string{"version"}),

		routeErrorsM: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: promRouteSubsystem,
			Name:      "error_total",
			Help:      "The total of route lookup errors.",
		}, []string{"version"}),

		invalidRouteM: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: promRouteSubsystem,
			Name:      "invalid",
			Help:      "Number of invalid route definitions.",
		}, []string{"route_id", "reason"}),

		middlewareM: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: promMiddlewareSubsystem,
			Name:      "duration_seconds",
			Help:      "Duration in seconds of a middleware unit, including the rest of the chain.",
			Buckets:   buckets,
		}, []string{"middleware", "version"}),

		serveRouteM: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: promServeSubsystem,
			Name:      "route_duration_seconds",
			Help:      "Duration in seconds of serving a route.",
			Buckets:   buckets,
		}, []string{"code", "method", "route", "version"}),

		serveCounterM: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: promServeSubsystem,
			Name:      "route_count",
			Help:      "Total number of requests of serving a route.",
		}, []string{"code", "method", "route", "version"}),

		failureM: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: promFailureSubsystem,
			Name:      "total",
			Help:      "Total number of failures by kind.",
		}, []string{"kind", "version"}),

		customHistogram: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: promCustomSubsystem,
			Name:      "duration_seconds",
			Help:      "Duration in seconds of custom metrics.",
			Buckets:   buckets,
		}, []string{"key", "version"}),

		customCounterM: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: promCustomSubsystem,
			Name:      "total",
			Help:      "Total number of custom metrics.",
		}, []string{"key", "version"}),

		customGaugeM: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: promCustomSubsystem,
			Name:      "gauges",
			Help:      "Gauges number of custom metrics.",
		}, []string{"key", "version"}),

		registry: prometheus.NewRegistry(),
		opts:     opts,
	}

	p.registerMetrics()
	return p
}

// sinceS returns the seconds passed since the start time until now.
func (p *Prometheus) sinceS(start time.Time) float64 {
	return time.Since(start).Seconds()
}

func (p *Prometheus) registerMetrics() {
	p.registry.MustRegister(p.routeLookupM)
	p.registry.MustRegister(p.routeErrorsM)
	p.registry.MustRegister(p.invalidRouteM)
	p.registry.MustRegister(p.middlewareM)
	p.registry.MustRegister(p.serveRouteM)
	p.registry.MustRegister(p.serveCounterM)
	p.registry.MustRegister(p.failureM)
	p.registry.MustRegister(p.customHistogram)
	p.registry.MustRegister(p.customCounterM)
	p.registry.MustRegister(p.customGaugeM)

	if p.opts.EnableRuntimeMetrics {
		p.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		p.registry.MustRegister(collectors.NewGoCollector())
	}
}

func (p *Prometheus) getHandler() http.Handler {
	if p.handler == nil {
		p.handler = promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
	}

	return p.handler
}

// RegisterHandler satisfies Metrics interface.
func (p *Prometheus) RegisterHandler(path string, mux *http.ServeMux) {
	mux.Handle(path, p.getHandler())
}

// MeasureSince satisfies Metrics interface.
func (p *Prometheus) MeasureSince(key string, start time.Time) {
	p.customHistogram.WithLabelValues(key, version).Observe(p.sinceS(start))
}

// IncCounter satisfies Metrics interface.
func (p *Prometheus) IncCounter(key string) {
	p.customCounterM.WithLabelValues(key, version).Inc()
}

// IncCounterBy satisfies Metrics interface.
func (p *Prometheus) IncCounterBy(key string, value int64) {
	p.customCounterM.WithLabelValues(key, version).Add(float64(value))
}

// UpdateGauge satisfies Metrics interface.
func (p *Prometheus) UpdateGauge(key string, v float64) {
	p.customGaugeM.WithLabelValues(key, version).Set(v)
}

// MeasureRouteLookup satisfies Metrics interface.
func (p *Prometheus) MeasureRouteLookup(start time.Time) {
	p.routeLookupM.WithLabelValues(version).Observe(p.sinceS(start))
}

// MeasureMiddleware satisfies Metrics interface.
func (p *Prometheus) MeasureMiddleware(name string, start time.Time) {
	p.middlewareM.WithLabelValues(name, version).Observe(p.sinceS(start))
}

// MeasureServe satisfies Metrics interface.
func (p *Prometheus) MeasureServe(routeID, method string, code int, start time.Time) {
	method = measuredMethod(method)
	c := fmt.Sprint(code)
	p.serveRouteM.WithLabelValues(c, method, routeID, version).Observe(p.sinceS(start))
	p.serveCounterM.WithLabelValues(c, method, routeID, version).Inc()
}

// IncRoutingFailures satisfies Metrics interface.
func (p *Prometheus) IncRoutingFailures() {
	p.routeErrorsM.WithLabelValues(version).Inc()
}

// IncFailure satisfies Metrics interface.
func (p *Prometheus) IncFailure(kind string) {
	p.failureM.WithLabelValues(kind, version).Inc()
}

// SetInvalidRoute satisfies Metrics interface.
func (p *Prometheus) SetInvalidRoute(routeID, reason string) {
	p.invalidRouteM.WithLabelValues(routeID, reason).Set(1)
}

// DeleteInvalidRoute satisfies Metrics interface.
func (p *Prometheus) DeleteInvalidRoute(routeID string) {
	p.invalidRouteM.DeletePartialMatch(prometheus.Labels{"route_id": routeID})
}
