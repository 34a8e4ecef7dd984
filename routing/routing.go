package routing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zalando/routecond/handlers"
	"github.com/zalando/routecond/metrics"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

// DefaultPollTimeout is used when Options.PollTimeout is not set.
const DefaultPollTimeout = 3 * time.Second

// DataClient instances provide data sources for route definitions.
type DataClient interface {
	LoadAll() ([]*RouteDef, error)
	LoadUpdate() ([]*RouteDef, []string, error)
}

// Options for initialization for routing.
type Options struct {

	// Factory creating the conditions of the routes.
	Factory *Factory

	// Middleware specs referenced by the route definitions.
	MiddlewareRegistry middleware.Registry

	// Handler specs referenced by the route definitions.
	HandlerRegistry handlers.Registry

	// The timeout between requests to the data clients for route
	// definition updates.
	PollTimeout time.Duration

	// The set of different data clients where the route definitions
	// are read from. The definitions are merged by their id, the
	// later clients override the earlier ones.
	DataClients []DataClient

	// Metrics collector.
	Metrics metrics.Metrics

	// SuppressLogs indicates whether to log only a summary of the route
	// changes.
	SuppressLogs bool
}

func (o Options) tableOptions() TableOptions {
	return TableOptions{
		Factory:            o.Factory,
		MiddlewareRegistry: o.MiddlewareRegistry,
		HandlerRegistry:    o.HandlerRegistry,
		Metrics:            o.Metrics,
	}
}

// Routing ('router') instance providing live updatable request matching.
type Routing struct {
	table         atomic.Pointer[Table]
	firstLoad     chan struct{}
	firstLoadOnce sync.Once
	quit          chan struct{}
	closeOnce     sync.Once
	metrics       metrics.Metrics
}

// New initializes a routing instance, and starts listening for route
// definition updates.
func New(o Options) *Routing {
	if o.PollTimeout <= 0 {
		o.PollTimeout = DefaultPollTimeout
	}

	if o.Metrics == nil {
		o.Metrics = metrics.Default
	}

	if o.Factory == nil {
		o.Factory = NewFactory(NewRegistry(NewURLSpec(URLOptions{}), NewCustomSpec()))
	}

	r := &Routing{
		firstLoad: make(chan struct{}),
		quit:      make(chan struct{}),
		metrics:   o.Metrics,
	}

	r.table.Store(&Table{})
	go r.receiveTables(o)
	return r
}

func (r *Routing) receiveTables(o Options) {
	for t := range receiveRouteTables(o, r.quit) {
		r.table.Store(t)
		r.firstLoadOnce.Do(func() { close(r.firstLoad) })
	}
}

// Get returns the current routing table. It never returns nil.
func (r *Routing) Get() *Table {
	return r.table.Load()
}

// Route matches a request in the current routing table, and measures the
// time of the lookup.
func (r *Routing) Route(req *request.Request) (*Route, map[string]string) {
	defer r.metrics.MeasureRouteLookup(time.Now())
	return r.Get().Match(req)
}

// FirstLoad provides a channel that is closed when the routing table
// was created from the initial route definitions of all the data
// clients.
func (r *Routing) FirstLoad() <-chan struct{} {
	return r.firstLoad
}

// Close closes routing, stops receiving routes.
func (r *Routing) Close() {
	r.closeOnce.Do(func() { close(r.quit) })
}
