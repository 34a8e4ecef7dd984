/*
Package ratelimit provides middleware units limiting the rate of the
requests served by a route.

	ratelimit(20, "1m")                        // 20 requests per minute for the route
	clientRatelimit(3, "1m")                   // 3 requests per minute per client address
	clientRatelimit(3, "1m", "Authorization")  // 3 requests per minute per Authorization header

The limits are token buckets of the size of the allowed requests, refilled
evenly during the time window. When a bucket is empty, the chain is
short-circuited with a 429 response, and the Retry-After header tells the
client when to try again.
*/
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/net"
	"github.com/zalando/routecond/request"
)

const (
	ServiceRatelimitName = "ratelimit"
	ClientRatelimitName  = "clientRatelimit"

	// RetryAfterHeader is set on the responses of the rejected requests.
	RetryAfterHeader = "Retry-After"

	// DefaultMaxClients is the number of client buckets kept before the
	// full ones are dropped.
	DefaultMaxClients = 10000
)

// Lookuper selects the key of the bucket of a request. An empty key means
// that the request is not limited.
type Lookuper interface {
	Lookup(*request.Request) string
}

type remoteAddrLookuper struct{}

func (remoteAddrLookuper) Lookup(r *request.Request) string {
	if a := net.RemoteAddr(r); a.IsValid() {
		return a.String()
	}

	return ""
}

// HeaderLookuper selects the bucket by a request header.
type HeaderLookuper string

func (h HeaderLookuper) Lookup(r *request.Request) string {
	return r.Header(string(h))
}

type serviceLookuper struct{}

func (serviceLookuper) Lookup(*request.Request) string { return "service" }

// Settings of a limit.
type Settings struct {
	MaxHits    int
	TimeWindow time.Duration
	MaxClients int
	Lookuper   Lookuper
}

type limiter struct {
	settings  Settings
	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
	sometimes rate.Sometimes
}

type spec struct {
	client bool
}

// NewServiceRatelimit creates the spec of the ratelimit middleware. The
// limit is shared by all the requests of the route.
func NewServiceRatelimit() middleware.Spec { return spec{} }

// NewClientRatelimit creates the spec of the clientRatelimit middleware.
// Every client gets its own limit, selected by the remote address or, when
// the third argument is set, by the header of that name.
func NewClientRatelimit() middleware.Spec { return spec{client: true} }

func (s spec) Name() string {
	if s.client {
		return ClientRatelimitName
	}

	return ServiceRatelimitName
}

func (s spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	maxArgs := 2
	if s.client {
		maxArgs = 3
	}

	if len(args) < 2 || len(args) > maxArgs {
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	maxHits, err := middleware.IntArg(args[0])
	if err != nil || maxHits <= 0 {
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	window, err := middleware.DurationArg(args[1])
	if err != nil || window <= 0 {
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	var lookuper Lookuper = serviceLookuper{}
	if s.client {
		lookuper = remoteAddrLookuper{}
		if len(args) == 3 {
			h, err := middleware.StringArg(args[2])
			if err != nil || h == "" {
				return nil, middleware.ErrInvalidMiddlewareParameters
			}

			lookuper = HeaderLookuper(h)
		}
	}

	return New(Settings{MaxHits: maxHits, TimeWindow: window, Lookuper: lookuper}), nil
}

// New creates a rate limiting middleware unit.
func New(s Settings) middleware.Middleware {
	if s.MaxClients <= 0 {
		s.MaxClients = DefaultMaxClients
	}

	if s.Lookuper == nil {
		s.Lookuper = serviceLookuper{}
	}

	return &limiter{
		settings:  s,
		buckets:   make(map[string]*rate.Limiter),
		sometimes: rate.Sometimes{First: 3, Interval: time.Second},
	}
}

func (l *limiter) newBucket() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.settings.TimeWindow/time.Duration(l.settings.MaxHits)), l.settings.MaxHits)
}

// drops the buckets that are full again, those clients are not limited
// anymore. Must be called with the lock held.
func (l *limiter) purge() {
	burst := float64(l.settings.MaxHits)
	for key, b := range l.buckets {
		if b.Tokens() >= burst {
			delete(l.buckets, key)
		}
	}
}

func (l *limiter) reserve(key string) *rate.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.settings.MaxClients {
			l.purge()
		}

		b = l.newBucket()
		l.buckets[key] = b
	}

	return b.Reserve()
}

// Allow tells whether a request with the key can be served, and when not,
// how long the client needs to wait.
func (l *limiter) Allow(key string) (bool, time.Duration) {
	rv := l.reserve(key)
	delay := rv.Delay()
	if delay == 0 {
		return true, 0
	}

	rv.Cancel()
	return false, delay
}

func (l *limiter) Handle(r *request.Request, next middleware.Next) (*http.Response, error) {
	key := l.settings.Lookuper.Lookup(r)
	if key == "" {
		return next(r)
	}

	allow, retryAfter := l.Allow(key)
	if allow {
		return next(r)
	}

	l.sometimes.Do(func() {
		log.Infof("ratelimit reached for %s %s", r.Method(), r.Path())
	})

	rsp := middleware.NewTextResponse(http.StatusTooManyRequests, "")
	rsp.Header.Set(RetryAfterHeader, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	return rsp, nil
}
