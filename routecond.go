// Copyright 2015 Zalando SE
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routecond

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ot "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"

	"github.com/zalando/routecond/conditions/builtin"
	"github.com/zalando/routecond/dispatch"
	"github.com/zalando/routecond/errorhandler"
	"github.com/zalando/routecond/handlers"
	"github.com/zalando/routecond/logging"
	"github.com/zalando/routecond/metrics"
	"github.com/zalando/routecond/middleware"
	mwbuiltin "github.com/zalando/routecond/middleware/builtin"
	"github.com/zalando/routecond/middleware/csrf"
	"github.com/zalando/routecond/routefile"
	"github.com/zalando/routecond/routing"
	"github.com/zalando/routecond/secrets"
)

const (
	defaultSourcePollTimeout = 3 * time.Second
	defaultCsrfMaxAge        = 2 * time.Hour
	defaultCsrfSecretRefresh = time.Minute
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 60 * time.Second
	defaultFirstLoadTimeout  = 30 * time.Second
	applicationLogFilePerm   = 0o644
)

// Options to start routecond.
type Options struct {

	// Network address that routecond should listen on.
	Address string

	// List of files containing route definitions. The files are watched,
	// and the routes are updated on change.
	RoutesFiles []string

	// Additional data clients providing route definitions.
	CustomDataClients []routing.DataClient

	// The timeout between requests to the data clients for route
	// definition updates.
	SourcePollTimeout time.Duration

	// When set, the server starts listening only after the routing table
	// was created from the initial route definitions.
	WaitFirstRouteLoad bool

	// Enables the diagnostic document in the responses of the unhandled
	// failures.
	Debug bool

	// Secrets used to seal the CSRF tokens. The first one is used for
	// sealing, all of them for opening.
	CsrfSecrets []string

	// File containing the CSRF secrets, one per line. The file is
	// reread periodically. Overrides CsrfSecrets.
	CsrfSecretFile string

	// Interval of rereading CsrfSecretFile.
	CsrfSecretRefresh time.Duration

	// The maximum age of the accepted CSRF tokens.
	CsrfMaxAge time.Duration

	// Limits the size of the parsed request bodies.
	MaxBodyBytes int64

	// Additional condition types.
	CustomConditions []routing.ConditionSpec

	// Additional middleware units.
	CustomMiddleware []middleware.Spec

	// Additional handlers.
	CustomHandlers []handlers.Spec

	// Tracer used by the tracing middleware. When not set, the global
	// tracer is used.
	OpenTracingTracer ot.Tracer

	// Output file for the application log. Default is stderr.
	ApplicationLogOutput string

	// Prefix for the application log entries.
	ApplicationLogPrefix string

	// Minimum level of the application log entries.
	ApplicationLogLevel log.Level

	// Enables the JSON application log format.
	ApplicationLogJSONEnabled bool

	// Output file for the access log. Default is stderr.
	AccessLogOutput string

	// Disables the access log by default. The routes can still enable
	// it with the enableAccessLog middleware.
	AccessLogDisabled bool

	// Enables the JSON access log format.
	AccessLogJSONEnabled bool

	// Network address of the metrics endpoint. When not set, the metrics
	// are not collected.
	MetricsListener string

	// Common prefix of the metric names.
	MetricsPrefix string

	// Enables the collection of the Go runtime metrics.
	EnableRuntimeMetrics bool

	// Timeouts of the HTTP server.
	ReadTimeoutServer       time.Duration
	ReadHeaderTimeoutServer time.Duration
	WriteTimeoutServer      time.Duration
	IdleTimeoutServer       time.Duration

	// Timeout of the graceful shutdown.
	ShutdownTimeout time.Duration

	// When set, Run stops the server when the channel is closed, in
	// addition to SIGTERM and SIGINT.
	Shutdown <-chan struct{}
}

func openLogOutput(name string) (io.Writer, error) {
	if name == "" {
		return nil, nil
	}

	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, applicationLogFilePerm)
}

func initLog(o Options) error {
	appOut, err := openLogOutput(o.ApplicationLogOutput)
	if err != nil {
		return fmt.Errorf("failed to open application log output: %w", err)
	}

	accessOut, err := openLogOutput(o.AccessLogOutput)
	if err != nil {
		return fmt.Errorf("failed to open access log output: %w", err)
	}

	logging.Init(logging.Options{
		ApplicationLogPrefix:      o.ApplicationLogPrefix,
		ApplicationLogOutput:      appOut,
		ApplicationLogLevel:       o.ApplicationLogLevel,
		ApplicationLogJSONEnabled: o.ApplicationLogJSONEnabled,
		AccessLogOutput:           accessOut,
		AccessLogJSONEnabled:      o.AccessLogJSONEnabled,
	})

	return nil
}

func createCsrfStore(o Options) (csrf.Store, *secrets.Encrypter, error) {
	var source secrets.SecretSource
	switch {
	case o.CsrfSecretFile != "":
		source = secrets.FileSource(o.CsrfSecretFile)
	case len(o.CsrfSecrets) > 0:
		source = secrets.StaticSource(o.CsrfSecrets...)
	default:
		log.Warn("no csrf secret configured, the csrf middleware is disabled")
		return nil, nil, nil
	}

	e, err := secrets.NewEncrypter(source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create csrf encrypter: %w", err)
	}

	if o.CsrfSecretFile != "" {
		refresh := o.CsrfSecretRefresh
		if refresh <= 0 {
			refresh = defaultCsrfSecretRefresh
		}

		e.RunCipherRefresher(refresh)
	}

	maxAge := o.CsrfMaxAge
	if maxAge <= 0 {
		maxAge = defaultCsrfMaxAge
	}

	return csrf.NewSealedStore(e, maxAge), e, nil
}

func createDataClients(o Options) ([]routing.DataClient, func()) {
	var (
		clients []routing.DataClient
		watched []*routefile.WatchClient
	)

	for _, f := range o.RoutesFiles {
		w := routefile.Watch(f)
		watched = append(watched, w)
		clients = append(clients, w)
	}

	clients = append(clients, o.CustomDataClients...)
	return clients, func() {
		for _, w := range watched {
			w.Close()
		}
	}
}

// Runtime contains the components started by New.
type Runtime struct {
	Routing    *routing.Routing
	Dispatcher *dispatch.Dispatcher
	Metrics    metrics.Metrics

	closeClients func()
	encrypter    *secrets.Encrypter
}

// Close stops the route updates and the background tasks.
func (r *Runtime) Close() {
	r.Routing.Close()
	r.closeClients()
	if r.encrypter != nil {
		r.encrypter.Close()
	}
}

// New creates the routing and the dispatcher without starting the HTTP
// server. It doesn't initialize the logging.
func New(o Options) (*Runtime, error) {
	if o.SourcePollTimeout <= 0 {
		o.SourcePollTimeout = defaultSourcePollTimeout
	}

	m := metrics.Init(metrics.Options{
		Listener:             o.MetricsListener,
		Prefix:               o.MetricsPrefix,
		EnableRuntimeMetrics: o.EnableRuntimeMetrics,
	})

	factory, err := builtin.MakeFactory(routing.URLOptions{}, o.CustomConditions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create condition factory: %w", err)
	}

	store, encrypter, err := createCsrfStore(o)
	if err != nil {
		return nil, err
	}

	mwRegistry := mwbuiltin.MakeRegistry(mwbuiltin.Options{
		CsrfStore: store,
		Tracer:    o.OpenTracingTracer,
	}, o.CustomMiddleware...)

	handlerRegistry := handlers.NewRegistry()
	for _, h := range o.CustomHandlers {
		handlerRegistry.Register(h)
	}

	dataClients, closeClients := createDataClients(o)
	if len(dataClients) == 0 {
		log.Warn("no route source specified")
	}

	rt := routing.New(routing.Options{
		Factory:            factory,
		MiddlewareRegistry: mwRegistry,
		HandlerRegistry:    handlerRegistry,
		PollTimeout:        o.SourcePollTimeout,
		DataClients:        dataClients,
		Metrics:            m,
	})

	var renderer errorhandler.Renderer
	if o.Debug {
		renderer = errorhandler.DebugRenderer{}
	}

	d := dispatch.New(dispatch.Options{
		Router:            rt,
		Translator:        errorhandler.New(renderer, o.Debug),
		Metrics:           m,
		MaxBodyBytes:      o.MaxBodyBytes,
		AccessLogDisabled: o.AccessLogDisabled,
	})

	return &Runtime{
		Routing:      rt,
		Dispatcher:   d,
		Metrics:      m,
		closeClients: closeClients,
		encrypter:    encrypter,
	}, nil
}

func waitFirstLoad(rt *routing.Routing) {
	select {
	case <-rt.FirstLoad():
		log.Info("route definitions loaded")
	case <-time.After(defaultFirstLoadTimeout):
		log.Warn("timeout while waiting for the initial route definitions")
	}
}

func listenAndServe(o Options, h http.Handler) error {
	readHeaderTimeout := o.ReadHeaderTimeoutServer
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}

	server := &http.Server{
		Addr:              o.Address,
		Handler:           h,
		ReadTimeout:       o.ReadTimeoutServer,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      o.WriteTimeoutServer,
		IdleTimeout:       o.IdleTimeoutServer,
	}

	shutdownTimeout := o.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sig)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-sig:
		case <-o.Shutdown:
		}

		log.Info("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("failed to shut down gracefully: %v", err)
		}
	}()

	log.Infof("listening on %v", o.Address)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}

// Run routecond.
func Run(o Options) error {
	if err := initLog(o); err != nil {
		return err
	}

	r, err := New(o)
	if err != nil {
		return err
	}

	defer r.Close()
	if o.WaitFirstRouteLoad {
		waitFirstLoad(r.Routing)
	}

	return listenAndServe(o, r.Dispatcher)
}
