package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/zalando/routecond"
	"github.com/zalando/routecond/request"
)

const csrfSecretEnv = "ROUTECOND_CSRF_SECRET"

type Config struct {
	ConfigFile string
	Flags      *flag.FlagSet

	// generic:
	Address            string        `yaml:"address"`
	Debug              bool          `yaml:"debug"`
	MaxBodyBytes       int64         `yaml:"max-body-bytes"`
	ShutdownTimeout    time.Duration `yaml:"shutdown-timeout"`
	WaitFirstRouteLoad bool          `yaml:"wait-first-route-load"`

	// route sources:
	RoutesFiles       *listFlag     `yaml:"routes-file"`
	SourcePollTimeout time.Duration `yaml:"source-poll-timeout"`

	// csrf:
	CsrfSecrets       *secretsFlag  `yaml:"csrf-secret"`
	CsrfSecretFile    string        `yaml:"csrf-secret-file"`
	CsrfSecretRefresh time.Duration `yaml:"csrf-secret-refresh"`
	CsrfMaxAge        time.Duration `yaml:"csrf-max-age"`

	// logging, metrics:
	ApplicationLog            string    `yaml:"application-log"`
	ApplicationLogLevel       log.Level `yaml:"-"`
	ApplicationLogLevelString string    `yaml:"application-log-level"`
	ApplicationLogPrefix      string    `yaml:"application-log-prefix"`
	ApplicationLogJSONEnabled bool      `yaml:"application-log-json-enabled"`
	AccessLog                 string    `yaml:"access-log"`
	AccessLogDisabled         bool      `yaml:"access-log-disabled"`
	AccessLogJSONEnabled      bool      `yaml:"access-log-json-enabled"`
	MetricsListener           string    `yaml:"metrics-listener"`
	MetricsPrefix             string    `yaml:"metrics-prefix"`
	RuntimeMetrics            bool      `yaml:"runtime-metrics"`

	// connections, timeouts:
	ReadTimeoutServer       time.Duration `yaml:"read-timeout-server"`
	ReadHeaderTimeoutServer time.Duration `yaml:"read-header-timeout-server"`
	WriteTimeoutServer      time.Duration `yaml:"write-timeout-server"`
	IdleTimeoutServer       time.Duration `yaml:"idle-timeout-server"`
}

func NewConfig() *Config {
	cfg := new(Config)
	cfg.RoutesFiles = commaListFlag()
	cfg.CsrfSecrets = &secretsFlag{}

	flag := flag.NewFlagSet("", flag.ExitOnError)
	flag.StringVar(&cfg.ConfigFile, "config-file", "", "if provided the flags will be loaded/overwritten by the values on the file (yaml)")

	// generic:
	flag.StringVar(&cfg.Address, "address", ":9090", "network address that routecond should listen on")
	flag.BoolVar(&cfg.Debug, "debug", false, "enables the diagnostic document in the responses of the unhandled failures")
	flag.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", request.DefaultMaxBodyBytes, "maximum size of the parsed request bodies")
	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "timeout of the graceful shutdown")
	flag.BoolVar(&cfg.WaitFirstRouteLoad, "wait-first-route-load", false, "prevent starting the listener before the first batch of route definitions was loaded")

	// route sources:
	flag.Var(cfg.RoutesFiles, "routes-file", "comma separated list of files containing route definitions, watched for changes")
	flag.DurationVar(&cfg.SourcePollTimeout, "source-poll-timeout", 3*time.Second, "polling timeout of the routing data sources")

	// csrf:
	flag.Var(cfg.CsrfSecrets, "csrf-secret", "secret sealing the csrf tokens, can be repeated for rotation, the first one is used for sealing")
	flag.StringVar(&cfg.CsrfSecretFile, "csrf-secret-file", "", "file containing the csrf secrets, one per line, overrides -csrf-secret")
	flag.DurationVar(&cfg.CsrfSecretRefresh, "csrf-secret-refresh", time.Minute, "interval of rereading the csrf secret file")
	flag.DurationVar(&cfg.CsrfMaxAge, "csrf-max-age", 2*time.Hour, "maximum age of the accepted csrf tokens")

	// logging, metrics:
	flag.StringVar(&cfg.ApplicationLog, "application-log", "", "output file for the application log. When not set, /dev/stderr is used")
	flag.StringVar(&cfg.ApplicationLogLevelString, "application-log-level", "INFO", "log level for application logs, possible values: PANIC, FATAL, ERROR, WARN, INFO, DEBUG")
	flag.StringVar(&cfg.ApplicationLogPrefix, "application-log-prefix", "[APP]", "prefix for each log entry")
	flag.BoolVar(&cfg.ApplicationLogJSONEnabled, "application-log-json-enabled", false, "when this flag is set, log in JSON format is used")
	flag.StringVar(&cfg.AccessLog, "access-log", "", "output file for the access log, When not set, /dev/stderr is used")
	flag.BoolVar(&cfg.AccessLogDisabled, "access-log-disabled", false, "when this flag is set, no access log is printed, unless the route enables it")
	flag.BoolVar(&cfg.AccessLogJSONEnabled, "access-log-json-enabled", false, "when this flag is set, log in JSON format is used")
	flag.StringVar(&cfg.MetricsListener, "metrics-listener", "", "network address used for exposing the /metrics endpoint. When not set, the metrics are disabled")
	flag.StringVar(&cfg.MetricsPrefix, "metrics-prefix", "", "allows setting a custom prefix for the metrics keys")
	flag.BoolVar(&cfg.RuntimeMetrics, "runtime-metrics", false, "enables reporting of the Go runtime statistics")

	// connections, timeouts:
	flag.DurationVar(&cfg.ReadTimeoutServer, "read-timeout-server", 5*time.Minute, "set ReadTimeout for http server connections")
	flag.DurationVar(&cfg.ReadHeaderTimeoutServer, "read-header-timeout-server", 60*time.Second, "set ReadHeaderTimeout for http server connections")
	flag.DurationVar(&cfg.WriteTimeoutServer, "write-timeout-server", 60*time.Second, "set WriteTimeout for http server connections")
	flag.DurationVar(&cfg.IdleTimeoutServer, "idle-timeout-server", 60*time.Second, "set IdleTimeout for http server connections")

	cfg.Flags = flag
	return cfg
}

func validate(c *Config) error {
	if _, err := log.ParseLevel(c.ApplicationLogLevelString); err != nil {
		return err
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max-body-bytes: %d", c.MaxBodyBytes)
	}

	if c.CsrfMaxAge <= 0 {
		return fmt.Errorf("invalid csrf-max-age: %v", c.CsrfMaxAge)
	}

	if c.CsrfSecretFile != "" && c.CsrfSecretRefresh <= 0 {
		return fmt.Errorf("invalid csrf-secret-refresh: %v", c.CsrfSecretRefresh)
	}

	return nil
}

func (c *Config) Parse() error {
	return c.ParseArgs(os.Args[0], os.Args[1:])
}

func (c *Config) ParseArgs(progname string, args []string) error {
	c.Flags.Init(progname, flag.ExitOnError)
	err := c.Flags.Parse(args)
	if err != nil {
		return err
	}

	// check if arguments were correctly parsed.
	if len(c.Flags.Args()) != 0 {
		return fmt.Errorf("invalid arguments: %s", c.Flags.Args())
	}

	if c.ConfigFile != "" {
		yamlFile, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}

		err = yaml.Unmarshal(yamlFile, c)
		if err != nil {
			return fmt.Errorf("unmarshalling config file error: %w", err)
		}

		err = c.Flags.Parse(args)
		if err != nil {
			return err
		}
	}

	if err := validate(c); err != nil {
		return err
	}

	c.ApplicationLogLevel, _ = log.ParseLevel(c.ApplicationLogLevelString)
	c.parseEnv()
	return nil
}

func (c *Config) ToOptions() routecond.Options {
	return routecond.Options{
		// generic:
		Address:            c.Address,
		Debug:              c.Debug,
		MaxBodyBytes:       c.MaxBodyBytes,
		ShutdownTimeout:    c.ShutdownTimeout,
		WaitFirstRouteLoad: c.WaitFirstRouteLoad,

		// route sources:
		RoutesFiles:       c.RoutesFiles.values,
		SourcePollTimeout: c.SourcePollTimeout,

		// csrf:
		CsrfSecrets:       []string(*c.CsrfSecrets),
		CsrfSecretFile:    c.CsrfSecretFile,
		CsrfSecretRefresh: c.CsrfSecretRefresh,
		CsrfMaxAge:        c.CsrfMaxAge,

		// logging, metrics:
		ApplicationLogOutput:      c.ApplicationLog,
		ApplicationLogPrefix:      c.ApplicationLogPrefix,
		ApplicationLogLevel:       c.ApplicationLogLevel,
		ApplicationLogJSONEnabled: c.ApplicationLogJSONEnabled,
		AccessLogOutput:           c.AccessLog,
		AccessLogDisabled:         c.AccessLogDisabled,
		AccessLogJSONEnabled:      c.AccessLogJSONEnabled,
		MetricsListener:           c.MetricsListener,
		MetricsPrefix:             c.MetricsPrefix,
		EnableRuntimeMetrics:      c.RuntimeMetrics,

		// connections, timeouts:
		ReadTimeoutServer:       c.ReadTimeoutServer,
		ReadHeaderTimeoutServer: c.ReadHeaderTimeoutServer,
		WriteTimeoutServer:      c.WriteTimeoutServer,
		IdleTimeoutServer:       c.IdleTimeoutServer,
	}
}

func (c *Config) parseEnv() {
	// the secret from the environment is used only when no other source
	// is configured
	if len(*c.CsrfSecrets) == 0 && c.CsrfSecretFile == "" {
		if s := os.Getenv(csrfSecretEnv); s != "" {
			*c.CsrfSecrets = secretsFlag{s}
		}
	}
}
