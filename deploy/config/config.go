package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"log"
	"log/slog"
	"net"
	"time"
)

type Config struct {
	Fetcher    Fetcher
	Transport  Transport
	HTTPServer HTTPServer
	Redis      Redis
	Log        Log
}

type Fetcher struct {
	Token    string        `env:"FXRATES_TOKEN" env-required:"true"`
	URL      string        `env:"FETCHER_URL" env-default:"https://api.fxratesapi.com/latest"`
	Base     string        `env:"FETCHER_BASE" env-default:"USD"`
	Interval time.Duration `env:"FETCHER_INTERVAL" env-default:"1h"`
	Timeout  time.Duration `env:"FETCHER_TIMEOUT" env-default:"10s"`
}

// Transport is the local request/response channel. Only unix sockets and
// loopback TCP addresses are accepted.
type Transport struct {
	Network string `env:"TRANSPORT_NETWORK" env-default:"unix"`
	Address string `env:"TRANSPORT_ADDRESS" env-default:"/tmp/currency_converter.sock"`
}

type HTTPServer struct {
	Timeout         time.Duration `env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Redis is optional; an empty Addr disables update notifications.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	Channel  string `env:"REDIS_CHANNEL" env-default:"currency_updated"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

func NewConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Error reading env: %v", err)
	}

	return cfg
}

// Load reads .env (if present) and the process environment. Any problem is
// reported as entities.ErrConfiguration.
func Load() (*Config, error) {
	const op = "config.Load"

	cfg := &Config{}

	_ = godotenv.Load(".env")

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.Wrapf(entities.ErrConfiguration, "%s: %v", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Fetcher.Token == "" {
		return errors.Wrap(entities.ErrConfiguration, "FXRATES_TOKEN is not set")
	}
	if !entities.IsSupported(entities.Code(c.Fetcher.Base)) {
		return errors.Wrapf(entities.ErrConfiguration, "unsupported base currency %q", c.Fetcher.Base)
	}
	if c.Fetcher.Interval <= 0 || c.Fetcher.Timeout <= 0 {
		return errors.Wrap(entities.ErrConfiguration, "fetcher interval and timeout must be positive")
	}

	switch c.Transport.Network {
	case "unix":
		if c.Transport.Address == "" {
			return errors.Wrap(entities.ErrConfiguration, "empty unix socket path")
		}
	case "tcp":
		if !isLoopback(c.Transport.Address) {
			return errors.Wrapf(entities.ErrConfiguration, "tcp address %q is not a loopback address", c.Transport.Address)
		}
	default:
		return errors.Wrapf(entities.ErrConfiguration, "unknown transport network %q", c.Transport.Network)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return errors.Wrapf(entities.ErrConfiguration, "log level: %v", err)
	}

	return nil
}

// SlogLevel returns the configured log level; validate guarantees it parses.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.Log.Level))
	return level
}

// LogValue keeps secrets out of the startup log line.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Group("fetcher",
			slog.String("url", c.Fetcher.URL),
			slog.String("base", c.Fetcher.Base),
			slog.Duration("interval", c.Fetcher.Interval),
			slog.Duration("timeout", c.Fetcher.Timeout),
		),
		slog.Group("transport",
			slog.String("network", c.Transport.Network),
			slog.String("address", c.Transport.Address),
		),
		slog.String("redis_addr", c.Redis.Addr),
		slog.String("log_level", c.Log.Level),
	)
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
