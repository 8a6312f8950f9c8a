package app

import (
	"context"
	"github.com/langowen/currency_converter/deploy/config"
	"github.com/langowen/currency_converter/internal/currency_converter/adapter/api_client/fxrates"
	"github.com/langowen/currency_converter/internal/currency_converter/adapter/storage/memory"
	"github.com/langowen/currency_converter/internal/currency_converter/adapter/storage/redis"
	"github.com/langowen/currency_converter/internal/currency_converter/fetcher"
	"github.com/langowen/currency_converter/internal/currency_converter/metrics"
	"github.com/langowen/currency_converter/internal/currency_converter/ports/http/public"
	"github.com/langowen/currency_converter/internal/currency_converter/service"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	redisPack "github.com/redis/go-redis/v9"
	"log/slog"
	"os"
)

type ConverterApp struct {
	cfg         *config.Config
	registerer  prometheus.Registerer
	redisClient *redisPack.Client
}

func NewConverterApp(cfg *config.Config) *ConverterApp {
	return &ConverterApp{
		cfg:        cfg,
		registerer: prometheus.DefaultRegisterer,
	}
}

// Start performs the initial refresh, binds the transport and launches the
// refresh loop. The returned channel closes after both have stopped.
func (a *ConverterApp) Start(ctx context.Context) (<-chan struct{}, error) {
	a.initLogger()
	slog.Info("Logger initialized")

	slog.Info("starting application", "config", a.cfg)

	cache := memory.NewCache()
	m := metrics.New(a.registerer)

	notifier := a.initRedis(ctx)

	fetch := a.initFetcher(cache, notifier, m)
	slog.Info("Fetcher initialized")

	if err := fetch.Refresh(ctx); err != nil {
		slog.Error("Initial exchange rate refresh failed, serving without rates", "error", err)
	}

	apiService := service.NewService(cache)
	slog.Info("Service initialized")

	serverDone, err := public.StartServer(ctx, a.cfg, apiService, cache, m)
	if err != nil {
		a.closeRedis()
		return nil, err
	}
	slog.Info("server started")

	fetcherDone := make(chan struct{})
	go func() {
		defer close(fetcherDone)
		if err := fetch.StartFetcher(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Fetcher stopped", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		<-fetcherDone
		<-serverDone
		a.closeRedis()
		close(done)
	}()

	return done, nil
}

func (a *ConverterApp) initLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     a.cfg.SlogLevel(),
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

// initRedis returns nil when notifications are disabled or Redis is unreachable.
func (a *ConverterApp) initRedis(ctx context.Context) fetcher.RedisStorage {
	if a.cfg.Redis.Addr == "" {
		slog.Info("Redis notifications disabled")
		return nil
	}

	options := &redisPack.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	}

	rdStorage, client, err := redis.InitStorage(ctx, options, a.cfg.Redis.Channel)
	if err != nil {
		slog.Error("Failed to initialize Redis, notifications disabled", "error", err)
		return nil
	}
	a.redisClient = client

	slog.Info("Redis client initialized", "channel", a.cfg.Redis.Channel)
	return rdStorage
}

func (a *ConverterApp) initFetcher(cache *memory.Cache, notifier fetcher.RedisStorage, m *metrics.Metrics) *fetcher.Fetcher {
	httpClient := fxrates.NewHTTPClient(a.cfg.Fetcher.URL, a.cfg.Fetcher.Token)

	return fetcher.NewFetcher(cache, httpClient, notifier, m, fetcher.Options{
		Base:       entities.Code(a.cfg.Fetcher.Base),
		Currencies: entities.SupportedCodes(),
		Interval:   a.cfg.Fetcher.Interval,
		Timeout:    a.cfg.Fetcher.Timeout,
	})
}

func (a *ConverterApp) closeRedis() {
	if a.redisClient == nil {
		return
	}
	if err := a.redisClient.Close(); err != nil {
		slog.Error("Failed to close Redis client", "error", err)
	}
}
