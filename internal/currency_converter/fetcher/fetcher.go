package fetcher

import (
	"context"
	"fmt"
	"github.com/langowen/currency_converter/internal/currency_converter/matrix"
	"github.com/langowen/currency_converter/internal/currency_converter/metrics"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"log/slog"
	"time"
)

type Options struct {
	Base       entities.Code
	Currencies []entities.Code
	Interval   time.Duration
	Timeout    time.Duration
}

type Fetcher struct {
	storage    Storage
	httpClient HTTPClient
	redis      RedisStorage
	metrics    *metrics.Metrics
	opts       Options
}

// NewFetcher wires a refresh loop. redis may be nil when no notifier is configured.
func NewFetcher(storage Storage, client HTTPClient, redis RedisStorage, m *metrics.Metrics, opts Options) *Fetcher {
	return &Fetcher{
		storage:    storage,
		httpClient: client,
		redis:      redis,
		metrics:    m,
		opts:       opts,
	}
}

// StartFetcher refreshes on every tick until ctx is done. Failed cycles are
// logged and the previous snapshot stays published.
func (f *Fetcher) StartFetcher(ctx context.Context) error {
	const op = "fetcher.StartFetcher"

	ticker := time.NewTicker(f.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := f.Refresh(ctx); err != nil {
				slog.Error("Failed to refresh exchange rates", "op", op, "base", f.opts.Base, "error", err)
			}

		case <-ctx.Done():
			slog.Info("Exchange rate refresh stopped", "op", op)
			return errors.Wrap(ctx.Err(), op)
		}
	}
}

// Refresh runs one provider call, matrix build and publish.
func (f *Fetcher) Refresh(ctx context.Context) error {
	const op = "fetcher.Refresh"

	start := time.Now()

	snapshot, err := f.fetchSnapshot(ctx)
	if err != nil {
		result := metrics.ResultProviderError
		if errors.Is(err, entities.ErrBuild) {
			result = metrics.ResultBuildError
		}
		f.metrics.RecordRefresh(result, time.Since(start))
		return errors.Wrap(err, op)
	}

	if err := f.storage.Replace(snapshot); err != nil {
		f.metrics.RecordRefresh(metrics.ResultBuildError, time.Since(start))
		return errors.Wrap(err, op)
	}

	f.metrics.RecordRefresh(metrics.ResultSuccess, time.Since(start))
	f.metrics.RecordPublished(snapshot.UpdatedAt)

	slog.Info("Exchange rates updated", "op", op, "base", snapshot.Base, "currencies", len(snapshot.Matrix))

	if f.redis != nil {
		if err := f.redis.PublishUpd(ctx, snapshot); err != nil {
			slog.Warn("Failed to publish rates update", "op", op, "error", err)
		}
	}

	return nil
}

func (f *Fetcher) fetchSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	const op = "fetcher.fetchSnapshot"

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	quote, err := f.httpClient.GetRates(ctx, f.opts.Base, f.opts.Currencies)
	if err != nil {
		if !errors.Is(err, entities.ErrProvider) {
			err = fmt.Errorf("%w: %w", entities.ErrProvider, err)
		}
		return nil, errors.Wrap(err, op)
	}

	m, err := matrix.Build(quote.Base, quote.Rates, f.opts.Currencies)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	snapshot, err := entities.NewSnapshot(quote.Base, m, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return snapshot, nil
}
