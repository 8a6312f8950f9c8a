package app

import (
	"context"
	"github.com/langowen/currency_converter/deploy/config"
	"github.com/langowen/currency_converter/internal/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig(t *testing.T, providerURL string) *config.Config {
	t.Helper()

	return &config.Config{
		Fetcher: config.Fetcher{
			Token:    "token",
			URL:      providerURL,
			Base:     "USD",
			Interval: time.Hour,
			Timeout:  time.Second,
		},
		Transport: config.Transport{
			Network: "unix",
			Address: filepath.Join(t.TempDir(), "cc.sock"),
		},
		HTTPServer: config.HTTPServer{
			Timeout:         time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		},
		Redis: config.Redis{Channel: "currency_updated"},
		Log:   config.Log{Level: "error"},
	}
}

func startApp(t *testing.T, cfg *config.Config) *client.Client {
	t.Helper()

	a := NewConverterApp(cfg)
	a.registerer = prometheus.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	done, err := a.Start(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Error("application did not stop")
		}
	})

	return client.New(cfg.Transport.Network, cfg.Transport.Address, time.Second)
}

func TestConverterApp_ServesAfterInitialRefresh(t *testing.T) {
	var calls atomic.Int32
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"base":"USD","rates":{"EUR":0.9,"JPY":150,"GBP":0.8}}`))
	}))
	defer provider.Close()

	c := startApp(t, testConfig(t, provider.URL))

	res, err := c.ConvertCurrency(context.Background(), "USD", "EUR", 100)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, res.ConvertedAmount, 1e-9)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConverterApp_StartsWithEmptyCacheWhenProviderFails(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer provider.Close()

	c := startApp(t, testConfig(t, provider.URL))

	_, err := c.ConvertCurrency(context.Background(), "USD", "EUR", 100)
	var respErr *client.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "Exchange rates not available", respErr.Message)

	supported, err := c.GetSupportedCurrencies(context.Background())
	require.NoError(t, err)
	assert.Len(t, supported, 4)
}

func TestConverterApp_BindFailure(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Fetcher.Timeout = 50 * time.Millisecond
	cfg.Transport.Address = filepath.Join(t.TempDir(), "missing-dir", "cc.sock")

	a := NewConverterApp(cfg)
	a.registerer = prometheus.NewRegistry()

	done, err := a.Start(context.Background())
	assert.Error(t, err)
	assert.Nil(t, done)
}
