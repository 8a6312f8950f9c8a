package public

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/langowen/currency_converter/deploy/config"
	"github.com/langowen/currency_converter/internal/currency_converter/metrics"
	mwLogger "github.com/langowen/currency_converter/internal/currency_converter/ports/http/public/middleware/logger"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

const maxBodyBytes = 64 << 10

type Server struct {
	Server  *http.Server
	cfg     *config.Config
	service Service
	storage Storage
	metrics *metrics.Metrics
}

func NewServer(cfg *config.Config, service Service, storage Storage, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
		storage: storage,
		metrics: m,
	}

	s.Server = &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mwLogger.New())
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", s.Health)
	r.Post("/", s.HandleMessage)

	return r
}

// StartServer binds the local listener and serves until ctx is done. The
// returned channel closes once in-flight exchanges have finished.
func StartServer(ctx context.Context, cfg *config.Config, service Service, storage Storage, m *metrics.Metrics) (<-chan struct{}, error) {
	const op = "public.StartServer"

	listener, err := Listen(cfg.Transport)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	server := NewServer(cfg, service, storage, m)

	doneChan := make(chan struct{})

	go func() {
		if err := server.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Http server error", "op", op, "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		if err := server.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to stop server", "op", op, "error", err)
		}

		close(doneChan)
	}()

	slog.Info("Listening", "op", op, "network", cfg.Transport.Network, "address", cfg.Transport.Address)

	return doneChan, nil
}

// Listen opens the local-only listener. A stale unix socket left by a
// previous run is removed first.
func Listen(t config.Transport) (net.Listener, error) {
	const op = "public.Listen"

	if t.Network == "unix" {
		if fi, err := os.Stat(t.Address); err == nil && fi.Mode()&os.ModeSocket != 0 {
			if err := os.Remove(t.Address); err != nil {
				return nil, errors.Wrap(err, op)
			}
		}
	}

	listener, err := net.Listen(t.Network, t.Address)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return listener, nil
}

// HandleMessage serves one request/response exchange.
func (s *Server) HandleMessage(w http.ResponseWriter, r *http.Request) {
	const op = "public.HandleMessage"

	start := time.Now()
	action := "unknown"

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.respondError(w, r, op, action, start, errors.Wrap(ErrBadRequest, err.Error()))
		return
	}

	req, err := DecodeRequest(body)
	if err != nil {
		s.respondError(w, r, op, action, start, err)
		return
	}
	action = string(req.Action())

	result, err := s.service.Handle(req)
	if err != nil {
		s.respondError(w, r, op, action, start, err)
		return
	}

	s.metrics.RecordRequest(action, "ok", time.Since(start))
	RespondWithJSON(w, http.StatusOK, result)
}

type healthResponse struct {
	Status    string        `json:"status"`
	Ready     bool          `json:"ready"`
	Base      entities.Code `json:"base,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.storage.Current()
	if !ok {
		RespondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}

	updatedAt := snapshot.UpdatedAt
	RespondWithJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Ready:     true,
		Base:      snapshot.Base,
		UpdatedAt: &updatedAt,
	})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, op, action string, start time.Time, err error) {
	code, message := errorStatus(err)

	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		slog.Error("Request failed", "op", op, "action", action, "request_id", middleware.GetReqID(r.Context()), "error", err)
	} else {
		slog.Debug("Request rejected", "op", op, "action", action, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}

	s.metrics.RecordRequest(action, "error", time.Since(start))
	RespondWithError(w, code, message)
}

// errorStatus maps a domain error to its status code and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "Amount must be a number"
	case errors.Is(err, entities.ErrAmountOutOfRange):
		return http.StatusUnprocessableEntity, "Amount is out of range"
	case errors.Is(err, entities.ErrUnknownCurrency):
		return http.StatusUnprocessableEntity, "Invalid currency code"
	case errors.Is(err, entities.ErrCacheUnavailable):
		return http.StatusServiceUnavailable, "Exchange rates not available"
	case errors.Is(err, entities.ErrUnknownAction):
		return http.StatusBadRequest, "Unknown action"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "Invalid request"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

// RespondWithJSON encodes data before the status is written, so a payload
// that cannot be encoded still yields a single error response.
func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		code = http.StatusInternalServerError
		body = []byte(`{"error":"Internal error"}`)
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)

	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}
