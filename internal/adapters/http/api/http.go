// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/perfscore/internal/adapters/artifact"
	service "github.com/okian/perfscore/internal/app"
	"github.com/okian/perfscore/internal/domain/model"
	"golang.org/x/time/rate"
)

// Submitter runs one prediction submission to completion.
type Submitter interface {
	Submit(ctx context.Context, rec model.Record) service.Outcome
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() service.Stats
}

// ModelDescriber describes the loaded model artifact.
type ModelDescriber interface {
	Info() artifact.Info
}

// Server wires HTTP routes for the prediction API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	predictHandler *PredictHandler
	modelHandler   *ModelHandler
	limiter        *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimiter limits POST /api/predict. A nil limiter disables limiting.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(submitter Submitter, stats StatsProvider, describer ModelDescriber, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(describer),
		statsHandler:   NewStatsHandler(stats),
		predictHandler: NewPredictHandler(submitter),
		modelHandler:   NewModelHandler(describer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/model", MetricsMiddleware(s.modelHandler.HandleModel, "model"))
	mux.HandleFunc("/api/predict", MetricsMiddleware(
		RateLimitMiddleware(s.predictHandler.HandlePredict, s.limiter, "predict"), "predict"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
