// Package ops declares the operational HTTP surface: health, metrics,
// and run progress.
package ops

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/genemap/genemap/internal/domain/types"
)

// ProgressProvider exposes the state of the current run.
type ProgressProvider interface {
	Progress(ctx context.Context) types.Progress
}

// Server wires the operational HTTP routes.
type Server struct {
	healthHandler   *HealthHandler
	progressHandler *ProgressHandler
}

// NewServer creates an ops server over the given progress source.
func NewServer(provider ProgressProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		progressHandler: NewProgressHandler(provider),
	}
}

// Register attaches all routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/progress", MetricsMiddleware(s.progressHandler.HandleProgress, "progress"))
}

type errorResponse struct {
	Code    string `json:"code"`
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
