package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/clientspot/clientspot/shared/logger"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependency is a backing service checked by the readiness probe.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

// Health is a liveness probe endpoint.
// Returns 200 OK if the server is running.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready is a readiness probe endpoint.
// Returns 503 naming the first dependency that does not answer a ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, dep := range h.health {
		if err := dep.Checker.Ping(ctx); err != nil {
			logger.Log.Warn("readiness check failed", "dependency", dep.Name, "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(dep.Name + " unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
