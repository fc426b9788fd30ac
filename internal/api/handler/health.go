package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/seo-writer/internal/api/response"
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServerTest answers the legacy liveness route
func ServerTest(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.Message{Message: "Server is running!"})
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store connectivity
func ReadyCheck(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string, len(deps))
		ready := true

		for name, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				checks[name] = "unavailable"
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		if !ready {
			response.Error(w, http.StatusServiceUnavailable, checks)
			return
		}

		response.OK(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}
