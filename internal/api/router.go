package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each dependency probe in /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	cors := newCORSPolicy(s.cfg.CORS.AllowedOrigins, s.cfg.CORS.AllowedMethods, s.cfg.CORS.AllowedHeaders)
	r.Use(withRequestID, s.accessLog, s.recoverPanics, cors.handler, limitBody(s.cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleCreateDevice)
			r.Get("/provider/{provider}", s.handleListDevicesByProvider)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Patch("/", s.handleUpdateDevice)
				r.Put("/", s.handleUpdateDevice)
				r.Delete("/", s.handleDeleteDevice)
				r.Get("/positions", s.handleGetPositionHistory)
				r.Get("/positions/latest", s.handleGetLatestPosition)
			})
		})

		r.Route("/positions", func(r chi.Router) {
			r.Get("/", s.handleListPositions)
			r.Post("/", s.handleRecordPosition)
			r.Delete("/{id}", s.handleDeletePosition)
		})

		r.Get("/audit", s.handleListAuditLogs)
	})

	return r
}

// componentHealth is the health of one dependency.
type componentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// handleHealth probes the store and the optional integrations.
//
// The response is 503 with status "down" when the store fails, and 200 with
// status "degraded" when only an optional integration fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]componentHealth{"database": s.probe(r.Context(), s.database)}
	status, code := "ok", http.StatusOK

	if checks["database"].Status != "up" {
		status, code = "down", http.StatusServiceUnavailable
	}
	for name, checker := range s.optional {
		if checker == nil {
			continue
		}
		checks[name] = s.probe(r.Context(), checker)
		if checks[name].Status != "up" && status == "ok" {
			status = "degraded"
		}
	}

	writeJSON(w, code, map[string]any{
		"status":  status,
		"version": s.version,
		"checks":  checks,
	})
}

func (s *Server) probe(ctx context.Context, checker HealthChecker) componentHealth {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := checker.HealthCheck(ctx); err != nil {
		return componentHealth{Status: "down", Error: err.Error()}
	}
	return componentHealth{Status: "up"}
}
