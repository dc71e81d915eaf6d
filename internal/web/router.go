// Package web exposes the dashboard state over HTTP.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/naka-gawa/repo-dashboard/internal/domain"
	"github.com/naka-gawa/repo-dashboard/internal/usecase"
)

// Runner performs one aggregation run.
type Runner interface {
	Refs() []domain.RepositoryRef
	Run(ctx context.Context, observe usecase.Observer) usecase.State
}

// NewRouter returns the HTTP handler of the dashboard.
// Every dashboard request starts a fresh run bound to the request's lifetime.
func NewRouter(runner Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/dashboard", func(w http.ResponseWriter, req *http.Request) {
		state := runner.Run(req.Context(), nil)
		if req.Context().Err() != nil {
			// client went away
			return
		}
		writeJSON(w, http.StatusOK, usecase.NewView(runner.Refs(), state), logger)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *log.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Millisecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
