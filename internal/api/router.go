// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rudiend/weeklypedia/internal/metrics"
)

// RouterConfig carries the HTTP surface settings.
type RouterConfig struct {
	// CORSOrigins lists allowed origins. Empty means no cross-origin access.
	CORSOrigins []string

	// RateLimit is the per-IP request budget per minute. Zero disables
	// rate limiting.
	RateLimit int
}

// NewRouter builds the chi router for the service.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))
	r.Use(prometheusMetrics)

	r.Get("/", handler.Banner)
	r.Get("/api/v1/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}

		r.Get("/languages", handler.Languages)
		r.Get("/fetch", handler.Fetch)
		r.Get("/fetch/{lang}", handler.Fetch)
		r.Get("/view/{lang}", handler.View)
		r.Get("/view/{lang}/{format}", handler.View)
		r.Post("/send/{lang}", handler.Send)
		r.Post("/publish/{lang}", handler.Publish)
	})

	return r
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// prometheusMetrics records request counts and latency per route pattern.
// The chi route pattern is used instead of the raw path so per-language
// requests share a label and cardinality stays bounded.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
