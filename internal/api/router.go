// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package api provides the HTTP surface: a chi router with request-ID,
// CORS, rate-limit, and metrics middleware, handlers for discovery,
// recommendations and feedback, and a consistent JSON response envelope.
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

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/metrics"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler  *Handler
	security config.SecurityConfig
}

// NewRouter creates the router.
func NewRouter(handler *Handler, security config.SecurityConfig) *Router {
	return &Router{handler: handler, security: security}
}

// Setup builds the full route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if !rt.security.RateLimitDisabled {
			r.Use(httprate.LimitByIP(rt.security.RateLimitReqs, rt.security.RateLimitWindow))
		}
		r.Use(prometheusMetrics)

		r.Get("/health", rt.handler.Health)
		r.Get("/restaurants", rt.handler.Restaurants)
		r.Post("/recommendations", rt.handler.Recommendations)
		r.Post("/feedback", rt.handler.Feedback)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	return r
}

// prometheusMetrics records request counts, durations and in-flight
// requests per route pattern.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		metrics.APIActiveRequests.Inc()
		defer metrics.APIActiveRequests.Dec()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.RecordAPIRequest(r.Method, endpoint, strconv.Itoa(ww.Status()), time.Since(started))
	})
}
