// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package metrics exposes Prometheus instrumentation for the API layer,
// the recommendation pipeline, the per-user learning agents, and the
// upstream places provider. Metrics are registered via promauto at init
// and served from /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation pipeline metrics
	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lists produced",
		},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of candidate restaurants per recommendation request",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 100},
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end scoring duration per recommendation request",
			Buckets: prometheus.DefBuckets,
		},
	)

	RerankFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rerank_failures_total",
			Help: "Total number of reranker failures that fell back to blended scores",
		},
	)

	// Learning agent metrics
	FeedbackEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_events_total",
			Help: "Total number of feedback events recorded",
		},
		[]string{"action"},
	)

	AgentReplaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_replays_total",
			Help: "Total number of agent replay training passes",
		},
	)

	ActiveAgents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_agents",
			Help: "Current number of per-user agents cached in memory",
		},
	)

	// Places provider metrics
	PlacesRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "places_request_duration_seconds",
			Help:    "Duration of upstream places searches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlacesErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_errors_total",
			Help: "Total number of upstream places provider errors",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one recommendation request outcome.
func RecordRecommendation(candidates int, duration time.Duration) {
	RecommendationsServed.Inc()
	RecommendationCandidates.Observe(float64(candidates))
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordFeedback records one feedback event and whether it triggered a
// replay training pass.
func RecordFeedback(action string, replayed bool) {
	FeedbackEventsTotal.WithLabelValues(action).Inc()
	if replayed {
		AgentReplaysTotal.Inc()
	}
}

// RecordPlacesSearch records one upstream nearby search.
func RecordPlacesSearch(duration time.Duration, err error) {
	PlacesRequestDuration.Observe(duration.Seconds())
	if err != nil {
		PlacesErrors.Inc()
	}
}
