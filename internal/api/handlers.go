// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
	"github.com/forkcast/forkcast/internal/recommend/rl"
)

// PlacesSearcher finds nearby restaurants through the upstream provider.
type PlacesSearcher interface {
	NearbyRestaurants(ctx context.Context, lat, lng float64, radius int, keyword string) ([]models.Restaurant, error)
}

// RecommendEngine produces ranked recommendations for a user profile.
type RecommendEngine interface {
	Recommend(ctx context.Context, profile *models.UserProfile, candidates []models.Restaurant) ([]recommend.Recommendation, error)
}

// FeedbackRecorder feeds a user reaction into the per-user learning agent.
type FeedbackRecorder interface {
	RecordFeedback(ctx context.Context, userID string, r *models.Restaurant, finalScore float64, action models.FeedbackAction) (bool, error)
	AgentCount() int
}

// ProfileStore persists user profiles for collaborative filtering.
type ProfileStore interface {
	Upsert(ctx context.Context, profile *models.UserProfile) error
}

// FeedbackStore persists feedback event records.
type FeedbackStore interface {
	Append(ctx context.Context, event *models.FeedbackEvent) error
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	places   PlacesSearcher
	engine   RecommendEngine
	feedback FeedbackRecorder
	profiles ProfileStore
	events   FeedbackStore
	logger   zerolog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(places PlacesSearcher, engine RecommendEngine, feedback FeedbackRecorder,
	profiles ProfileStore, events FeedbackStore, logger zerolog.Logger) *Handler {
	return &Handler{
		places:   places,
		engine:   engine,
		feedback: feedback,
		profiles: profiles,
		events:   events,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

const defaultSearchRadius = 1500

type restaurantsRequest struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	Radius    int     `validate:"gte=1,lte=50000"`
	Keyword   string  `validate:"omitempty,max=100"`
}

// Restaurants handles GET /api/v1/restaurants.
func (h *Handler) Restaurants(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	lat, okLat := getFloatParam(r, "latitude")
	lng, okLng := getFloatParam(r, "longitude")
	if !okLat || !okLng {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "latitude and longitude are required", nil)
		return
	}

	req := restaurantsRequest{
		Latitude:  lat,
		Longitude: lng,
		Radius:    getIntParam(r, "radius", defaultSearchRadius),
		Keyword:   r.URL.Query().Get("keyword"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	restaurants, err := h.places.NearbyRestaurants(r.Context(), req.Latitude, req.Longitude, req.Radius, req.Keyword)
	metrics.RecordPlacesSearch(time.Since(started), err)
	if err != nil {
		if r.Context().Err() != nil {
			respondError(w, http.StatusRequestTimeout, "REQUEST_CANCELLED", "request cancelled", nil)
			return
		}
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "places provider unavailable", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"count":       len(restaurants),
	}, started)
}

type recommendationsRequest struct {
	User        models.UserProfile  `json:"user" validate:"required"`
	Restaurants []models.Restaurant `json:"restaurants" validate:"required,min=1,dive"`
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req recommendationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	// Collaborative filtering reads all users' favorites from the
	// profile store; an upsert failure degrades scoring, not the request.
	if err := h.profiles.Upsert(r.Context(), &req.User); err != nil {
		h.logger.Warn().Err(err).Str("user_id", req.User.UID).Msg("profile upsert failed")
	}

	recs, err := h.engine.Recommend(r.Context(), &req.User, req.Restaurants)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "recommendation pipeline failed", err)
		return
	}
	metrics.RecordRecommendation(len(req.Restaurants), time.Since(started))

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	}, started)
}

type feedbackRequest struct {
	UserID     string            `json:"user_id" validate:"required"`
	Action     string            `json:"action" validate:"required,oneof=like dislike click_details skip"`
	FinalScore float64           `json:"final_score"`
	Restaurant models.Restaurant `json:"restaurant" validate:"required"`
}

// Feedback handles POST /api/v1/feedback.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	action := models.FeedbackAction(req.Action)
	replayed, err := h.feedback.RecordFeedback(r.Context(), req.UserID, &req.Restaurant, req.FinalScore, action)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "recording feedback failed", err)
		return
	}
	metrics.RecordFeedback(req.Action, replayed)
	metrics.ActiveAgents.Set(float64(h.feedback.AgentCount()))

	reward, _ := rl.RewardFor(action)
	event := &models.FeedbackEvent{
		UserID:         req.UserID,
		PlaceID:        req.Restaurant.PlaceID,
		RestaurantName: req.Restaurant.Name,
		Action:         action,
		Reward:         reward,
	}
	if err := h.events.Append(r.Context(), event); err != nil {
		// The agent already trained on this reaction; the audit record
		// is best effort.
		h.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("feedback event append failed")
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"recorded": true,
		"replayed": replayed,
		"reward":   reward,
	}, started)
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"active_agents": h.feedback.AgentCount(),
	}, started)
}
