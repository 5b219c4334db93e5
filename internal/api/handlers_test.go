// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
)

type stubPlaces struct {
	restaurants []models.Restaurant
	err         error
	gotRadius   int
	gotKeyword  string
}

func (s *stubPlaces) NearbyRestaurants(_ context.Context, _, _ float64, radius int, keyword string) ([]models.Restaurant, error) {
	s.gotRadius = radius
	s.gotKeyword = keyword
	return s.restaurants, s.err
}

type stubEngine struct {
	recs       []recommend.Recommendation
	err        error
	gotProfile *models.UserProfile
}

func (s *stubEngine) Recommend(_ context.Context, profile *models.UserProfile, _ []models.Restaurant) ([]recommend.Recommendation, error) {
	s.gotProfile = profile
	return s.recs, s.err
}

type stubFeedback struct {
	replayed  bool
	err       error
	gotAction models.FeedbackAction
	gotScore  float64
}

func (s *stubFeedback) RecordFeedback(_ context.Context, _ string, _ *models.Restaurant, finalScore float64, action models.FeedbackAction) (bool, error) {
	s.gotAction = action
	s.gotScore = finalScore
	return s.replayed, s.err
}

func (s *stubFeedback) AgentCount() int { return 3 }

type stubProfiles struct {
	upserts int
	err     error
}

func (s *stubProfiles) Upsert(_ context.Context, _ *models.UserProfile) error {
	s.upserts++
	return s.err
}

type stubEvents struct {
	events []*models.FeedbackEvent
	err    error
}

func (s *stubEvents) Append(_ context.Context, event *models.FeedbackEvent) error {
	s.events = append(s.events, event)
	return s.err
}

type handlerDeps struct {
	places   *stubPlaces
	engine   *stubEngine
	feedback *stubFeedback
	profiles *stubProfiles
	events   *stubEvents
}

func testHandler(t *testing.T) (*Handler, *handlerDeps) {
	t.Helper()
	var buf bytes.Buffer
	deps := &handlerDeps{
		places:   &stubPlaces{},
		engine:   &stubEngine{},
		feedback: &stubFeedback{},
		profiles: &stubProfiles{},
		events:   &stubEvents{},
	}
	h := NewHandler(deps.places, deps.engine, deps.feedback, deps.profiles, deps.events, logging.NewTestLogger(&buf))
	return h, deps
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return &resp
}

func TestRestaurants(t *testing.T) {
	h, deps := testHandler(t)
	rating := 4.2
	deps.places.restaurants = []models.Restaurant{
		{PlaceID: "p1", Name: "Nasi Kandar Corner", Rating: &rating},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants?latitude=3.15&longitude=101.71&keyword=curry", nil)
	rec := httptest.NewRecorder()
	h.Restaurants(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Errorf("Status = %q, want success", resp.Status)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data = %T, want object", resp.Data)
	}
	if data["count"].(float64) != 1 {
		t.Errorf("count = %v, want 1", data["count"])
	}
	if deps.places.gotRadius != defaultSearchRadius {
		t.Errorf("radius = %d, want default %d", deps.places.gotRadius, defaultSearchRadius)
	}
	if deps.places.gotKeyword != "curry" {
		t.Errorf("keyword = %q, want curry", deps.places.gotKeyword)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("ETag header missing")
	}
}

func TestRestaurants_Validation(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing coordinates", query: ""},
		{name: "latitude out of range", query: "latitude=95&longitude=0"},
		{name: "malformed latitude", query: "latitude=abc&longitude=0"},
		{name: "radius too large", query: "latitude=0&longitude=0&radius=99999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := testHandler(t)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants?"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.Restaurants(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Error = %+v, want VALIDATION_ERROR", resp.Error)
			}
		})
	}
}

func TestRestaurants_UpstreamError(t *testing.T) {
	h, deps := testHandler(t)
	deps.places.err = errors.New("provider down")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants?latitude=0&longitude=0", nil)
	rec := httptest.NewRecorder()
	h.Restaurants(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "UPSTREAM_ERROR" {
		t.Errorf("Error = %+v, want UPSTREAM_ERROR", resp.Error)
	}
}

func recommendationsBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"user": map[string]interface{}{
			"uid":         "u1",
			"preferences": []string{"thai"},
		},
		"restaurants": []map[string]interface{}{
			{"place_id": "p1", "name": "Som Tam House", "categories": []string{"thai"}},
		},
	})
	if err != nil {
		t.Fatalf("marshaling body: %v", err)
	}
	return body
}

func TestRecommendations(t *testing.T) {
	h, deps := testHandler(t)
	deps.engine.recs = []recommend.Recommendation{
		{Restaurant: models.Restaurant{PlaceID: "p1"}, FinalScore: 0.7, FinalScoreRL: 0.85},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader(recommendationsBody(t)))
	rec := httptest.NewRecorder()
	h.Recommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if deps.profiles.upserts != 1 {
		t.Errorf("profile upserts = %d, want 1", deps.profiles.upserts)
	}
	if deps.engine.gotProfile == nil || deps.engine.gotProfile.UID != "u1" {
		t.Errorf("engine profile = %+v, want u1", deps.engine.gotProfile)
	}
	if !strings.Contains(rec.Body.String(), "final_score_with_rl") {
		t.Errorf("body missing final_score_with_rl: %s", rec.Body.String())
	}
}

func TestRecommendations_ProfileUpsertFailureIsNonFatal(t *testing.T) {
	h, deps := testHandler(t)
	deps.profiles.err = errors.New("disk full")
	deps.engine.recs = []recommend.Recommendation{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader(recommendationsBody(t)))
	rec := httptest.NewRecorder()
	h.Recommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 despite upsert failure", rec.Code)
	}
}

func TestRecommendations_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		engineErr error
		wantCode  int
	}{
		{name: "malformed body", body: "{not json", wantCode: http.StatusBadRequest},
		{name: "missing user", body: `{"restaurants": [{"place_id": "p1"}]}`, wantCode: http.StatusBadRequest},
		{name: "empty candidates", body: `{"user": {"uid": "u1"}, "restaurants": []}`, wantCode: http.StatusBadRequest},
		{name: "engine failure", body: string(recommendationsBody(t)), engineErr: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, deps := testHandler(t)
			deps.engine.err = tt.engineErr

			req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Recommendations(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func feedbackBody(t *testing.T, action string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"user_id":     "u1",
		"action":      action,
		"final_score": 0.7,
		"restaurant":  map[string]interface{}{"place_id": "p1", "name": "Som Tam House"},
	})
	if err != nil {
		t.Fatalf("marshaling body: %v", err)
	}
	return body
}

func TestFeedback(t *testing.T) {
	h, deps := testHandler(t)
	deps.feedback.replayed = true

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewReader(feedbackBody(t, "like")))
	rec := httptest.NewRecorder()
	h.Feedback(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if deps.feedback.gotAction != models.ActionLike {
		t.Errorf("action = %q, want like", deps.feedback.gotAction)
	}
	if deps.feedback.gotScore != 0.7 {
		t.Errorf("final score = %f, want 0.7", deps.feedback.gotScore)
	}
	if len(deps.events.events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(deps.events.events))
	}
	event := deps.events.events[0]
	if event.Reward != 1.0 {
		t.Errorf("event reward = %f, want 1.0", event.Reward)
	}
	if event.PlaceID != "p1" || event.UserID != "u1" {
		t.Errorf("event = %+v, want u1/p1", event)
	}

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["replayed"] != true {
		t.Errorf("replayed = %v, want true", data["replayed"])
	}
}

func TestFeedback_RewardsPerAction(t *testing.T) {
	tests := []struct {
		action string
		reward float64
	}{
		{action: "like", reward: 1.0},
		{action: "dislike", reward: -1.0},
		{action: "click_details", reward: 0.5},
		{action: "skip", reward: -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			h, deps := testHandler(t)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewReader(feedbackBody(t, tt.action)))
			rec := httptest.NewRecorder()
			h.Feedback(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if deps.events.events[0].Reward != tt.reward {
				t.Errorf("reward = %f, want %f", deps.events.events[0].Reward, tt.reward)
			}
		})
	}
}

func TestFeedback_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		recorderErr error
		wantCode    int
	}{
		{name: "unknown action", body: string(feedbackBody(t, "share")), wantCode: http.StatusBadRequest},
		{name: "missing user id", body: `{"action": "like", "restaurant": {"place_id": "p1"}}`, wantCode: http.StatusBadRequest},
		{name: "recorder failure", body: string(feedbackBody(t, "like")), recorderErr: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, deps := testHandler(t)
			deps.feedback.err = tt.recorderErr

			req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Feedback(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestRouterRoutes(t *testing.T) {
	h, _ := testHandler(t)
	router := NewRouter(h, config.SecurityConfig{
		RateLimitReqs:   100,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"*"},
	})
	server := httptest.NewServer(router.Setup())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /api/v1/health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	metricsResp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer metricsResp.Body.Close()
	if metricsResp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", metricsResp.StatusCode)
	}

	notFound, err := http.Get(server.URL + "/api/v1/unknown")
	if err != nil {
		t.Fatalf("GET unknown: %v", err)
	}
	defer notFound.Body.Close()
	if notFound.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", notFound.StatusCode)
	}
}
