// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package algorithms

import (
	"context"
	"math"
	"testing"

	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
)

func floatPtr(v float64) *float64 { return &v }

func TestNewContentBased(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ContentConfig
		verify func(t *testing.T, cb *ContentBased)
	}{
		{
			name: "applies defaults for zero config",
			cfg:  ContentConfig{},
			verify: func(t *testing.T, cb *ContentBased) {
				if math.Abs(cb.textWeight-0.4) > 1e-9 {
					t.Errorf("textWeight = %f, want 0.4", cb.textWeight)
				}
				if math.Abs(cb.rateWeight-0.2) > 1e-9 {
					t.Errorf("rateWeight = %f, want 0.2", cb.rateWeight)
				}
			},
		},
		{
			name: "normalizes weights to sum to 1",
			cfg:  ContentConfig{TextWeight: 2, PreferenceWeight: 2, RatingWeight: 1},
			verify: func(t *testing.T, cb *ContentBased) {
				sum := cb.textWeight + cb.prefWeight + cb.rateWeight
				if math.Abs(sum-1) > 1e-9 {
					t.Errorf("weights sum = %f, want 1.0", sum)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := NewContentBased(tt.cfg)
			if cb == nil {
				t.Fatal("NewContentBased() returned nil")
			}
			if cb.Name() != "content" {
				t.Errorf("Name() = %q, want %q", cb.Name(), "content")
			}
			tt.verify(t, cb)
		})
	}
}

func TestContentBased_RestrictionGate(t *testing.T) {
	cb := NewContentBased(ContentConfig{})
	profile := &models.UserProfile{
		UID:          "u1",
		Preferences:  []string{"western"},
		Restrictions: []string{"halal"},
	}
	candidates := []models.Restaurant{
		{PlaceID: "p1", Name: "Steak House", Categories: []string{"western"}, Rating: floatPtr(5)},
		{PlaceID: "p2", Name: "Halal Grill", Categories: []string{"halal", "western"}, Rating: floatPtr(3)},
	}

	scored, err := cb.Score(context.Background(), profile, candidates)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	byID := scoresByPlace(scored)
	if byID["p1"] != 0 {
		t.Errorf("restricted candidate score = %f, want 0", byID["p1"])
	}
	if byID["p2"] <= 0 {
		t.Errorf("compliant candidate score = %f, want > 0", byID["p2"])
	}
}

func TestContentBased_PreferenceAndRatingBlend(t *testing.T) {
	cb := NewContentBased(ContentConfig{})
	profile := &models.UserProfile{
		UID:         "u1",
		Preferences: []string{"chinese", "halal"},
	}
	// No favorites: the text weight shifts onto preferences (0.8/0.2).
	candidates := []models.Restaurant{
		{PlaceID: "p1", Name: "Dragon Wok", Categories: []string{"chinese"}, Rating: floatPtr(4)},
	}

	scored, err := cb.Score(context.Background(), profile, candidates)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// pref = 1/2, rating = 4/5: 0.8*0.5 + 0.2*0.8 = 0.56
	want := 0.56
	if math.Abs(scored[0].Score-want) > 1e-9 {
		t.Errorf("score = %f, want %f", scored[0].Score, want)
	}
}

func TestContentBased_MissingRatingUsesMedian(t *testing.T) {
	cb := NewContentBased(ContentConfig{})
	profile := &models.UserProfile{UID: "u1"}
	candidates := []models.Restaurant{
		{PlaceID: "p1", Name: "A", Rating: floatPtr(4)},
		{PlaceID: "p2", Name: "B", Rating: floatPtr(2)},
		{PlaceID: "p3", Name: "C"},
	}

	scored, err := cb.Score(context.Background(), profile, candidates)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// Median rating is 3, so the unrated candidate scores 0.2 * 3/5 = 0.12.
	byID := scoresByPlace(scored)
	if math.Abs(byID["p3"]-0.12) > 1e-9 {
		t.Errorf("imputed score = %f, want 0.12", byID["p3"])
	}
}

func TestContentBased_FavoritesDriveTextSimilarity(t *testing.T) {
	cb := NewContentBased(ContentConfig{})
	profile := &models.UserProfile{
		UID:        "u1",
		Favourites: []models.FavoriteRef{{PlaceID: "fav"}},
	}
	candidates := []models.Restaurant{
		{PlaceID: "fav", Name: "Sakura Sushi", EditorialSummary: "sushi sashimi omakase", Rating: floatPtr(4)},
		{PlaceID: "similar", Name: "Tokyo Sushi", EditorialSummary: "sashimi omakase counter", Rating: floatPtr(4)},
		{PlaceID: "different", Name: "Taco Cantina", EditorialSummary: "burritos nachos salsa", Rating: floatPtr(4)},
	}

	scored, err := cb.Score(context.Background(), profile, candidates)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	byID := scoresByPlace(scored)
	if byID["similar"] <= byID["different"] {
		t.Errorf("similar-to-favorite score (%f) should exceed dissimilar score (%f)",
			byID["similar"], byID["different"])
	}
}

func TestContentBased_SortedDescending(t *testing.T) {
	cb := NewContentBased(ContentConfig{})
	profile := &models.UserProfile{UID: "u1", Preferences: []string{"thai"}}
	candidates := []models.Restaurant{
		{PlaceID: "low", Name: "A", Rating: floatPtr(1)},
		{PlaceID: "high", Name: "B", Categories: []string{"thai"}, Rating: floatPtr(5)},
		{PlaceID: "mid", Name: "C", Rating: floatPtr(5)},
	}

	scored, err := cb.Score(context.Background(), profile, candidates)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i-1].Score < scored[i].Score {
			t.Fatalf("scores not sorted descending: %f before %f", scored[i-1].Score, scored[i].Score)
		}
	}
	if scored[0].Restaurant.PlaceID != "high" {
		t.Errorf("top candidate = %q, want %q", scored[0].Restaurant.PlaceID, "high")
	}
}

func TestContentBased_SkipsCandidatesWithoutPlaceID(t *testing.T) {
	cb := NewContentBased(ContentConfig{})
	profile := &models.UserProfile{UID: "u1"}
	candidates := []models.Restaurant{
		{PlaceID: "", Name: "nameless"},
		{PlaceID: "p1", Name: "kept"},
	}

	scored, err := cb.Score(context.Background(), profile, candidates)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(scored) != 1 || scored[0].Restaurant.PlaceID != "p1" {
		t.Errorf("scored = %d entries, want only p1", len(scored))
	}
}

func scoresByPlace(scored []recommend.ScoredRestaurant) map[string]float64 {
	out := make(map[string]float64, len(scored))
	for _, s := range scored {
		out[s.Restaurant.PlaceID] = s.Score
	}
	return out
}
