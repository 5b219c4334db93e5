// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import (
	"context"

	"github.com/forkcast/forkcast/internal/models"
)

// ScoredRestaurant is a candidate with an intermediate score from a single
// scorer. Intermediate scores never reach clients; they exist only between
// pipeline stages and in debug snapshots.
type ScoredRestaurant struct {
	Restaurant models.Restaurant `json:"restaurant"`
	Score      float64           `json:"score"`
}

// Recommendation is a candidate with its final blended score and, after
// re-ranking, the RL-adjusted score clients sort by.
type Recommendation struct {
	models.Restaurant
	FinalScore   float64 `json:"final_score"`
	FinalScoreRL float64 `json:"final_score_with_rl"`
}

// Scorer scores a candidate list for one user. Implementations must return
// one entry per usable candidate (a candidate without a place ID is
// skipped) and must not mutate the input slice.
type Scorer interface {
	// Name returns the scorer identifier used in logs and snapshots.
	Name() string

	// Score computes a score in [0, 1] for each candidate.
	Score(ctx context.Context, profile *models.UserProfile, candidates []models.Restaurant) ([]ScoredRestaurant, error)
}

// Reranker adjusts the order of blended recommendations for one user.
// Implementations set FinalScoreRL on every entry and return the list
// sorted descending by it, preserving input order between equals.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank re-scores and re-sorts the recommendations.
	Rerank(ctx context.Context, userID string, recs []Recommendation) ([]Recommendation, error)
}
