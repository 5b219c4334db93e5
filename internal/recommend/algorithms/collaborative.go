// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
)

// FavoritesProvider supplies every user's favorite place IDs so the
// collaborative scorer can find neighbors.
type FavoritesProvider interface {
	// AllFavorites returns {userID: {placeID}} for all known users.
	// Users without favorites may be omitted.
	AllFavorites(ctx context.Context) (map[string]map[string]struct{}, error)
}

// CollaborativeConfig configures the collaborative scorer.
type CollaborativeConfig struct {
	// MaxNeighbors caps how many of the most similar users contribute to
	// scoring. Default: 50
	MaxNeighbors int
}

// Collaborative scores candidates by how strongly the target user's
// nearest neighbors (by Jaccard similarity of favorite sets) favor them.
type Collaborative struct {
	BaseScorer
	maxNeighbors int
	provider     FavoritesProvider
}

// NewCollaborative creates a collaborative scorer backed by the given
// favorites provider.
func NewCollaborative(cfg CollaborativeConfig, provider FavoritesProvider) *Collaborative {
	if cfg.MaxNeighbors <= 0 {
		cfg.MaxNeighbors = 50
	}
	return &Collaborative{
		BaseScorer:   NewBaseScorer("collaborative"),
		maxNeighbors: cfg.MaxNeighbors,
		provider:     provider,
	}
}

// neighbor is one similar user and their similarity to the target.
type neighbor struct {
	userID     string
	similarity float64
}

// Score computes a collaborative score in [0, 1] for every candidate with
// a place ID. Users with no favorites, and users with no overlapping
// neighbors, get all-zero scores rather than an error.
func (c *Collaborative) Score(ctx context.Context, profile *models.UserProfile, candidates []models.Restaurant) ([]recommend.ScoredRestaurant, error) {
	if len(candidates) == 0 {
		return []recommend.ScoredRestaurant{}, nil
	}

	targetFavorites := profile.FavoritePlaceIDs()
	if len(targetFavorites) == 0 {
		return zeroScores(candidates), nil
	}

	allFavorites, err := c.provider.AllFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("collaborative: loading favorites: %w", err)
	}

	neighbors := c.findNeighbors(profile.UID, targetFavorites, allFavorites)
	if len(neighbors) == 0 {
		return zeroScores(candidates), nil
	}

	// Sum neighbor similarities per candidate place, skipping places the
	// target already favorited. Normalizing by the total neighbor
	// similarity bounds scores to [0, 1].
	votes := make(map[string]float64)
	var totalSimilarity float64
	for _, n := range neighbors {
		totalSimilarity += n.similarity
		for placeID := range allFavorites[n.userID] {
			if _, own := targetFavorites[placeID]; !own {
				votes[placeID] += n.similarity
			}
		}
	}

	scored := make([]recommend.ScoredRestaurant, 0, len(candidates))
	for i := range candidates {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if candidates[i].PlaceID == "" {
			continue
		}
		score := 0.0
		if totalSimilarity > 0 {
			score = votes[candidates[i].PlaceID] / totalSimilarity
		}
		scored = append(scored, recommend.ScoredRestaurant{Restaurant: candidates[i], Score: score})
	}
	return scored, nil
}

// findNeighbors returns the most similar other users, capped at
// maxNeighbors, sorted descending by similarity (user ID breaks ties so
// the cut is deterministic).
func (c *Collaborative) findNeighbors(targetID string, targetFavorites map[string]struct{}, allFavorites map[string]map[string]struct{}) []neighbor {
	neighbors := make([]neighbor, 0, len(allFavorites))
	for userID, favorites := range allFavorites {
		if userID == targetID {
			continue
		}
		if sim := jaccardSimilarity(targetFavorites, favorites); sim > 0 {
			neighbors = append(neighbors, neighbor{userID: userID, similarity: sim})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].userID < neighbors[j].userID
	})

	if len(neighbors) > c.maxNeighbors {
		neighbors = neighbors[:c.maxNeighbors]
	}
	return neighbors
}

// zeroScores returns every usable candidate with a score of 0.
func zeroScores(candidates []models.Restaurant) []recommend.ScoredRestaurant {
	scored := make([]recommend.ScoredRestaurant, 0, len(candidates))
	for i := range candidates {
		if candidates[i].PlaceID == "" {
			continue
		}
		scored = append(scored, recommend.ScoredRestaurant{Restaurant: candidates[i], Score: 0})
	}
	return scored
}

// Ensure Collaborative implements the interface.
var _ recommend.Scorer = (*Collaborative)(nil)
