// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

import (
	"github.com/forkcast/forkcast/internal/lexicon"
	"github.com/forkcast/forkcast/internal/models"
)

// StateSize is the fixed length of every state vector. Network input
// dimensions and persisted weights depend on it, so it never varies with
// the category vocabulary.
const StateSize = 35

// ActionSize is the number of feedback actions the network scores.
const ActionSize = 4

// Action indices, matching the network's output order.
const (
	ActionLikeIndex = iota
	ActionDislikeIndex
	ActionClickDetailsIndex
	ActionSkipIndex
)

// Defaults substituted for missing restaurant attributes.
const (
	defaultRating     = 3.0 // of 5
	defaultPriceLevel = 2.0 // of 4
)

// actionIndices maps feedback actions to network output positions.
var actionIndices = map[models.FeedbackAction]int{
	models.ActionLike:         ActionLikeIndex,
	models.ActionDislike:      ActionDislikeIndex,
	models.ActionClickDetails: ActionClickDetailsIndex,
	models.ActionSkip:         ActionSkipIndex,
}

// actionRewards maps feedback actions to training rewards.
var actionRewards = map[models.FeedbackAction]float64{
	models.ActionLike:         1.0,
	models.ActionDislike:      -1.0,
	models.ActionClickDetails: 0.5,
	models.ActionSkip:         -0.2,
}

// ActionIndex returns the network output index for an action.
func ActionIndex(action models.FeedbackAction) (int, bool) {
	idx, ok := actionIndices[action]
	return idx, ok
}

// RewardFor returns the training reward for an action.
func RewardFor(action models.FeedbackAction) (float64, bool) {
	reward, ok := actionRewards[action]
	return reward, ok
}

// ExtractFeatures builds the fixed-size state vector for a restaurant:
// normalized rating, normalized price level, the hybrid score, and a
// one-hot encoding of its canonical categories, zero-padded to StateSize.
// Missing attributes fall back to neutral defaults; the function never
// fails on malformed input.
func ExtractFeatures(r *models.Restaurant, finalScore float64) []float64 {
	features := make([]float64, 0, StateSize)

	rating := defaultRating
	if r != nil && r.Rating != nil {
		rating = *r.Rating
	}
	features = append(features, rating/5.0)

	price := defaultPriceLevel
	if r != nil && r.PriceLevel != nil {
		price = float64(*r.PriceLevel)
	}
	features = append(features, price/4.0)

	features = append(features, finalScore)

	var categories map[string]struct{}
	if r != nil {
		categories = make(map[string]struct{}, len(r.Categories))
		for _, c := range r.Categories {
			categories[c] = struct{}{}
		}
	}
	for _, key := range lexicon.CategoryKeys {
		if _, ok := categories[key]; ok {
			features = append(features, 1)
		} else {
			features = append(features, 0)
		}
	}

	for len(features) < StateSize {
		features = append(features, 0)
	}
	return features[:StateSize]
}
