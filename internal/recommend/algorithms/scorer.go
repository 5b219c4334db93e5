// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package algorithms implements the recommendation scorers.
//
// Each scorer is stateless across requests: it derives everything it needs
// from the user profile and candidate list it is handed (plus, for the
// collaborative scorer, a favorites provider). Scores are normalized to
// [0, 1] so the engine can blend them with fixed weights.
package algorithms

import (
	"context"
	"math"
)

// BaseScorer provides the common identity plumbing shared by scorers.
type BaseScorer struct {
	name string
}

// NewBaseScorer creates a base scorer with the given name.
func NewBaseScorer(name string) BaseScorer {
	return BaseScorer{name: name}
}

// Name returns the scorer identifier.
func (b *BaseScorer) Name() string {
	return b.name
}

// checkContext returns the context error if the context is done.
// Scorers call this inside loops so large candidate sets stay cancelable.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// jaccardSimilarity computes |a ∩ b| / |a ∪ b| for two sets.
// Returns 0 when the union is empty.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// cosineSimilarity computes the cosine of the angle between two dense
// vectors. Returns 0 for mismatched lengths or zero vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// toSet builds a string set from a slice.
func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
