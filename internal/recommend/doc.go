// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package recommend implements the hybrid restaurant recommendation engine.
//
// The pipeline has three stages:
//
//  1. Scoring: a content-based scorer (category preferences, dietary
//     restrictions, ratings, TF-IDF similarity to favorites) and a
//     collaborative scorer (Jaccard similarity over user favorite sets)
//     each score the candidate list independently.
//  2. Blending: the two score sets are combined with fixed hybrid weights.
//     The content-scored list is authoritative because it already enforced
//     the user's dietary restrictions.
//  3. Re-ranking: a per-user reinforcement-learning re-ranker adjusts the
//     blended scores using its learned Q-values.
//
// Scorers and the re-ranker are injected as interfaces so the engine stays
// independent of the concrete algorithms.
package recommend
