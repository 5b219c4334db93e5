// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package algorithms

import (
	"context"
	"sort"
	"strings"

	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
)

// ContentConfig configures the content-based scorer.
type ContentConfig struct {
	// TextWeight is the weight of the TF-IDF similarity to the user's
	// favorites. Default: 0.4
	TextWeight float64

	// PreferenceWeight is the weight of the category preference overlap.
	// When a candidate has no text similarity signal, the text weight is
	// reassigned to the preference score. Default: 0.4
	PreferenceWeight float64

	// RatingWeight is the weight of the normalized rating. Default: 0.2
	RatingWeight float64
}

// ContentBased scores candidates against the user's own profile: dietary
// restrictions (hard gate), category preferences, ratings, and textual
// similarity to the user's favorited restaurants.
type ContentBased struct {
	BaseScorer
	textWeight float64
	prefWeight float64
	rateWeight float64
}

// NewContentBased creates a content-based scorer. Zero weights fall back
// to defaults, and the weights are normalized to sum to 1.
func NewContentBased(cfg ContentConfig) *ContentBased {
	if cfg.TextWeight <= 0 && cfg.PreferenceWeight <= 0 && cfg.RatingWeight <= 0 {
		cfg.TextWeight = 0.4
		cfg.PreferenceWeight = 0.4
		cfg.RatingWeight = 0.2
	}
	total := cfg.TextWeight + cfg.PreferenceWeight + cfg.RatingWeight
	return &ContentBased{
		BaseScorer: NewBaseScorer("content"),
		textWeight: cfg.TextWeight / total,
		prefWeight: cfg.PreferenceWeight / total,
		rateWeight: cfg.RatingWeight / total,
	}
}

// Score computes a content score in [0, 1] for every candidate with a
// place ID. The returned list is sorted descending by score; candidates
// that fail the restriction gate score exactly 0 but are still returned.
func (c *ContentBased) Score(ctx context.Context, profile *models.UserProfile, candidates []models.Restaurant) ([]recommend.ScoredRestaurant, error) {
	if len(candidates) == 0 {
		return []recommend.ScoredRestaurant{}, nil
	}

	preferences := toSet(profile.Preferences)
	restrictions := toSet(profile.Restrictions)
	favorites := profile.FavoritePlaceIDs()

	medianRating := medianCandidateRating(candidates)

	// Fit TF-IDF over the candidate corpus and build the user's taste
	// vector as the mean of their favorited candidates' vectors.
	docs := make([]string, len(candidates))
	for i := range candidates {
		docs[i] = candidateDocument(&candidates[i])
	}
	model := fitTFIDF(docs)

	var favVectors [][]float64
	for i := range candidates {
		if _, ok := favorites[candidates[i].PlaceID]; ok {
			favVectors = append(favVectors, model.transform(docs[i]))
		}
	}
	tasteVector := meanVector(favVectors)

	scored := make([]recommend.ScoredRestaurant, 0, len(candidates))
	for i := range candidates {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		if candidates[i].PlaceID == "" {
			continue
		}

		textScore := 0.0
		if tasteVector != nil {
			textScore = cosineSimilarity(tasteVector, model.transform(docs[i]))
		}

		scored = append(scored, recommend.ScoredRestaurant{
			Restaurant: candidates[i],
			Score:      c.scoreCandidate(&candidates[i], preferences, restrictions, textScore, medianRating),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// scoreCandidate applies the restriction gate and blends the preference,
// rating, and text signals.
func (c *ContentBased) scoreCandidate(r *models.Restaurant, preferences, restrictions map[string]struct{}, textScore, medianRating float64) float64 {
	categories := toSet(r.Categories)

	// Hard gate: a restaurant must carry every restriction tag the user
	// declared (e.g. halal, vegetarian), otherwise it is unusable.
	for restriction := range restrictions {
		if _, ok := categories[restriction]; !ok {
			return 0
		}
	}

	prefScore := 0.0
	if len(preferences) > 0 {
		matched := 0
		for pref := range preferences {
			if _, ok := categories[pref]; ok {
				matched++
			}
		}
		prefScore = float64(matched) / float64(len(preferences))
	}

	rating := medianRating
	if r.Rating != nil {
		rating = *r.Rating
	}
	ratingScore := rating / 5.0

	// Without a text signal the text weight shifts onto preferences so the
	// blend still sums to the same total.
	textWeight := c.textWeight
	prefWeight := c.prefWeight
	if textScore <= 0 {
		textWeight = 0
		prefWeight = c.prefWeight + c.textWeight
	}

	return textWeight*textScore + prefWeight*prefScore + c.rateWeight*ratingScore
}

// candidateDocument builds the text representation used for TF-IDF.
func candidateDocument(r *models.Restaurant) string {
	parts := []string{r.Name}
	parts = append(parts, r.Categories...)
	if r.EditorialSummary != "" {
		parts = append(parts, r.EditorialSummary)
	}
	return strings.Join(parts, " ")
}

// medianCandidateRating returns the median of the present ratings, used to
// impute missing ones. Falls back to 0 when no candidate has a rating.
func medianCandidateRating(candidates []models.Restaurant) float64 {
	ratings := make([]float64, 0, len(candidates))
	for i := range candidates {
		if candidates[i].Rating != nil {
			ratings = append(ratings, *candidates[i].Rating)
		}
	}
	if len(ratings) == 0 {
		return 0
	}

	sort.Float64s(ratings)
	mid := len(ratings) / 2
	if len(ratings)%2 == 1 {
		return ratings[mid]
	}
	return (ratings[mid-1] + ratings[mid]) / 2
}

// Ensure ContentBased implements the interface.
var _ recommend.Scorer = (*ContentBased)(nil)
