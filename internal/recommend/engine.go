// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/models"
)

// Engine orchestrates the hybrid recommendation pipeline.
type Engine struct {
	cfg      Config
	content  Scorer
	collab   Scorer
	reranker Reranker
	snaps    *SnapshotWriter
	logger   zerolog.Logger
}

// NewEngine creates an engine from validated configuration and the injected
// pipeline stages. The reranker may be nil, in which case blended scores are
// final.
//
//nolint:gocritic // hugeParam: config is copied once at construction
func NewEngine(cfg Config, content, collab Scorer, reranker Reranker, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("recommend: content scorer is required")
	}
	if collab == nil {
		return nil, fmt.Errorf("recommend: collaborative scorer is required")
	}

	return &Engine{
		cfg:      cfg,
		content:  content,
		collab:   collab,
		reranker: reranker,
		snaps:    NewSnapshotWriter(cfg.Snapshots, logger),
		logger:   logger.With().Str("component", "engine").Logger(),
	}, nil
}

// Recommend runs the full pipeline for one user over the given candidates.
// The returned list is sorted descending by the final (RL-adjusted) score.
func (e *Engine) Recommend(ctx context.Context, profile *models.UserProfile, candidates []models.Restaurant) ([]Recommendation, error) {
	if profile == nil {
		return nil, fmt.Errorf("recommend: user profile is required")
	}
	start := time.Now()
	logger := e.logger.With().Str("user_id", profile.UID).Logger()
	logger.Debug().Int("candidates", len(candidates)).Msg("recommendation run started")

	if len(candidates) == 0 {
		return []Recommendation{}, nil
	}

	contentRecs, err := e.content.Score(ctx, profile, candidates)
	if err != nil {
		return nil, fmt.Errorf("recommend: %s scorer: %w", e.content.Name(), err)
	}

	collabRecs, err := e.collab.Score(ctx, profile, candidates)
	if err != nil {
		return nil, fmt.Errorf("recommend: %s scorer: %w", e.collab.Name(), err)
	}

	blended := e.blend(contentRecs, collabRecs)

	if e.cfg.TopK > 0 && len(blended) > e.cfg.TopK {
		blended = blended[:e.cfg.TopK]
	}

	final := blended
	if e.reranker != nil {
		final, err = e.reranker.Rerank(ctx, profile.UID, blended)
		if err != nil {
			// Re-ranking is best effort. A broken per-user model must not
			// take down the whole recommendation request.
			logger.Warn().Err(err).Str("reranker", e.reranker.Name()).Msg("re-ranking failed, returning blended order")
			metrics.RerankFailures.Inc()
			final = blended
		}
	}

	e.snaps.Write("hybrid_data", hybridSnapshot{
		UserID:          profile.UID,
		Profile:         profile,
		Weights:         e.cfg.Weights,
		ContentScores:   contentRecs,
		CollabScores:    collabRecs,
		Blended:         blended,
		Reranked:        final,
		GeneratedAt:     time.Now().UTC(),
		PipelineMillis:  time.Since(start).Milliseconds(),
		CandidatesCount: len(candidates),
	})

	logger.Info().
		Int("candidates", len(candidates)).
		Int("recommendations", len(final)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations generated")

	return final, nil
}

// blend combines the two score sets with the hybrid weights. The content
// list is authoritative: candidates it dropped stay dropped, and the
// restriction gate it applied is preserved. Sorting is stable so equal
// scores keep the content ordering.
func (e *Engine) blend(contentRecs, collabRecs []ScoredRestaurant) []Recommendation {
	collabByPlace := make(map[string]float64, len(collabRecs))
	for _, rec := range collabRecs {
		if id := rec.Restaurant.PlaceID; id != "" {
			collabByPlace[id] = rec.Score
		}
	}

	blended := make([]Recommendation, 0, len(contentRecs))
	for _, rec := range contentRecs {
		id := rec.Restaurant.PlaceID
		if id == "" {
			continue
		}
		score := rec.Score*e.cfg.Weights.Content + collabByPlace[id]*e.cfg.Weights.Collab
		blended = append(blended, Recommendation{
			Restaurant:   rec.Restaurant,
			FinalScore:   score,
			FinalScoreRL: score,
		})
	}

	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].FinalScore > blended[j].FinalScore
	})
	return blended
}

// hybridSnapshot is the debug dump of one recommendation run.
type hybridSnapshot struct {
	UserID          string              `json:"user_id"`
	Profile         *models.UserProfile `json:"user_profile_received"`
	Weights         HybridWeights       `json:"weights"`
	ContentScores   []ScoredRestaurant  `json:"content_recs_with_scores"`
	CollabScores    []ScoredRestaurant  `json:"collab_recs_with_scores"`
	Blended         []Recommendation    `json:"final_hybrid_recommendations"`
	Reranked        []Recommendation    `json:"rl_reranked_recommendations"`
	GeneratedAt     time.Time           `json:"generated_at"`
	PipelineMillis  int64               `json:"pipeline_ms"`
	CandidatesCount int                 `json:"candidates_count"`
}
