// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
)

// WeightsStore persists per-user network weights.
type WeightsStore interface {
	// LoadWeights returns the stored weights for a user, reporting whether
	// any were found.
	LoadWeights(ctx context.Context, userID string) ([]LayerWeights, bool, error)

	// SaveWeights stores the weights for a user, replacing any previous set.
	SaveWeights(ctx context.Context, userID string, weights []LayerWeights) error
}

// Manager owns the per-user agents. Agents are created lazily, seeded from
// the weights store when possible, and cached so replay memory accumulates
// across requests. The manager doubles as the engine's re-ranker.
type Manager struct {
	cfg    Config
	store  WeightsStore
	logger zerolog.Logger

	mu     sync.Mutex
	agents map[string]*Agent
}

// NewManager creates an agent manager backed by the given weights store.
func NewManager(cfg Config, store WeightsStore, logger zerolog.Logger) *Manager {
	return &Manager{
		cfg:    cfg.withDefaults(),
		store:  store,
		logger: logger.With().Str("component", "rl").Logger(),
		agents: make(map[string]*Agent),
	}
}

// Agent returns the cached agent for the user, creating one if needed.
// A weight-load failure logs a warning and yields a fresh network; it is
// never surfaced to the caller.
func (m *Manager) Agent(ctx context.Context, userID string) *Agent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if agent, ok := m.agents[userID]; ok {
		return agent
	}

	agent := NewAgent(userID, m.cfg)
	weights, found, err := m.store.LoadWeights(ctx, userID)
	switch {
	case err != nil:
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("loading model weights failed, using fresh model")
	case found:
		if err := agent.SetWeights(weights); err != nil {
			m.logger.Warn().Err(err).Str("user_id", userID).Msg("stored model weights unusable, using fresh model")
		} else {
			m.logger.Debug().Str("user_id", userID).Msg("loaded model weights")
		}
	default:
		m.logger.Debug().Str("user_id", userID).Msg("no stored model, using fresh model")
	}

	m.agents[userID] = agent
	return agent
}

// AgentCount returns the number of cached agents.
func (m *Manager) AgentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.agents)
}

// Name returns the reranker identifier.
func (m *Manager) Name() string {
	return "dqn"
}

// Rerank adds the weighted like-action Q-value to each recommendation's
// hybrid score and re-sorts. Sorting is stable so equal adjusted scores
// keep the hybrid order. The input slice is not modified.
func (m *Manager) Rerank(ctx context.Context, userID string, recs []recommend.Recommendation) ([]recommend.Recommendation, error) {
	if len(recs) == 0 {
		return recs, nil
	}

	agent := m.Agent(ctx, userID)

	out := make([]recommend.Recommendation, len(recs))
	copy(out, recs)
	for i := range out {
		state := ExtractFeatures(&out[i].Restaurant, out[i].FinalScore)
		q := agent.QValues(state)
		out[i].FinalScoreRL = out[i].FinalScore + m.cfg.RerankWeight*q[ActionLikeIndex]
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScoreRL > out[j].FinalScoreRL
	})
	return out, nil
}

// RecordFeedback converts a user reaction into a training experience,
// replays when enough history exists, and persists the updated weights.
// The stored transition is terminal, so no future reward is bootstrapped.
// It reports whether a replay ran.
func (m *Manager) RecordFeedback(ctx context.Context, userID string, r *models.Restaurant, finalScore float64, action models.FeedbackAction) (bool, error) {
	actionIdx, ok := ActionIndex(action)
	if !ok {
		return false, fmt.Errorf("rl: unknown action %q", action)
	}
	reward, _ := RewardFor(action)

	agent := m.Agent(ctx, userID)
	state := ExtractFeatures(r, finalScore)
	agent.Remember(state, actionIdx, reward, state, true)
	replayed := agent.Replay()

	if err := m.store.SaveWeights(ctx, userID, agent.Weights()); err != nil {
		// Persistence is best effort: the in-memory agent already learned
		// from the feedback.
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("saving model weights failed")
	}

	m.logger.Debug().
		Str("user_id", userID).
		Str("action", string(action)).
		Float64("reward", reward).
		Bool("replayed", replayed).
		Int("memory", agent.MemoryLen()).
		Msg("feedback recorded")
	return replayed, nil
}

// Ensure Manager implements the engine's reranker interface.
var _ recommend.Reranker = (*Manager)(nil)
