// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend"
)

// stubWeightsStore is an in-memory WeightsStore for tests.
type stubWeightsStore struct {
	weights map[string][]LayerWeights
	loadErr error
	saveErr error
	saves   int
}

func newStubWeightsStore() *stubWeightsStore {
	return &stubWeightsStore{weights: make(map[string][]LayerWeights)}
}

func (s *stubWeightsStore) LoadWeights(_ context.Context, userID string) ([]LayerWeights, bool, error) {
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	ws, ok := s.weights[userID]
	return ws, ok, nil
}

func (s *stubWeightsStore) SaveWeights(_ context.Context, userID string, ws []LayerWeights) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.weights[userID] = ws
	return nil
}

func testManager(store WeightsStore) *Manager {
	var buf bytes.Buffer
	return NewManager(testAgentConfig(), store, logging.NewTestLogger(&buf))
}

func TestManager_AgentCaching(t *testing.T) {
	m := testManager(newStubWeightsStore())

	a1 := m.Agent(context.Background(), "u1")
	a2 := m.Agent(context.Background(), "u1")
	if a1 != a2 {
		t.Error("Agent() returned different instances for the same user")
	}
	if m.AgentCount() != 1 {
		t.Errorf("AgentCount() = %d, want 1", m.AgentCount())
	}

	if m.Agent(context.Background(), "u2") == a1 {
		t.Error("Agent() shared an instance across users")
	}
}

func TestManager_LoadFailureYieldsFreshAgent(t *testing.T) {
	store := newStubWeightsStore()
	store.loadErr = errors.New("disk error")
	m := testManager(store)

	agent := m.Agent(context.Background(), "u1")
	if agent == nil {
		t.Fatal("Agent() = nil on load failure, want fresh agent")
	}
	if len(agent.Weights()) != 6 {
		t.Errorf("fresh agent has %d weight tensors, want 6", len(agent.Weights()))
	}
}

func TestManager_LoadsStoredWeights(t *testing.T) {
	store := newStubWeightsStore()
	m := testManager(store)

	// Train one agent and persist it, then rebuild the manager and check
	// the reloaded agent predicts identically.
	src := m.Agent(context.Background(), "u1")
	state := testState(11)
	for i := 0; i < src.cfg.BatchSize+1; i++ {
		src.Remember(state, ActionLikeIndex, 1.0, state, true)
	}
	src.Replay()
	if err := store.SaveWeights(context.Background(), "u1", src.Weights()); err != nil {
		t.Fatalf("SaveWeights() error = %v", err)
	}

	m2 := testManager(store)
	reloaded := m2.Agent(context.Background(), "u1")

	srcQ := src.QValues(state)
	gotQ := reloaded.QValues(state)
	for i := range srcQ {
		if srcQ[i] != gotQ[i] {
			t.Errorf("q[%d]: trained %f, reloaded %f", i, srcQ[i], gotQ[i])
		}
	}
}

func TestManager_RecordFeedback(t *testing.T) {
	store := newStubWeightsStore()
	m := testManager(store)
	r := &models.Restaurant{PlaceID: "p1", Name: "Noodle Bar"}

	replayed, err := m.RecordFeedback(context.Background(), "u1", r, 0.7, models.ActionLike)
	if err != nil {
		t.Fatalf("RecordFeedback() error = %v", err)
	}
	if replayed {
		t.Error("RecordFeedback() replayed with a single experience")
	}
	if store.saves != 1 {
		t.Errorf("weights saved %d times, want 1", store.saves)
	}
	if got := m.Agent(context.Background(), "u1").MemoryLen(); got != 1 {
		t.Errorf("MemoryLen() = %d, want 1", got)
	}
}

func TestManager_RecordFeedbackInvalidAction(t *testing.T) {
	m := testManager(newStubWeightsStore())

	_, err := m.RecordFeedback(context.Background(), "u1", &models.Restaurant{PlaceID: "p1"}, 0, "share")
	if err == nil {
		t.Fatal("RecordFeedback() expected error for unknown action")
	}
}

func TestManager_RecordFeedbackReplaysWhenMemoryFull(t *testing.T) {
	store := newStubWeightsStore()
	m := testManager(store)
	r := &models.Restaurant{PlaceID: "p1"}

	var replayed bool
	for i := 0; i < m.cfg.BatchSize+2; i++ {
		var err error
		replayed, err = m.RecordFeedback(context.Background(), "u1", r, 0.5, models.ActionClickDetails)
		if err != nil {
			t.Fatalf("RecordFeedback() error = %v", err)
		}
	}
	if !replayed {
		t.Error("RecordFeedback() never replayed after filling a batch")
	}
}

func TestManager_SaveFailureDoesNotFailFeedback(t *testing.T) {
	store := newStubWeightsStore()
	store.saveErr = errors.New("disk full")
	m := testManager(store)

	if _, err := m.RecordFeedback(context.Background(), "u1", &models.Restaurant{PlaceID: "p1"}, 0, models.ActionSkip); err != nil {
		t.Errorf("RecordFeedback() error = %v, want nil on save failure", err)
	}
}

func TestManager_RerankStableWithZeroQ(t *testing.T) {
	m := testManager(newStubWeightsStore())

	// Zero out the agent's weights so every Q-value is exactly zero and
	// re-ranking must preserve the incoming order.
	agent := m.Agent(context.Background(), "u1")
	zeroed := agent.Weights()
	for i := range zeroed {
		for j := range zeroed[i].Values {
			zeroed[i].Values[j] = 0
		}
	}
	if err := agent.SetWeights(zeroed); err != nil {
		t.Fatalf("SetWeights() error = %v", err)
	}

	recs := []recommend.Recommendation{
		{Restaurant: models.Restaurant{PlaceID: "a"}, FinalScore: 0.9, FinalScoreRL: 0.9},
		{Restaurant: models.Restaurant{PlaceID: "b"}, FinalScore: 0.5, FinalScoreRL: 0.5},
		{Restaurant: models.Restaurant{PlaceID: "c"}, FinalScore: 0.5, FinalScoreRL: 0.5},
		{Restaurant: models.Restaurant{PlaceID: "d"}, FinalScore: 0.1, FinalScoreRL: 0.1},
	}

	out, err := m.Rerank(context.Background(), "u1", recs)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}

	wantOrder := []string{"a", "b", "c", "d"}
	for i, want := range wantOrder {
		if out[i].Restaurant.PlaceID != want {
			t.Errorf("out[%d] = %q, want %q", i, out[i].Restaurant.PlaceID, want)
		}
		if out[i].FinalScoreRL != out[i].FinalScore {
			t.Errorf("out[%d] rl score = %f, want %f with zero Q", i, out[i].FinalScoreRL, out[i].FinalScore)
		}
	}

	// Input slice must be untouched.
	if recs[0].FinalScoreRL != 0.9 {
		t.Error("Rerank() mutated its input")
	}
}

func TestManager_RerankAdjustsScores(t *testing.T) {
	m := testManager(newStubWeightsStore())

	recs := []recommend.Recommendation{
		{Restaurant: models.Restaurant{PlaceID: "a", Categories: []string{"thai"}}, FinalScore: 0.6, FinalScoreRL: 0.6},
		{Restaurant: models.Restaurant{PlaceID: "b", Categories: []string{"cafe"}}, FinalScore: 0.4, FinalScoreRL: 0.4},
	}

	out, err := m.Rerank(context.Background(), "u1", recs)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}

	agent := m.Agent(context.Background(), "u1")
	for _, rec := range out {
		state := ExtractFeatures(&rec.Restaurant, rec.FinalScore)
		q := agent.QValues(state)
		want := rec.FinalScore + m.cfg.RerankWeight*q[ActionLikeIndex]
		if diff := rec.FinalScoreRL - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("rl score for %q = %f, want %f", rec.PlaceID, rec.FinalScoreRL, want)
		}
	}

	// Sorted descending by the adjusted score.
	if out[0].FinalScoreRL < out[1].FinalScoreRL {
		t.Errorf("output not sorted: %f before %f", out[0].FinalScoreRL, out[1].FinalScoreRL)
	}
}
