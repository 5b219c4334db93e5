// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/forkcast/forkcast/internal/recommend/rl"
)

const modelPrefix = "rlmodel:"

// storedModel is the persisted form of one user's network.
type storedModel struct {
	Weights   []rl.LayerWeights `json:"weights"`
	UpdatedAt time.Time         `json:"last_updated"`
}

// ModelStore persists per-user DQN weights. It implements rl.WeightsStore.
type ModelStore struct {
	store *Store
}

// NewModelStore creates a model store on the shared database.
func NewModelStore(store *Store) *ModelStore {
	return &ModelStore{store: store}
}

func modelKey(uid string) []byte {
	return []byte(modelPrefix + uid)
}

// SaveWeights replaces the stored weights for a user.
func (m *ModelStore) SaveWeights(_ context.Context, userID string, weights []rl.LayerWeights) error {
	payload, err := json.Marshal(storedModel{
		Weights:   weights,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("storage: marshaling model for %q: %w", userID, err)
	}

	err = m.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(modelKey(userID), payload)
	})
	if err != nil {
		return fmt.Errorf("storage: writing model for %q: %w", userID, err)
	}
	return nil
}

// LoadWeights returns the stored weights for a user, reporting whether any
// were found.
func (m *ModelStore) LoadWeights(_ context.Context, userID string) ([]rl.LayerWeights, bool, error) {
	var stored storedModel
	err := m.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(modelKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: reading model for %q: %w", userID, err)
	}
	return stored.Weights, true, nil
}

// Ensure ModelStore satisfies the agent manager's store interface.
var _ rl.WeightsStore = (*ModelStore)(nil)
