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

	"github.com/forkcast/forkcast/internal/models"
)

const profilePrefix = "profile:"

// ProfileStore persists user profiles. The collaborative scorer reads all
// profiles back through AllFavorites to find neighbors.
type ProfileStore struct {
	store *Store
}

// NewProfileStore creates a profile store on the shared database.
func NewProfileStore(store *Store) *ProfileStore {
	return &ProfileStore{store: store}
}

func profileKey(uid string) []byte {
	return []byte(profilePrefix + uid)
}

// Upsert writes the profile, stamping UpdatedAt.
func (p *ProfileStore) Upsert(_ context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UID == "" {
		return fmt.Errorf("storage: profile with uid is required")
	}
	profile.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("storage: marshaling profile %q: %w", profile.UID, err)
	}

	err = p.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.UID), payload)
	})
	if err != nil {
		return fmt.Errorf("storage: writing profile %q: %w", profile.UID, err)
	}
	return nil
}

// Get returns the stored profile, reporting whether one exists.
func (p *ProfileStore) Get(_ context.Context, uid string) (*models.UserProfile, bool, error) {
	var profile models.UserProfile
	err := p.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(uid))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: reading profile %q: %w", uid, err)
	}
	return &profile, true, nil
}

// AllFavorites returns {userID: {placeID}} for every stored profile that
// has at least one favorite.
func (p *ProfileStore) AllFavorites(_ context.Context) (map[string]map[string]struct{}, error) {
	all := make(map[string]map[string]struct{})

	err := p.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var profile models.UserProfile
				if err := json.Unmarshal(val, &profile); err != nil {
					// One corrupt record must not hide every other user.
					p.store.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("skipping unreadable profile")
					return nil
				}
				if favorites := profile.FavoritePlaceIDs(); len(favorites) > 0 {
					all[profile.UID] = favorites
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: scanning profiles: %w", err)
	}
	return all, nil
}
