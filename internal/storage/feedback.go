// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package storage

import (
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/models"
)

const feedbackPrefix = "feedback:"

// FeedbackStore appends immutable feedback event records. Keys embed the
// user ID and a nanosecond timestamp, so a per-user prefix scan returns
// events in chronological order.
type FeedbackStore struct {
	store *Store
}

// NewFeedbackStore creates a feedback store on the shared database.
func NewFeedbackStore(store *Store) *FeedbackStore {
	return &FeedbackStore{store: store}
}

func feedbackUserPrefix(userID string) []byte {
	return []byte(feedbackPrefix + userID + ":")
}

// Append stores a new feedback event, assigning an ID and timestamp when
// absent.
func (f *FeedbackStore) Append(_ context.Context, event *models.FeedbackEvent) error {
	if event == nil || event.UserID == "" {
		return fmt.Errorf("storage: feedback event with user_id is required")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("storage: marshaling feedback %q: %w", event.ID, err)
	}

	key := fmt.Sprintf("%s%s:%020d:%s", feedbackPrefix, event.UserID, event.CreatedAt.UnixNano(), event.ID)
	err = f.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
	if err != nil {
		return fmt.Errorf("storage: writing feedback %q: %w", event.ID, err)
	}
	return nil
}

// ListByUser returns up to limit of the user's feedback events, oldest
// first. limit <= 0 means no limit.
func (f *FeedbackStore) ListByUser(_ context.Context, userID string, limit int) ([]models.FeedbackEvent, error) {
	var events []models.FeedbackEvent

	err := f.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = feedbackUserPrefix(userID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if limit > 0 && len(events) >= limit {
				return nil
			}
			err := it.Item().Value(func(val []byte) error {
				var event models.FeedbackEvent
				if err := json.Unmarshal(val, &event); err != nil {
					return err
				}
				events = append(events, event)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: listing feedback for %q: %w", userID, err)
	}
	return events, nil
}
