// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package storage

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/models"
	"github.com/forkcast/forkcast/internal/recommend/rl"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	var buf bytes.Buffer
	store, err := Open(Config{InMemory: true}, logging.NewTestLogger(&buf))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestProfileStore_RoundTrip(t *testing.T) {
	profiles := NewProfileStore(testStore(t))
	ctx := context.Background()

	in := &models.UserProfile{
		UID:          "u1",
		Preferences:  []string{"thai", "cafe"},
		Restrictions: []string{"halal"},
		Favourites:   []models.FavoriteRef{{PlaceID: "p1", Name: "Som Tam House"}},
	}
	if err := profiles.Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, found, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	if got.UID != "u1" || len(got.Preferences) != 2 || len(got.Favourites) != 1 {
		t.Errorf("Get() = %+v, want round-tripped profile", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped on upsert")
	}
}

func TestProfileStore_GetMissing(t *testing.T) {
	profiles := NewProfileStore(testStore(t))

	_, found, err := profiles.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for missing profile")
	}
}

func TestProfileStore_AllFavorites(t *testing.T) {
	profiles := NewProfileStore(testStore(t))
	ctx := context.Background()

	seed := []*models.UserProfile{
		{UID: "u1", Favourites: []models.FavoriteRef{{PlaceID: "a"}, {PlaceID: "b"}}},
		{UID: "u2", Favourites: []models.FavoriteRef{{PlaceID: "b"}}},
		{UID: "u3"}, // no favorites, must be omitted
	}
	for _, p := range seed {
		if err := profiles.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert(%s) error = %v", p.UID, err)
		}
	}

	all, err := profiles.AllFavorites(ctx)
	if err != nil {
		t.Fatalf("AllFavorites() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(AllFavorites()) = %d, want 2", len(all))
	}
	if _, ok := all["u1"]["a"]; !ok {
		t.Error("u1 favorites missing place a")
	}
	if _, ok := all["u2"]["b"]; !ok {
		t.Error("u2 favorites missing place b")
	}
	if _, ok := all["u3"]; ok {
		t.Error("u3 with no favorites should be omitted")
	}
}

func TestModelStore_RoundTrip(t *testing.T) {
	store := NewModelStore(testStore(t))
	ctx := context.Background()

	weights := []rl.LayerWeights{
		{Shape: []int{2, 3}, Values: []float64{1, 2, 3, 4, 5, 6}},
		{Shape: []int{3}, Values: []float64{0.1, 0.2, 0.3}},
	}
	if err := store.SaveWeights(ctx, "u1", weights); err != nil {
		t.Fatalf("SaveWeights() error = %v", err)
	}

	got, found, err := store.LoadWeights(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadWeights() error = %v", err)
	}
	if !found {
		t.Fatal("LoadWeights() found = false, want true")
	}
	if len(got) != 2 {
		t.Fatalf("len(weights) = %d, want 2", len(got))
	}
	if got[0].Shape[0] != 2 || got[0].Shape[1] != 3 {
		t.Errorf("kernel shape = %v, want [2 3]", got[0].Shape)
	}
	if got[1].Values[2] != 0.3 {
		t.Errorf("bias value = %f, want 0.3", got[1].Values[2])
	}
}

func TestModelStore_LoadMissing(t *testing.T) {
	store := NewModelStore(testStore(t))

	_, found, err := store.LoadWeights(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("LoadWeights() error = %v", err)
	}
	if found {
		t.Error("LoadWeights() found = true for missing model")
	}
}

func TestFeedbackStore_AppendAndList(t *testing.T) {
	store := NewFeedbackStore(testStore(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	actions := []models.FeedbackAction{models.ActionLike, models.ActionSkip, models.ActionClickDetails}
	for i, action := range actions {
		event := &models.FeedbackEvent{
			UserID:    "u1",
			PlaceID:   "p1",
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.Append(ctx, event); err != nil {
			t.Fatalf("Append(%s) error = %v", action, err)
		}
		if event.ID == "" {
			t.Error("Append() did not assign an ID")
		}
	}

	// Another user's events must not leak into the listing.
	if err := store.Append(ctx, &models.FeedbackEvent{UserID: "u2", PlaceID: "p9", Action: models.ActionDislike}); err != nil {
		t.Fatalf("Append(u2) error = %v", err)
	}

	events, err := store.ListByUser(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	for i, action := range actions {
		if events[i].Action != action {
			t.Errorf("events[%d].Action = %q, want %q (chronological order)", i, events[i].Action, action)
		}
	}

	limited, err := store.ListByUser(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListByUser(limit) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}
