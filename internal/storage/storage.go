// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package storage persists user profiles, per-user model weights, and
// feedback events in a single Badger key-value database.
//
// Key layout:
//
//	profile:<uid>                      -> models.UserProfile
//	rlmodel:<uid>                      -> storedModel (weights + timestamp)
//	feedback:<uid>:<unix-nano>:<id>    -> models.FeedbackEvent
package storage

import (
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Config holds storage configuration.
type Config struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM. Used by tests and ephemeral deploys.
	InMemory bool
}

// Store wraps the shared Badger database handle.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database.
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("storage: path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	// Badger's own logger is noisy at INFO; all storage logging goes
	// through zerolog instead.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: opening badger at %q: %w", cfg.Path, err)
	}

	return &Store{
		db:     db,
		logger: logger.With().Str("component", "storage").Logger(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
