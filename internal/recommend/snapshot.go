// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// SnapshotWriter dumps pipeline data to auto-numbered JSON files for
// offline inspection. Writes are best effort: any failure is logged and
// swallowed so a full disk never breaks a recommendation request.
type SnapshotWriter struct {
	cfg    SnapshotConfig
	logger zerolog.Logger

	// mu serializes the find-next-number-then-create sequence.
	mu sync.Mutex
}

// NewSnapshotWriter creates a snapshot writer. A disabled config yields a
// writer whose Write is a no-op.
func NewSnapshotWriter(cfg SnapshotConfig, logger zerolog.Logger) *SnapshotWriter {
	return &SnapshotWriter{
		cfg:    cfg,
		logger: logger.With().Str("component", "snapshots").Logger(),
	}
}

// Write marshals data to <dir>/<base>_<n>.json where n is the first unused
// number for that base name.
func (s *SnapshotWriter) Write(base string, data interface{}) {
	if s == nil || !s.cfg.Enabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.cfg.Dir, 0o750); err != nil {
		s.logger.Warn().Err(err).Str("dir", s.cfg.Dir).Msg("snapshot directory unavailable")
		return
	}

	path := s.nextPath(base)
	payload, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		s.logger.Warn().Err(err).Str("base", base).Msg("snapshot marshal failed")
		return
	}

	if err := os.WriteFile(path, payload, 0o640); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("snapshot write failed")
		return
	}
	s.logger.Debug().Str("path", path).Msg("snapshot written")
}

// nextPath returns the first <base>_<n>.json path that does not exist yet.
func (s *SnapshotWriter) nextPath(base string) string {
	for n := 1; ; n++ {
		path := filepath.Join(s.cfg.Dir, fmt.Sprintf("%s_%d.json", base, n))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
