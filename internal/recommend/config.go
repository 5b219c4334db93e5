// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package recommend

import "fmt"

// HybridWeights blends the content-based and collaborative scores.
// Weights are normalized to sum to 1 before use.
type HybridWeights struct {
	// Content is the weight of the content-based score.
	// Default: 0.6
	Content float64

	// Collab is the weight of the collaborative score.
	// Default: 0.4
	Collab float64
}

// Normalize scales the weights so they sum to 1. Zero or negative totals
// reset to the defaults.
func (w *HybridWeights) Normalize() {
	total := w.Content + w.Collab
	if total <= 0 {
		w.Content = 0.6
		w.Collab = 0.4
		return
	}
	w.Content /= total
	w.Collab /= total
}

// SnapshotConfig controls debug snapshot dumps of recommendation runs.
type SnapshotConfig struct {
	// Enabled turns snapshot writing on. Default: false
	Enabled bool

	// Dir is the directory snapshot files are written to.
	Dir string
}

// Config holds engine configuration.
type Config struct {
	// Weights blends the content and collaborative scores.
	Weights HybridWeights

	// TopK limits the number of recommendations passed to the re-ranker
	// and returned to the client. 0 means unlimited.
	// Default: 0
	TopK int

	// Snapshots controls debug snapshot dumps.
	Snapshots SnapshotConfig
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights: HybridWeights{Content: 0.6, Collab: 0.4},
		TopK:    0,
	}
}

// Validate checks the configuration and normalizes the hybrid weights.
func (c *Config) Validate() error {
	if c.TopK < 0 {
		return fmt.Errorf("recommend: topk must be >= 0, got %d", c.TopK)
	}
	c.Weights.Normalize()
	if c.Snapshots.Enabled && c.Snapshots.Dir == "" {
		return fmt.Errorf("recommend: snapshots enabled but no directory configured")
	}
	return nil
}
