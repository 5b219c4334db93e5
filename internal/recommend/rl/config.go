// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

// Config holds the DQN agent hyperparameters. Zero values fall back to
// the defaults listed on each field.
type Config struct {
	// Hidden1 and Hidden2 are the hidden layer widths.
	// Defaults: 64 and 32
	Hidden1 int
	Hidden2 int

	// Gamma is the discount rate for non-terminal experiences.
	// Default: 0.95
	Gamma float64

	// Epsilon is the initial exploration rate for action selection.
	// Default: 1.0
	Epsilon float64

	// EpsilonMin is the exploration rate floor. Default: 0.01
	EpsilonMin float64

	// EpsilonDecay multiplies epsilon after each replay. Default: 0.995
	EpsilonDecay float64

	// LearningRate is the Adam step size. Default: 0.001
	LearningRate float64

	// MemorySize is the replay ring capacity. Default: 2000
	MemorySize int

	// BatchSize is the replay sample size; replay only runs once the
	// memory holds more than this many experiences. Default: 32
	BatchSize int

	// RerankWeight scales the like-action Q-value added to the hybrid
	// score during re-ranking. Default: 0.3
	RerankWeight float64
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	return Config{
		Hidden1:      64,
		Hidden2:      32,
		Gamma:        0.95,
		Epsilon:      1.0,
		EpsilonMin:   0.01,
		EpsilonDecay: 0.995,
		LearningRate: 0.001,
		MemorySize:   2000,
		BatchSize:    32,
		RerankWeight: 0.3,
	}
}

// withDefaults fills zero fields from DefaultConfig. Epsilon is the one
// field where zero is meaningful (no exploration), so it is left alone.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Hidden1 <= 0 {
		c.Hidden1 = def.Hidden1
	}
	if c.Hidden2 <= 0 {
		c.Hidden2 = def.Hidden2
	}
	if c.Gamma <= 0 {
		c.Gamma = def.Gamma
	}
	if c.EpsilonMin <= 0 {
		c.EpsilonMin = def.EpsilonMin
	}
	if c.EpsilonDecay <= 0 {
		c.EpsilonDecay = def.EpsilonDecay
	}
	if c.LearningRate <= 0 {
		c.LearningRate = def.LearningRate
	}
	if c.MemorySize <= 0 {
		c.MemorySize = def.MemorySize
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.RerankWeight == 0 {
		c.RerankWeight = def.RerankWeight
	}
	return c
}
