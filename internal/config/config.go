// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package config loads layered application configuration: struct defaults,
// then an optional YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Storage   StorageConfig   `koanf:"storage"`
	Places    PlacesConfig    `koanf:"places"`
	Recommend RecommendConfig `koanf:"recommend"`
	RL        RLConfig        `koanf:"rl"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StorageConfig holds the embedded key-value store settings.
type StorageConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// PlacesConfig holds upstream places provider settings.
type PlacesConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxPages          int           `koanf:"max_pages"`
	PageDelay         time.Duration `koanf:"page_delay"`
}

// RecommendConfig holds scoring pipeline settings.
type RecommendConfig struct {
	ContentWeight    float64 `koanf:"content_weight"`
	CollabWeight     float64 `koanf:"collab_weight"`
	TopK             int     `koanf:"top_k"`
	MaxNeighbors     int     `koanf:"max_neighbors"`
	SnapshotsEnabled bool    `koanf:"snapshots_enabled"`
	SnapshotDir      string  `koanf:"snapshot_dir"`
}

// RLConfig holds the per-user learning agent hyperparameters.
type RLConfig struct {
	Gamma        float64 `koanf:"gamma"`
	Epsilon      float64 `koanf:"epsilon"`
	EpsilonMin   float64 `koanf:"epsilon_min"`
	EpsilonDecay float64 `koanf:"epsilon_decay"`
	LearningRate float64 `koanf:"learning_rate"`
	MemorySize   int     `koanf:"memory_size"`
	BatchSize    int     `koanf:"batch_size"`
	RerankWeight float64 `koanf:"rerank_weight"`
}

// SecurityConfig holds the request hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range (1-65535)", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required unless storage.in_memory is set")
	}
	if c.Recommend.ContentWeight < 0 || c.Recommend.CollabWeight < 0 {
		return fmt.Errorf("recommend weights must be non-negative")
	}
	if c.Recommend.TopK < 0 {
		return fmt.Errorf("recommend.top_k must be non-negative, got %d", c.Recommend.TopK)
	}
	if c.RL.Gamma < 0 || c.RL.Gamma > 1 {
		return fmt.Errorf("rl.gamma %f out of range (0-1)", c.RL.Gamma)
	}
	if c.RL.EpsilonDecay <= 0 || c.RL.EpsilonDecay > 1 {
		return fmt.Errorf("rl.epsilon_decay %f out of range (0-1]", c.RL.EpsilonDecay)
	}
	if c.RL.BatchSize <= 0 || c.RL.MemorySize <= 0 {
		return fmt.Errorf("rl.batch_size and rl.memory_size must be positive")
	}
	if c.RL.MemorySize < c.RL.BatchSize {
		return fmt.Errorf("rl.memory_size %d smaller than rl.batch_size %d", c.RL.MemorySize, c.RL.BatchSize)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("security.rate_limit_requests must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return nil
}
