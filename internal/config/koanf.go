// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/forkcast/config.yaml",
	"/etc/forkcast/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. These are loaded first and
// then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Storage: StorageConfig{
			Path:     "/data/forkcast",
			InMemory: false,
		},
		Places: PlacesConfig{
			APIKey:            "",
			BaseURL:           "https://maps.googleapis.com/maps/api/place",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 10,
			Burst:             10,
			MaxPages:          3,
			PageDelay:         2 * time.Second,
		},
		Recommend: RecommendConfig{
			ContentWeight:    0.6,
			CollabWeight:     0.4,
			TopK:             0, // 0 = return the whole candidate list
			MaxNeighbors:     50,
			SnapshotsEnabled: false,
			SnapshotDir:      "/data/forkcast/snapshots",
		},
		RL: RLConfig{
			Gamma:        0.95,
			Epsilon:      1.0,
			EpsilonMin:   0.01,
			EpsilonDecay: 0.995,
			LearningRate: 0.001,
			MemorySize:   2000,
			BatchSize:    32,
			RerankWeight: 0.3,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// Load builds the configuration from layered sources with precedence
// ENV > file > defaults, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists the config paths parsed as comma-separated
// slices when set through environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("setting %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names to config paths.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"storage_path":      "storage.path",
	"storage_in_memory": "storage.in_memory",

	"places_api_key":    "places.api_key",
	"places_base_url":   "places.base_url",
	"places_timeout":    "places.timeout",
	"places_rps":        "places.requests_per_second",
	"places_burst":      "places.burst",
	"places_max_pages":  "places.max_pages",
	"places_page_delay": "places.page_delay",

	"recommend_content_weight":    "recommend.content_weight",
	"recommend_collab_weight":     "recommend.collab_weight",
	"recommend_top_k":             "recommend.top_k",
	"recommend_max_neighbors":     "recommend.max_neighbors",
	"recommend_snapshots_enabled": "recommend.snapshots_enabled",
	"recommend_snapshot_dir":      "recommend.snapshot_dir",

	"rl_gamma":         "rl.gamma",
	"rl_epsilon":       "rl.epsilon",
	"rl_epsilon_min":   "rl.epsilon_min",
	"rl_epsilon_decay": "rl.epsilon_decay",
	"rl_learning_rate": "rl.learning_rate",
	"rl_memory_size":   "rl.memory_size",
	"rl_batch_size":    "rl.batch_size",
	"rl_rerank_weight": "rl.rerank_weight",

	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unrecognized variables are dropped so unrelated environment noise
// cannot override configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
