// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Forkcast server: nearby restaurant discovery plus personalized
// recommendations from a hybrid content/collaborative pipeline with a
// per-user DQN re-ranker that learns from feedback.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forkcast/forkcast/internal/api"
	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/logging"
	"github.com/forkcast/forkcast/internal/places"
	"github.com/forkcast/forkcast/internal/recommend"
	"github.com/forkcast/forkcast/internal/recommend/algorithms"
	"github.com/forkcast/forkcast/internal/recommend/rl"
	"github.com/forkcast/forkcast/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage_path", cfg.Storage.Path).
		Msg("Starting Forkcast")

	store, err := storage.Open(storage.Config{
		Path:     cfg.Storage.Path,
		InMemory: cfg.Storage.InMemory,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	profiles := storage.NewProfileStore(store)
	modelStore := storage.NewModelStore(store)
	feedbackEvents := storage.NewFeedbackStore(store)

	content := algorithms.NewContentBased(algorithms.ContentConfig{})
	collab := algorithms.NewCollaborative(algorithms.CollaborativeConfig{
		MaxNeighbors: cfg.Recommend.MaxNeighbors,
	}, profiles)

	agents := rl.NewManager(rl.Config{
		Gamma:        cfg.RL.Gamma,
		Epsilon:      cfg.RL.Epsilon,
		EpsilonMin:   cfg.RL.EpsilonMin,
		EpsilonDecay: cfg.RL.EpsilonDecay,
		LearningRate: cfg.RL.LearningRate,
		MemorySize:   cfg.RL.MemorySize,
		BatchSize:    cfg.RL.BatchSize,
		RerankWeight: cfg.RL.RerankWeight,
	}, modelStore, logging.Logger())

	engine, err := recommend.NewEngine(recommend.Config{
		Weights: recommend.HybridWeights{
			Content: cfg.Recommend.ContentWeight,
			Collab:  cfg.Recommend.CollabWeight,
		},
		TopK: cfg.Recommend.TopK,
		Snapshots: recommend.SnapshotConfig{
			Enabled: cfg.Recommend.SnapshotsEnabled,
			Dir:     cfg.Recommend.SnapshotDir,
		},
	}, content, collab, agents, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}

	if cfg.Places.APIKey == "" {
		logging.Warn().Msg("No places API key configured; discovery requests will fail upstream")
	}
	placesClient := places.NewClient(places.Config{
		APIKey:            cfg.Places.APIKey,
		BaseURL:           cfg.Places.BaseURL,
		Timeout:           cfg.Places.Timeout,
		RequestsPerSecond: cfg.Places.RequestsPerSecond,
		Burst:             cfg.Places.Burst,
		MaxPages:          cfg.Places.MaxPages,
		PageDelay:         cfg.Places.PageDelay,
	}, logging.Logger())

	handler := api.NewHandler(placesClient, engine, agents, profiles, feedbackEvents, logging.Logger())
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Forkcast stopped")
}
