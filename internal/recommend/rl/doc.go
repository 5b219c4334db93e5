// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package rl implements the per-user deep Q-network re-ranker.
//
// Each user gets their own small MLP (35 -> 64 -> 32 -> 4) that maps a
// restaurant state vector to Q-values for the four feedback actions
// (like, dislike, click_details, skip). During recommendation the Q-value
// of the like action nudges the hybrid score; during feedback the agent
// stores the experience, replays a batch when enough history exists, and
// persists its weights.
//
// Agents live in process memory so replay buffers survive across requests;
// only the network weights are persisted. A weight-load failure downgrades
// to a fresh network and never fails the caller.
package rl
