// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

import "math/rand"

// experience is one stored transition for replay training.
type experience struct {
	state     []float64
	action    int
	reward    float64
	nextState []float64
	done      bool
}

// replayMemory is a fixed-capacity ring buffer of experiences. Once full,
// new experiences overwrite the oldest.
type replayMemory struct {
	buf  []experience
	max  int
	next int
	full bool
}

func newReplayMemory(capacity int) *replayMemory {
	return &replayMemory{
		buf: make([]experience, 0, capacity),
		max: capacity,
	}
}

// add stores an experience, evicting the oldest when at capacity.
func (m *replayMemory) add(e experience) {
	if len(m.buf) < m.max {
		m.buf = append(m.buf, e)
		return
	}
	m.full = true
	m.buf[m.next] = e
	m.next = (m.next + 1) % m.max
}

// len returns the number of stored experiences.
func (m *replayMemory) len() int {
	return len(m.buf)
}

// sample returns n distinct experiences chosen uniformly at random.
// n must not exceed len().
func (m *replayMemory) sample(n int, rng *rand.Rand) []experience {
	out := make([]experience, 0, n)
	for _, idx := range rng.Perm(len(m.buf))[:n] {
		out = append(out, m.buf[idx])
	}
	return out
}
