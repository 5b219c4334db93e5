// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

import (
	"math/rand"
	"sync"
	"time"
)

// Agent is one user's DQN: a Q-network, a replay memory, and an
// exploration rate. All methods are safe for concurrent use.
type Agent struct {
	userID string
	cfg    Config

	mu      sync.Mutex
	net     *network
	memory  *replayMemory
	epsilon float64
	rng     *rand.Rand
}

// NewAgent creates an agent with a freshly initialized network.
func NewAgent(userID string, cfg Config) *Agent {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Agent{
		userID:  userID,
		cfg:     cfg,
		net:     newNetwork(StateSize, cfg.Hidden1, cfg.Hidden2, ActionSize, cfg.LearningRate, rng),
		memory:  newReplayMemory(cfg.MemorySize),
		epsilon: cfg.Epsilon,
		rng:     rng,
	}
}

// UserID returns the owning user's ID.
func (a *Agent) UserID() string {
	return a.userID
}

// QValues predicts the Q-value of each action for the given state.
func (a *Agent) QValues(state []float64) []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.net.predict(state)
}

// Act selects an action epsilon-greedily: a random action with
// probability epsilon, otherwise the argmax of the predicted Q-values.
func (a *Agent) Act(state []float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rng.Float64() <= a.epsilon {
		return a.rng.Intn(ActionSize)
	}

	q := a.net.predict(state)
	best := 0
	for i := 1; i < len(q); i++ {
		if q[i] > q[best] {
			best = i
		}
	}
	return best
}

// Remember stores a transition in the replay memory.
func (a *Agent) Remember(state []float64, action int, reward float64, nextState []float64, done bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.add(experience{
		state:     state,
		action:    action,
		reward:    reward,
		nextState: nextState,
		done:      done,
	})
}

// Replay trains the network on a random batch and decays epsilon.
// It is a no-op returning false until the memory holds more than a full
// batch of experiences.
func (a *Agent) Replay() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.memory.len() <= a.cfg.BatchSize {
		return false
	}

	for _, e := range a.memory.sample(a.cfg.BatchSize, a.rng) {
		target := e.reward
		if !e.done {
			next := a.net.predict(e.nextState)
			best := next[0]
			for _, q := range next[1:] {
				if q > best {
					best = q
				}
			}
			target = e.reward + a.cfg.Gamma*best
		}

		targets := a.net.predict(e.state)
		targets[e.action] = target
		a.net.trainStep(e.state, targets)
	}

	if a.epsilon > a.cfg.EpsilonMin {
		a.epsilon *= a.cfg.EpsilonDecay
	}
	return true
}

// Epsilon returns the current exploration rate.
func (a *Agent) Epsilon() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.epsilon
}

// MemoryLen returns the number of stored experiences.
func (a *Agent) MemoryLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.len()
}

// Weights exports the network weights for persistence.
func (a *Agent) Weights() []LayerWeights {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.net.weights()
}

// SetWeights restores previously persisted network weights.
func (a *Agent) SetWeights(ws []LayerWeights) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.net.setWeights(ws)
}
