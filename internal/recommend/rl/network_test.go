// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

import (
	"math"
	"math/rand"
	"testing"
)

func testNetwork() *network {
	return newNetwork(StateSize, 8, 6, ActionSize, 0.01, rand.New(rand.NewSource(1)))
}

func testState(seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	state := make([]float64, StateSize)
	for i := range state {
		state[i] = rng.Float64()
	}
	return state
}

func TestNetwork_PredictShape(t *testing.T) {
	n := testNetwork()
	out := n.predict(testState(7))
	if len(out) != ActionSize {
		t.Fatalf("len(predict()) = %d, want %d", len(out), ActionSize)
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("output[%d] = %f, want finite", i, v)
		}
	}
}

func TestNetwork_TrainStepReducesLoss(t *testing.T) {
	n := testNetwork()
	state := testState(42)
	target := []float64{1, -1, 0.5, -0.2}

	mse := func() float64 {
		pred := n.predict(state)
		var sum float64
		for i := range pred {
			d := pred[i] - target[i]
			sum += d * d
		}
		return sum / float64(len(pred))
	}

	before := mse()
	for i := 0; i < 200; i++ {
		n.trainStep(state, target)
	}
	after := mse()

	if after >= before {
		t.Errorf("loss did not decrease: before %f, after %f", before, after)
	}
	if after > 0.05 {
		t.Errorf("loss after training = %f, want near 0", after)
	}
}

func TestNetwork_WeightsRoundTrip(t *testing.T) {
	src := testNetwork()
	state := testState(3)
	// Train a little so the weights differ from any fresh init.
	for i := 0; i < 10; i++ {
		src.trainStep(state, []float64{1, 0, 0, 0})
	}

	dst := newNetwork(StateSize, 8, 6, ActionSize, 0.01, rand.New(rand.NewSource(99)))
	if err := dst.setWeights(src.weights()); err != nil {
		t.Fatalf("setWeights() error = %v", err)
	}

	srcOut := src.predict(state)
	dstOut := dst.predict(state)
	for i := range srcOut {
		if math.Abs(srcOut[i]-dstOut[i]) > 1e-12 {
			t.Errorf("output[%d]: src %f, dst %f", i, srcOut[i], dstOut[i])
		}
	}
}

func TestNetwork_WeightsExportFormat(t *testing.T) {
	n := testNetwork()
	ws := n.weights()

	// Three layers, each a kernel plus a bias, in order.
	if len(ws) != 6 {
		t.Fatalf("len(weights()) = %d, want 6", len(ws))
	}

	wantShapes := [][]int{
		{StateSize, 8}, {8},
		{8, 6}, {6},
		{6, ActionSize}, {ActionSize},
	}
	for i, want := range wantShapes {
		got := ws[i].Shape
		if len(got) != len(want) {
			t.Fatalf("tensor %d shape = %v, want %v", i, got, want)
		}
		size := 1
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("tensor %d shape = %v, want %v", i, got, want)
			}
			size *= want[j]
		}
		if len(ws[i].Values) != size {
			t.Errorf("tensor %d has %d values, want %d", i, len(ws[i].Values), size)
		}
	}
}

func TestNetwork_SetWeightsRejectsBadShapes(t *testing.T) {
	n := testNetwork()
	before := n.predict(testState(5))

	tests := []struct {
		name   string
		mutate func(ws []LayerWeights) []LayerWeights
	}{
		{
			name:   "wrong tensor count",
			mutate: func(ws []LayerWeights) []LayerWeights { return ws[:4] },
		},
		{
			name: "wrong kernel shape",
			mutate: func(ws []LayerWeights) []LayerWeights {
				ws[0].Shape = []int{1, 2}
				return ws
			},
		},
		{
			name: "value count mismatch",
			mutate: func(ws []LayerWeights) []LayerWeights {
				ws[1].Values = ws[1].Values[:1]
				return ws
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := n.setWeights(tt.mutate(n.weights())); err == nil {
				t.Fatal("setWeights() expected error")
			}
		})
	}

	// A rejected payload must not corrupt the network.
	after := n.predict(testState(5))
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("output[%d] changed after rejected setWeights: %f -> %f", i, before[i], after[i])
		}
	}
}
