// Forkcast - Restaurant Discovery and Personalized Recommendations
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package rl

import (
	"fmt"
	"math"
	"math/rand"
)

// Adam optimizer constants.
const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-7
)

// LayerWeights is one weight tensor in persistable form: its shape plus
// the row-major flattened values. A network serializes to an ordered list
// of these (kernel then bias, per layer).
type LayerWeights struct {
	Shape  []int     `json:"shape"`
	Values []float64 `json:"values"`
}

// denseLayer is a fully connected layer with an optional ReLU activation.
// Kernels are stored [in][out] so persisted shapes read (inputs, outputs).
type denseLayer struct {
	in, out int
	relu    bool

	w [][]float64
	b []float64

	// Adam first and second moments, laid out like w and b.
	mW, vW [][]float64
	mB, vB []float64
}

// network is a small MLP trained with per-sample Adam steps on MSE loss.
type network struct {
	layers []*denseLayer
	lr     float64
	step   int
}

// newNetwork builds an MLP with Glorot-uniform kernels and zero biases.
func newNetwork(stateSize, hidden1, hidden2, actionSize int, lr float64, rng *rand.Rand) *network {
	return &network{
		layers: []*denseLayer{
			newDenseLayer(stateSize, hidden1, true, rng),
			newDenseLayer(hidden1, hidden2, true, rng),
			newDenseLayer(hidden2, actionSize, false, rng),
		},
		lr: lr,
	}
}

func newDenseLayer(in, out int, relu bool, rng *rand.Rand) *denseLayer {
	limit := math.Sqrt(6.0 / float64(in+out))
	w := make([][]float64, in)
	mW := make([][]float64, in)
	vW := make([][]float64, in)
	for i := range w {
		w[i] = make([]float64, out)
		mW[i] = make([]float64, out)
		vW[i] = make([]float64, out)
		for j := range w[i] {
			w[i][j] = (rng.Float64()*2 - 1) * limit
		}
	}
	return &denseLayer{
		in: in, out: out, relu: relu,
		w: w, b: make([]float64, out),
		mW: mW, vW: vW,
		mB: make([]float64, out), vB: make([]float64, out),
	}
}

// forward applies the layer to x.
func (l *denseLayer) forward(x []float64) []float64 {
	out := make([]float64, l.out)
	for j := 0; j < l.out; j++ {
		sum := l.b[j]
		for i := 0; i < l.in; i++ {
			sum += x[i] * l.w[i][j]
		}
		if l.relu && sum < 0 {
			sum = 0
		}
		out[j] = sum
	}
	return out
}

// predict runs a forward pass and returns the output activations.
func (n *network) predict(x []float64) []float64 {
	out := x
	for _, l := range n.layers {
		out = l.forward(out)
	}
	return out
}

// trainStep performs one Adam gradient step on MSE(predict(x), target).
// Mirrors a single-sample fit with one epoch.
func (n *network) trainStep(x, target []float64) {
	// Forward pass, keeping every layer's input and post-activation output.
	inputs := make([][]float64, len(n.layers))
	outputs := make([][]float64, len(n.layers))
	act := x
	for li, l := range n.layers {
		inputs[li] = act
		act = l.forward(act)
		outputs[li] = act
	}

	// Output gradient of mean squared error.
	last := len(n.layers) - 1
	grad := make([]float64, len(act))
	for j := range grad {
		grad[j] = 2 * (act[j] - target[j]) / float64(len(grad))
	}

	n.step++
	for li := last; li >= 0; li-- {
		l := n.layers[li]

		// ReLU derivative: zero gradient where the unit was inactive.
		if l.relu {
			for j := range grad {
				if outputs[li][j] <= 0 {
					grad[j] = 0
				}
			}
		}

		// Gradient w.r.t. this layer's input, before the weights move.
		var prevGrad []float64
		if li > 0 {
			prevGrad = make([]float64, l.in)
			for i := 0; i < l.in; i++ {
				var sum float64
				for j := 0; j < l.out; j++ {
					sum += l.w[i][j] * grad[j]
				}
				prevGrad[i] = sum
			}
		}

		in := inputs[li]
		for i := 0; i < l.in; i++ {
			for j := 0; j < l.out; j++ {
				l.w[i][j] -= n.adamDelta(&l.mW[i][j], &l.vW[i][j], in[i]*grad[j])
			}
		}
		for j := 0; j < l.out; j++ {
			l.b[j] -= n.adamDelta(&l.mB[j], &l.vB[j], grad[j])
		}

		grad = prevGrad
	}
}

// adamDelta updates the moment estimates in place and returns the
// parameter delta for the given gradient.
func (n *network) adamDelta(m, v *float64, grad float64) float64 {
	*m = adamBeta1**m + (1-adamBeta1)*grad
	*v = adamBeta2**v + (1-adamBeta2)*grad*grad
	mHat := *m / (1 - math.Pow(adamBeta1, float64(n.step)))
	vHat := *v / (1 - math.Pow(adamBeta2, float64(n.step)))
	return n.lr * mHat / (math.Sqrt(vHat) + adamEpsilon)
}

// weights exports the network as an ordered (kernel, bias) list per layer.
func (n *network) weights() []LayerWeights {
	out := make([]LayerWeights, 0, len(n.layers)*2)
	for _, l := range n.layers {
		kernel := make([]float64, 0, l.in*l.out)
		for i := 0; i < l.in; i++ {
			kernel = append(kernel, l.w[i]...)
		}
		out = append(out, LayerWeights{Shape: []int{l.in, l.out}, Values: kernel})

		bias := make([]float64, l.out)
		copy(bias, l.b)
		out = append(out, LayerWeights{Shape: []int{l.out}, Values: bias})
	}
	return out
}

// setWeights restores the network from an exported weight list. The list
// must match the network's layer shapes exactly.
func (n *network) setWeights(ws []LayerWeights) error {
	if len(ws) != len(n.layers)*2 {
		return fmt.Errorf("rl: expected %d weight tensors, got %d", len(n.layers)*2, len(ws))
	}

	for li, l := range n.layers {
		kernel := ws[li*2]
		if len(kernel.Shape) != 2 || kernel.Shape[0] != l.in || kernel.Shape[1] != l.out {
			return fmt.Errorf("rl: layer %d kernel shape %v, want [%d %d]", li, kernel.Shape, l.in, l.out)
		}
		if len(kernel.Values) != l.in*l.out {
			return fmt.Errorf("rl: layer %d kernel has %d values, want %d", li, len(kernel.Values), l.in*l.out)
		}

		bias := ws[li*2+1]
		if len(bias.Shape) != 1 || bias.Shape[0] != l.out {
			return fmt.Errorf("rl: layer %d bias shape %v, want [%d]", li, bias.Shape, l.out)
		}
		if len(bias.Values) != l.out {
			return fmt.Errorf("rl: layer %d bias has %d values, want %d", li, len(bias.Values), l.out)
		}
	}

	// Validate everything before mutating so a bad payload leaves the
	// network untouched.
	for li, l := range n.layers {
		kernel := ws[li*2]
		for i := 0; i < l.in; i++ {
			copy(l.w[i], kernel.Values[i*l.out:(i+1)*l.out])
		}
		copy(l.b, ws[li*2+1].Values)
	}
	return nil
}
