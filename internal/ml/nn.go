package ml

import (
	"math"
	"math/rand"
)

// FeedForward is a one-hidden-layer network with sigmoid activations,
// trained with per-example backpropagation.
type FeedForward struct {
	hiddenW [][]float64
	hiddenB []float64
	outW    []float64
	outB    float64
}

// FeedForwardConfig controls network shape and training.
type FeedForwardConfig struct {
	HiddenSize   int
	LearningRate float64
	Epochs       int
}

// DefaultFeedForwardConfig works well on the bundled screening dataset.
func DefaultFeedForwardConfig() FeedForwardConfig {
	return FeedForwardConfig{HiddenSize: 8, LearningRate: 0.5, Epochs: 300}
}

// TrainFeedForward fits the network with stochastic gradient descent on log
// loss, reshuffling the visit order with rng every epoch.
func TrainFeedForward(features [][]float64, labels []float64, cfg FeedForwardConfig, rng *rand.Rand) *FeedForward {
	if len(features) == 0 {
		return &FeedForward{}
	}

	dim := len(features[0])
	scale := 1 / math.Sqrt(float64(dim))
	net := &FeedForward{
		hiddenW: make([][]float64, cfg.HiddenSize),
		hiddenB: make([]float64, cfg.HiddenSize),
		outW:    make([]float64, cfg.HiddenSize),
	}
	for h := range net.hiddenW {
		net.hiddenW[h] = make([]float64, dim)
		for j := range net.hiddenW[h] {
			net.hiddenW[h][j] = rng.NormFloat64() * scale
		}
		net.outW[h] = rng.NormFloat64() * scale
	}

	hidden := make([]float64, cfg.HiddenSize)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for _, i := range rng.Perm(len(features)) {
			x := features[i]
			out := net.forward(x, hidden)

			// With sigmoid output and log loss the output delta reduces
			// to prediction minus label.
			outDelta := out - labels[i]
			for h, a := range hidden {
				hiddenDelta := outDelta * net.outW[h] * a * (1 - a)
				net.outW[h] -= cfg.LearningRate * outDelta * a
				for j, v := range x {
					net.hiddenW[h][j] -= cfg.LearningRate * hiddenDelta * v
				}
				net.hiddenB[h] -= cfg.LearningRate * hiddenDelta
			}
			net.outB -= cfg.LearningRate * outDelta
		}
	}
	return net
}

// PredictProb returns the positive class probability for x.
func (n *FeedForward) PredictProb(x []float64) float64 {
	if len(n.hiddenW) == 0 {
		return 0.5
	}
	return n.forward(x, make([]float64, len(n.hiddenW)))
}

// forward fills hidden with the activations and returns the output.
func (n *FeedForward) forward(x []float64, hidden []float64) float64 {
	for h, weights := range n.hiddenW {
		z := n.hiddenB[h]
		for j, w := range weights {
			if j >= len(x) {
				break
			}
			z += w * x[j]
		}
		hidden[h] = sigmoid(z)
	}

	z := n.outB
	for h, w := range n.outW {
		z += w * hidden[h]
	}
	return sigmoid(z)
}
