package ml

import (
	"math"
	"math/rand"
)

// LogisticRegression is a linear model trained with stochastic gradient
// descent on log loss.
type LogisticRegression struct {
	Weights []float64
	Bias    float64
}

// LogisticConfig controls logistic regression training.
type LogisticConfig struct {
	LearningRate float64
	Epochs       int
}

// DefaultLogisticConfig works well on the bundled screening dataset.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{LearningRate: 0.5, Epochs: 200}
}

// TrainLogistic fits a logistic regression with per-example gradient steps.
// The visit order is reshuffled with rng every epoch.
func TrainLogistic(features [][]float64, labels []float64, cfg LogisticConfig, rng *rand.Rand) *LogisticRegression {
	if len(features) == 0 {
		return &LogisticRegression{}
	}

	dim := len(features[0])
	model := &LogisticRegression{Weights: make([]float64, dim)}
	for i := range model.Weights {
		model.Weights[i] = rng.NormFloat64() * 0.01
	}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for _, i := range rng.Perm(len(features)) {
			x := features[i]
			grad := model.PredictProb(x) - labels[i]
			for j, v := range x {
				model.Weights[j] -= cfg.LearningRate * grad * v
			}
			model.Bias -= cfg.LearningRate * grad
		}
	}
	return model
}

// PredictProb returns the positive class probability for x.
func (m *LogisticRegression) PredictProb(x []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		if j >= len(x) {
			break
		}
		z += w * x[j]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	// Clamp to keep exp out of overflow territory.
	if z > 30 {
		return 1
	}
	if z < -30 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
