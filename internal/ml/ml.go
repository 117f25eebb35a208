// Package ml implements the small model suite behind the admin experiment
// endpoint. These are teaching-scale implementations that train in
// milliseconds on the bundled dataset; they are not a diagnostic system.
// Every trainer takes an explicit random source, so a run is fully
// reproducible from its seed.
package ml

import (
	"fmt"
	"math/rand"
)

// Classifier predicts the probability that a feature vector belongs to the
// positive class.
type Classifier interface {
	PredictProb(x []float64) float64
}

// PredictClass applies the standard 0.5 threshold.
func PredictClass(c Classifier, x []float64) bool {
	return c.PredictProb(x) >= 0.5
}

// Metrics summarizes binary classification quality on a labeled set.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// Evaluate scores a classifier against labeled examples.
func Evaluate(c Classifier, features [][]float64, labels []float64) Metrics {
	var m Metrics
	for i, x := range features {
		predicted := PredictClass(c, x)
		actual := labels[i] >= 0.5
		switch {
		case predicted && actual:
			m.TruePositives++
		case predicted && !actual:
			m.FalsePositives++
		case !predicted && !actual:
			m.TrueNegatives++
		default:
			m.FalseNegatives++
		}
	}

	total := len(features)
	if total > 0 {
		m.Accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(total)
	}
	if m.TruePositives+m.FalsePositives > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}
	if m.TruePositives+m.FalseNegatives > 0 {
		m.Recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// TrainTestSplit shuffles the examples with rng and carves off testFraction
// of them for evaluation. Both halves keep at least one example.
func TrainTestSplit(features [][]float64, labels []float64, testFraction float64, rng *rand.Rand) (trainX, testX [][]float64, trainY, testY []float64, err error) {
	n := len(features)
	if n != len(labels) {
		return nil, nil, nil, nil, fmt.Errorf("features and labels misaligned: %d vs %d", n, len(labels))
	}
	if n < 2 {
		return nil, nil, nil, nil, fmt.Errorf("need at least 2 examples, got %d", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("test fraction %f outside (0,1)", testFraction)
	}

	testSize := int(float64(n) * testFraction)
	if testSize < 1 {
		testSize = 1
	}
	if testSize >= n {
		testSize = n - 1
	}

	perm := rng.Perm(n)
	for i, idx := range perm {
		if i < testSize {
			testX = append(testX, features[idx])
			testY = append(testY, labels[idx])
		} else {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, labels[idx])
		}
	}
	return trainX, testX, trainY, testY, nil
}
