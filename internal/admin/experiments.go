package admin

import (
	"fmt"
	"math/rand"

	"github.com/earlysigns/backend/internal/dataset"
	"github.com/earlysigns/backend/internal/ml"
	"github.com/earlysigns/backend/internal/models"
)

const (
	defaultTestFraction = 0.25
	minTestFraction     = 0.1
	maxTestFraction     = 0.5
)

const experimentNote = "Illustrative comparison on the bundled reference dataset. These models are not the scoring engine and their figures carry no clinical meaning."

// runExperiment trains the whole model suite on one deterministic split of
// the bundled dataset. Each model derives its own random source from the
// request seed, so reports are reproducible and independent of suite order.
func runExperiment(ds *dataset.Dataset, req models.ExperimentRequest) (*models.ExperimentResponse, error) {
	fraction := req.TestFraction
	if fraction == 0 {
		fraction = defaultTestFraction
	}
	if fraction < minTestFraction || fraction > maxTestFraction {
		return nil, fmt.Errorf("test fraction %v outside %v-%v", fraction, minTestFraction, maxTestFraction)
	}

	splitRng := rand.New(rand.NewSource(req.Seed))
	trainX, testX, trainY, testY, err := ml.TrainTestSplit(ds.Features(), ds.Labels(), fraction, splitRng)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}

	trainers := []struct {
		name  string
		train func(rng *rand.Rand) ml.Classifier
	}{
		{"logistic_regression", func(rng *rand.Rand) ml.Classifier {
			return ml.TrainLogistic(trainX, trainY, ml.DefaultLogisticConfig(), rng)
		}},
		{"decision_tree", func(rng *rand.Rand) ml.Classifier {
			return ml.TrainTree(trainX, trainY, ml.DefaultTreeConfig())
		}},
		{"random_forest", func(rng *rand.Rand) ml.Classifier {
			return ml.TrainForest(trainX, trainY, ml.DefaultForestConfig(), rng)
		}},
		{"feedforward_network", func(rng *rand.Rand) ml.Classifier {
			return ml.TrainFeedForward(trainX, trainY, ml.DefaultFeedForwardConfig(), rng)
		}},
		{"attention_classifier", func(rng *rand.Rand) ml.Classifier {
			return ml.TrainAttention(trainX, trainY, ml.DefaultAttentionConfig(), rng)
		}},
	}

	resp := &models.ExperimentResponse{
		Seed:         req.Seed,
		TestFraction: fraction,
		TrainSize:    len(trainX),
		TestSize:     len(testX),
		Note:         experimentNote,
	}
	for i, tr := range trainers {
		clf := tr.train(rand.New(rand.NewSource(req.Seed + int64(i) + 1)))
		trainMetrics := ml.Evaluate(clf, trainX, trainY)
		testMetrics := ml.Evaluate(clf, testX, testY)
		resp.Models = append(resp.Models, models.ModelReport{
			Name:          tr.name,
			TrainAccuracy: trainMetrics.Accuracy,
			Accuracy:      testMetrics.Accuracy,
			Precision:     testMetrics.Precision,
			Recall:        testMetrics.Recall,
			F1:            testMetrics.F1,
		})
	}
	return resp, nil
}
