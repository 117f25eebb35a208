package admin

import (
	"reflect"
	"testing"

	"github.com/earlysigns/backend/internal/dataset"
	"github.com/earlysigns/backend/internal/models"
)

func loadDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load()
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	return ds
}

func TestRunExperiment(t *testing.T) {
	ds := loadDataset(t)

	resp, err := runExperiment(ds, models.ExperimentRequest{Seed: 7})
	if err != nil {
		t.Fatalf("runExperiment: %v", err)
	}

	if resp.TestFraction != defaultTestFraction {
		t.Errorf("test fraction = %v, want default %v", resp.TestFraction, defaultTestFraction)
	}
	if resp.TrainSize+resp.TestSize != len(ds.Records) {
		t.Errorf("split loses records: %d + %d != %d", resp.TrainSize, resp.TestSize, len(ds.Records))
	}
	if resp.Note == "" {
		t.Error("response is missing the illustrative-figures note")
	}
	if len(resp.Models) != 5 {
		t.Fatalf("got %d model reports, want 5", len(resp.Models))
	}

	reports := make(map[string]models.ModelReport)
	for _, m := range resp.Models {
		reports[m.Name] = m
		for metric, v := range map[string]float64{
			"train_accuracy": m.TrainAccuracy,
			"accuracy":       m.Accuracy,
			"precision":      m.Precision,
			"recall":         m.Recall,
			"f1":             m.F1,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%s %s = %v outside [0,1]", m.Name, metric, v)
			}
		}
	}

	// The cohort is close to linearly separable, so the linear and ensemble
	// models have to do clearly better than chance.
	if reports["logistic_regression"].Accuracy < 0.65 {
		t.Errorf("logistic regression accuracy = %v, want >= 0.65", reports["logistic_regression"].Accuracy)
	}
	if reports["random_forest"].Accuracy < 0.65 {
		t.Errorf("random forest accuracy = %v, want >= 0.65", reports["random_forest"].Accuracy)
	}
}

func TestRunExperimentDeterministic(t *testing.T) {
	ds := loadDataset(t)

	first, err := runExperiment(ds, models.ExperimentRequest{Seed: 42, TestFraction: 0.3})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runExperiment(ds, models.ExperimentRequest{Seed: 42, TestFraction: 0.3})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different reports:\n%+v\n%+v", first, second)
	}
}

func TestRunExperimentRejectsBadFraction(t *testing.T) {
	ds := loadDataset(t)

	if _, err := runExperiment(ds, models.ExperimentRequest{Seed: 1, TestFraction: 0.05}); err == nil {
		t.Error("fraction 0.05 accepted")
	}
	if _, err := runExperiment(ds, models.ExperimentRequest{Seed: 1, TestFraction: 0.9}); err == nil {
		t.Error("fraction 0.9 accepted")
	}
}
