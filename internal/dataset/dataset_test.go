package dataset

import "testing"

func TestLoad(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(ds.Records) < 100 {
		t.Fatalf("dataset has %d records, want at least 100", len(ds.Records))
	}

	// Both classes need real representation for the experiments to mean
	// anything.
	var positives int
	for _, rec := range ds.Records {
		if rec.Positive {
			positives++
		}
	}
	if positives < len(ds.Records)/4 || len(ds.Records)-positives < len(ds.Records)/4 {
		t.Errorf("dataset is too imbalanced: %d positive of %d", positives, len(ds.Records))
	}
}

func TestStatsAggregates(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	stats, err := ds.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.Size != len(ds.Records) {
		t.Errorf("Size = %d, want %d", stats.Size, len(ds.Records))
	}
	if stats.PositiveRate <= 0 || stats.PositiveRate >= 1 {
		t.Errorf("PositiveRate = %f, want inside (0,1)", stats.PositiveRate)
	}
	if stats.MeanTotalScore <= 0 || stats.MeanTotalScore >= 40 {
		t.Errorf("MeanTotalScore = %f, want inside (0,40)", stats.MeanTotalScore)
	}
	if len(stats.QuestionMeans) != 10 {
		t.Fatalf("QuestionMeans has %d entries, want 10", len(stats.QuestionMeans))
	}
	for q, mean := range stats.QuestionMeans {
		if mean < 0 || mean > 4 {
			t.Errorf("question %d mean = %f outside 0-4", q+1, mean)
		}
	}

	var levelTotal int
	for level, count := range stats.LevelDistribution {
		if level != "Low" && level != "Medium" && level != "High" {
			t.Errorf("unexpected risk level %q", level)
		}
		levelTotal += count
	}
	if levelTotal != stats.Size {
		t.Errorf("level counts sum to %d, want %d", levelTotal, stats.Size)
	}

	var genderTotal int
	for _, count := range stats.Genders {
		genderTotal += count
	}
	if genderTotal != stats.Size {
		t.Errorf("gender counts sum to %d, want %d", genderTotal, stats.Size)
	}

	var bandTotal int
	for _, count := range stats.AgeBands {
		bandTotal += count
	}
	if bandTotal != stats.Size {
		t.Errorf("age band counts sum to %d, want %d", bandTotal, stats.Size)
	}
}

func TestFeaturesNormalized(t *testing.T) {
	ds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	features := ds.Features()
	labels := ds.Labels()
	if len(features) != len(ds.Records) || len(labels) != len(ds.Records) {
		t.Fatalf("features/labels misaligned: %d, %d, %d records", len(features), len(labels), len(ds.Records))
	}

	for i, v := range features {
		if len(v) != FeatureCount {
			t.Fatalf("record %d has %d features, want %d", i, len(v), FeatureCount)
		}
		for j, f := range v {
			if f < 0 || f > 1 {
				t.Fatalf("record %d feature %d = %f outside [0,1]", i, j, f)
			}
		}
		if labels[i] != 0 && labels[i] != 1 {
			t.Fatalf("record %d label = %f", i, labels[i])
		}
	}
}

func TestFeatureEncoding(t *testing.T) {
	ds := &Dataset{Records: []Record{
		{Responses: [10]int{4, 0, 2, 0, 0, 0, 0, 0, 0, 0}, Age: 2, Gender: "M", Positive: true},
		{Responses: [10]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Age: 14, Gender: "F", Positive: false},
	}}

	features := ds.Features()
	if features[0][0] != 1.0 || features[0][2] != 0.5 {
		t.Errorf("response scaling wrong: %v", features[0][:3])
	}
	if features[0][10] != 0.0 {
		t.Errorf("age 2 should scale to 0, got %f", features[0][10])
	}
	if features[1][10] != 1.0 {
		t.Errorf("age 14 should scale to 1, got %f", features[1][10])
	}
	if features[0][11] != 1.0 || features[1][11] != 0.0 {
		t.Errorf("gender encoding wrong: %f, %f", features[0][11], features[1][11])
	}

	labels := ds.Labels()
	if labels[0] != 1 || labels[1] != 0 {
		t.Errorf("labels wrong: %v", labels)
	}
}
