// Package dataset loads the bundled reference screening dataset behind the
// dashboard charts and the model experiments. Each record is a completed
// questionnaire with a clinician-assigned label, shipped as CSV inside the
// binary.
package dataset

import (
	"embed"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/earlysigns/backend/internal/models"
	"github.com/earlysigns/backend/internal/scoring"
)

//go:embed data/screenings.csv
var dataFS embed.FS

const (
	questionColumns = scoring.QuestionCount
	// columns: a1..a10, age, gender, class
	totalColumns = questionColumns + 3
)

// Record is one labeled questionnaire. Responses are the numeric scores in
// questionnaire order. Positive marks records labeled as on the spectrum.
type Record struct {
	Responses [questionColumns]int
	Age       int
	Gender    string
	Positive  bool
}

type Dataset struct {
	Records []Record
}

// Load parses and validates the embedded CSV. Any malformed row fails the
// whole load: the dataset ships with the binary, so a bad row is a build
// problem, not a runtime condition to tolerate.
func Load() (*Dataset, error) {
	f, err := dataFS.Open("data/screenings.csv")
	if err != nil {
		return nil, fmt.Errorf("open embedded dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = totalColumns

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset has no data rows")
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("dataset row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}

	return &Dataset{Records: records}, nil
}

func parseRow(row []string) (Record, error) {
	var rec Record

	for q := 0; q < questionColumns; q++ {
		v, err := strconv.Atoi(row[q])
		if err != nil {
			return rec, fmt.Errorf("response %d: %w", q+1, err)
		}
		if v < 0 || v > 4 {
			return rec, fmt.Errorf("response %d: score %d outside 0-4", q+1, v)
		}
		rec.Responses[q] = v
	}

	age, err := strconv.Atoi(row[questionColumns])
	if err != nil {
		return rec, fmt.Errorf("age: %w", err)
	}
	if age < scoring.MinAge || age > scoring.MaxAge {
		return rec, fmt.Errorf("age %d outside %d-%d", age, scoring.MinAge, scoring.MaxAge)
	}
	rec.Age = age

	gender := row[questionColumns+1]
	if gender != "M" && gender != "F" {
		return rec, fmt.Errorf("gender %q", gender)
	}
	rec.Gender = gender

	switch row[questionColumns+2] {
	case "0":
		rec.Positive = false
	case "1":
		rec.Positive = true
	default:
		return rec, fmt.Errorf("class %q", row[questionColumns+2])
	}

	return rec, nil
}

// FeatureCount is the width of the vectors Features returns.
const FeatureCount = questionColumns + 2

// Features returns one normalized vector per record: the ten response
// scores scaled to [0,1], the age scaled to [0,1], and the gender encoded
// as M=1, F=0.
func (d *Dataset) Features() [][]float64 {
	out := make([][]float64, len(d.Records))
	for i, rec := range d.Records {
		v := make([]float64, FeatureCount)
		for q, s := range rec.Responses {
			v[q] = float64(s) / 4.0
		}
		v[questionColumns] = float64(rec.Age-scoring.MinAge) / float64(scoring.MaxAge-scoring.MinAge)
		if rec.Gender == "M" {
			v[questionColumns+1] = 1
		}
		out[i] = v
	}
	return out
}

// Labels returns 1 for positive records and 0 otherwise, aligned with
// Features.
func (d *Dataset) Labels() []float64 {
	out := make([]float64, len(d.Records))
	for i, rec := range d.Records {
		if rec.Positive {
			out[i] = 1
		}
	}
	return out
}

// Stats computes the cohort aggregates shown on the dashboard. The level
// distribution comes from running every record through scoring.Score, so the
// charts reflect what those children would be told today, not whatever scorer
// produced the original labels.
func (d *Dataset) Stats() (*models.CohortStats, error) {
	stats := &models.CohortStats{
		Size:              len(d.Records),
		QuestionMeans:     make([]float64, questionColumns),
		LevelDistribution: make(map[string]int),
		AgeBands:          make(map[string]int),
		Genders:           make(map[string]int),
	}
	if len(d.Records) == 0 {
		return stats, nil
	}

	categories := scoring.Categories()
	var positives, scoreSum int
	for _, rec := range d.Records {
		responses := make([]scoring.ResponseValue, questionColumns)
		for q, score := range rec.Responses {
			stats.QuestionMeans[q] += float64(score)
			scoreSum += score
			responses[q] = categories[score]
		}
		if rec.Positive {
			positives++
		}

		gender, err := scoring.ParseGender(rec.Gender)
		if err != nil {
			return nil, fmt.Errorf("cohort gender: %w", err)
		}
		result, err := scoring.Score(scoring.Input{Age: rec.Age, Gender: gender, Responses: responses})
		if err != nil {
			return nil, fmt.Errorf("score cohort record: %w", err)
		}

		stats.LevelDistribution[string(result.RiskLevel)]++
		stats.AgeBands[scoring.AgeBand(rec.Age)]++
		stats.Genders[rec.Gender]++
	}

	n := float64(len(d.Records))
	for q := range stats.QuestionMeans {
		stats.QuestionMeans[q] /= n
	}
	stats.PositiveRate = float64(positives) / n
	stats.MeanTotalScore = float64(scoreSum) / n
	return stats, nil
}
