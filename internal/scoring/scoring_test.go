package scoring

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func repeat(v ResponseValue, n int) []ResponseValue {
	out := make([]ResponseValue, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func mustScore(t *testing.T, in Input) *Result {
	t.Helper()
	res, err := Score(in)
	if err != nil {
		t.Fatalf("Score(%+v) returned error: %v", in, err)
	}
	return res
}

func TestScoreAllNever(t *testing.T) {
	// All "never", age 5, F: nothing but the small fixed adjustments remain.
	res := mustScore(t, Input{Age: 5, Gender: GenderFemale, Responses: repeat(ResponseNever, 10)})

	if res.TotalScore != 0 {
		t.Errorf("TotalScore = %d, want 0", res.TotalScore)
	}
	// 0.02 (age band) + 0.01 (F) + 0.05 (flat low-engagement profile) = 8%.
	if math.Abs(res.RiskPercentage-8.0) > 1e-9 {
		t.Errorf("RiskPercentage = %f, want 8.0", res.RiskPercentage)
	}
	if res.RiskLevel != RiskLow {
		t.Errorf("RiskLevel = %s, want Low", res.RiskLevel)
	}
}

func TestScoreAllAlways(t *testing.T) {
	// All "always", age 5, M: normalized 1.0 plus adjustments and the
	// high-risk bonus pushes past 1.0 and clamps to exactly 100%.
	res := mustScore(t, Input{Age: 5, Gender: GenderMale, Responses: repeat(ResponseAlways, 10)})

	if res.TotalScore != 40 {
		t.Errorf("TotalScore = %d, want 40", res.TotalScore)
	}
	if res.RiskPercentage != 100.0 {
		t.Errorf("RiskPercentage = %f, want 100.0 (clamped)", res.RiskPercentage)
	}
	if res.RiskLevel != RiskHigh {
		t.Errorf("RiskLevel = %s, want High", res.RiskLevel)
	}
	if math.Abs(res.Confidence-0.95) > 1e-9 {
		t.Errorf("Confidence = %f, want 0.95", res.Confidence)
	}
}

func TestHighRiskBonusAppliedOnce(t *testing.T) {
	// 6 "often" + 4 "never", age 8: exactly at the high-risk count threshold.
	responses := append(repeat(ResponseOften, 6), repeat(ResponseNever, 4)...)
	res := mustScore(t, Input{Age: 8, Gender: GenderMale, Responses: responses})

	if res.TotalScore != 18 {
		t.Errorf("TotalScore = %d, want 18", res.TotalScore)
	}
	// 0.85*(18/40) + 0.01 (age) + 0.04 (M) + 0.10 (bonus, once) = 0.5325.
	if math.Abs(res.RiskPercentage-53.25) > 1e-9 {
		t.Errorf("RiskPercentage = %f, want 53.25", res.RiskPercentage)
	}
	if res.RiskLevel != RiskMedium {
		t.Errorf("RiskLevel = %s, want Medium", res.RiskLevel)
	}

	// One fewer "often" drops below the threshold: no bonus.
	below := append(repeat(ResponseOften, 5), repeat(ResponseNever, 5)...)
	resBelow := mustScore(t, Input{Age: 8, Gender: GenderMale, Responses: below})
	// 0.85*(15/40) + 0.01 + 0.04 = 0.36875, no bonus term.
	if math.Abs(resBelow.RiskPercentage-36.875) > 1e-9 {
		t.Errorf("RiskPercentage below threshold = %f, want 36.875", resBelow.RiskPercentage)
	}
}

func TestScoreInvariants(t *testing.T) {
	// Sweep uniform-response profiles across every age and gender and check
	// the range and threshold invariants hold everywhere.
	categories := Categories()
	for _, cat := range categories {
		for age := MinAge; age <= MaxAge; age++ {
			for _, g := range []Gender{GenderMale, GenderFemale} {
				res := mustScore(t, Input{Age: age, Gender: g, Responses: repeat(cat, 10)})

				wantTotal := 10 * responseScores[cat]
				if res.TotalScore != wantTotal {
					t.Fatalf("TotalScore = %d, want %d (cat=%s age=%d g=%s)", res.TotalScore, wantTotal, cat, age, g)
				}
				if res.TotalScore < 0 || res.TotalScore > MaxTotalScore {
					t.Fatalf("TotalScore %d outside [0,%d]", res.TotalScore, MaxTotalScore)
				}
				if res.RiskScore < 0 || res.RiskScore > 1 {
					t.Fatalf("RiskScore %f outside [0,1]", res.RiskScore)
				}
				if res.RiskPercentage < 0 || res.RiskPercentage > 100 {
					t.Fatalf("RiskPercentage %f outside [0,100]", res.RiskPercentage)
				}
				if math.Abs(res.RiskPercentage-res.RiskScore*100) > 1e-9 {
					t.Fatalf("RiskPercentage %f != 100*RiskScore %f", res.RiskPercentage, res.RiskScore)
				}

				wantLevel := RiskHigh
				if res.RiskPercentage < 35 {
					wantLevel = RiskLow
				} else if res.RiskPercentage < 65 {
					wantLevel = RiskMedium
				}
				if res.RiskLevel != wantLevel {
					t.Fatalf("RiskLevel = %s at %f%%, want %s", res.RiskLevel, res.RiskPercentage, wantLevel)
				}

				if res.Confidence < 0.60 || res.Confidence > 0.95 {
					t.Fatalf("Confidence %f outside [0.60,0.95]", res.Confidence)
				}
				if res.Recommendation == "" {
					t.Fatal("Recommendation is empty")
				}
			}
		}
	}
}

func TestScoreBreakdown(t *testing.T) {
	responses := []ResponseValue{
		ResponseNever, ResponseRarely, ResponseSometimes, ResponseOften, ResponseAlways,
		ResponseAlways, ResponseOften, ResponseSometimes, ResponseRarely, ResponseNever,
	}
	res := mustScore(t, Input{Age: 7, Gender: GenderFemale, Responses: responses})

	if len(res.Breakdown) != QuestionCount {
		t.Fatalf("Breakdown has %d entries, want %d", len(res.Breakdown), QuestionCount)
	}
	qs := Questions()
	for i, b := range res.Breakdown {
		if b.Question != qs[i].Text {
			t.Errorf("Breakdown[%d].Question = %q, want %q", i, b.Question, qs[i].Text)
		}
		if b.Response != responses[i] {
			t.Errorf("Breakdown[%d].Response = %s, want %s", i, b.Response, responses[i])
		}
		if b.Score != responseScores[responses[i]] {
			t.Errorf("Breakdown[%d].Score = %d, want %d", i, b.Score, responseScores[responses[i]])
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	in := Input{Age: 9, Gender: GenderMale, Responses: []ResponseValue{
		ResponseSometimes, ResponseOften, ResponseNever, ResponseAlways, ResponseRarely,
		ResponseOften, ResponseSometimes, ResponseNever, ResponseOften, ResponseAlways,
	}}
	first := mustScore(t, in)
	second := mustScore(t, in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two scorings of the same input differ:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestScoreInvalidInput(t *testing.T) {
	valid := repeat(ResponseSometimes, 10)

	tests := []struct {
		name string
		in   Input
	}{
		{"too few responses", Input{Age: 5, Gender: GenderFemale, Responses: valid[:9]}},
		{"too many responses", Input{Age: 5, Gender: GenderFemale, Responses: append(repeat(ResponseNever, 10), ResponseNever)}},
		{"nil responses", Input{Age: 5, Gender: GenderFemale}},
		{"unknown category", Input{Age: 5, Gender: GenderFemale, Responses: append(repeat(ResponseNever, 9), ResponseValue("constantly"))}},
		{"age below range", Input{Age: 1, Gender: GenderMale, Responses: valid}},
		{"age above range", Input{Age: 15, Gender: GenderMale, Responses: valid}},
		{"unknown gender", Input{Age: 5, Gender: Gender("X"), Responses: valid}},
	}

	for _, tt := range tests {
		res, err := Score(tt.in)
		if err == nil {
			t.Errorf("%s: expected error, got result %+v", tt.name, res)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: error %v is not ErrInvalidInput", tt.name, err)
		}
	}
}

func TestConfidenceShape(t *testing.T) {
	// Low risk: confidence falls from 0.95 toward 0.70 as the percentage
	// approaches the medium cutoff.
	nearZero := mustScore(t, Input{Age: 8, Gender: GenderFemale, Responses: repeat(ResponseNever, 10)})
	nearCutoff := mustScore(t, Input{Age: 8, Gender: GenderFemale, Responses: append(repeat(ResponseSometimes, 7), repeat(ResponseNever, 3)...)})
	if nearCutoff.RiskLevel != RiskLow || nearZero.RiskLevel != RiskLow {
		t.Fatalf("setup: expected both Low, got %s and %s", nearZero.RiskLevel, nearCutoff.RiskLevel)
	}
	if nearZero.Confidence <= nearCutoff.Confidence {
		t.Errorf("Low confidence should shrink toward the cutoff: %f !> %f", nearZero.Confidence, nearCutoff.Confidence)
	}

	// Medium risk: fixed at 0.70.
	medium := mustScore(t, Input{Age: 8, Gender: GenderMale, Responses: append(repeat(ResponseOften, 6), repeat(ResponseNever, 4)...)})
	if medium.RiskLevel != RiskMedium {
		t.Fatalf("setup: expected Medium, got %s", medium.RiskLevel)
	}
	if math.Abs(medium.Confidence-0.70) > 1e-9 {
		t.Errorf("Medium confidence = %f, want 0.70", medium.Confidence)
	}

	// High risk: confidence grows with distance above the high cutoff.
	high := mustScore(t, Input{Age: 3, Gender: GenderMale, Responses: append(repeat(ResponseAlways, 7), repeat(ResponseSometimes, 3)...)})
	higher := mustScore(t, Input{Age: 3, Gender: GenderMale, Responses: repeat(ResponseAlways, 10)})
	if high.RiskLevel != RiskHigh || higher.RiskLevel != RiskHigh {
		t.Fatalf("setup: expected both High, got %s and %s", high.RiskLevel, higher.RiskLevel)
	}
	if higher.Confidence < high.Confidence {
		t.Errorf("High confidence should grow with the percentage: %f < %f", higher.Confidence, high.Confidence)
	}
}

func TestParseResponse(t *testing.T) {
	for _, cat := range Categories() {
		got, err := ParseResponse(string(cat))
		if err != nil {
			t.Errorf("ParseResponse(%q) error: %v", cat, err)
		}
		if got != cat {
			t.Errorf("ParseResponse(%q) = %q", cat, got)
		}
	}

	if _, err := ParseResponse("Never"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseResponse is case-sensitive by contract; got err %v", err)
	}
	if _, err := ParseResponse(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseResponse(\"\") should fail, got %v", err)
	}
}

func TestParseGender(t *testing.T) {
	if g, err := ParseGender("M"); err != nil || g != GenderMale {
		t.Errorf("ParseGender(M) = %q, %v", g, err)
	}
	if g, err := ParseGender("F"); err != nil || g != GenderFemale {
		t.Errorf("ParseGender(F) = %q, %v", g, err)
	}
	if _, err := ParseGender("male"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseGender(male) should fail, got %v", err)
	}
}

func TestAgeBand(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{2, "2-3"}, {3, "2-3"},
		{4, "4-6"}, {6, "4-6"},
		{7, "7-10"}, {10, "7-10"},
		{11, "11-14"}, {14, "11-14"},
	}
	for _, tt := range tests {
		if got := AgeBand(tt.age); got != tt.want {
			t.Errorf("AgeBand(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestQuestionsCatalogue(t *testing.T) {
	qs := Questions()
	if len(qs) != QuestionCount {
		t.Fatalf("Questions() returned %d items, want %d", len(qs), QuestionCount)
	}
	for i, q := range qs {
		if q.ID != i+1 {
			t.Errorf("Questions()[%d].ID = %d, want %d", i, q.ID, i+1)
		}
		if q.Text == "" {
			t.Errorf("Questions()[%d].Text is empty", i)
		}
	}

	// Callers get a copy; mutating it must not touch the catalogue.
	qs[0].Text = "scribbled over"
	if Questions()[0].Text == "scribbled over" {
		t.Error("Questions() exposes the underlying catalogue")
	}
}
