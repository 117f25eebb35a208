// Package scoring computes the deterministic screening risk result from a
// finalized questionnaire. It is a pure library: no I/O, no randomness, no
// shared state. Persistence and presentation live with the callers.
package scoring

import (
	"errors"
	"fmt"
)

// ResponseValue is one of the five ordinal frequency categories a caregiver
// can choose when answering a screening question.
type ResponseValue string

const (
	ResponseNever     ResponseValue = "never"
	ResponseRarely    ResponseValue = "rarely"
	ResponseSometimes ResponseValue = "sometimes"
	ResponseOften     ResponseValue = "often"
	ResponseAlways    ResponseValue = "always"
)

// responseScores maps each category to its ordinal score (0-4).
var responseScores = map[ResponseValue]int{
	ResponseNever:     0,
	ResponseRarely:    1,
	ResponseSometimes: 2,
	ResponseOften:     3,
	ResponseAlways:    4,
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

const (
	// QuestionCount is the fixed length of the questionnaire.
	QuestionCount = 10

	// MaxTotalScore is the highest possible raw score (all "always").
	MaxTotalScore = QuestionCount * 4

	// MinAge and MaxAge bound the supported child age in years.
	MinAge = 2
	MaxAge = 14
)

// Weighting constants. The questionnaire carries ~0.85 of the score; the
// demographic adjustments contribute at most ~0.15 on top of it.
const (
	questionnaireWeight = 0.85

	ageAdjToddler   = 0.06 // ages 2-3
	ageAdjPreschool = 0.02 // ages 4-6
	ageAdjPrimary   = 0.01 // ages 7-10
	ageAdjOlder     = 0.04 // ages 11-14

	genderAdjMale   = 0.04
	genderAdjFemale = 0.01
)

// Pattern bonuses: many high-frequency responses, or an unusually flat
// low-engagement profile, nudge the score upward.
const (
	highRiskScoreFloor     = 3 // a response scored >= often
	highRiskCountThreshold = 6
	highRiskBonus          = 0.10

	lowEngagementScoreCeil      = 1 // a response scored <= rarely
	lowEngagementCountThreshold = 7
	lowEngagementBonus          = 0.05
)

// Risk-level cutoffs over riskPercentage.
const (
	mediumCutoff = 35.0
	highCutoff   = 65.0
)

// Confidence bounds and shape. Low confidence scales with distance below the
// medium cutoff, high confidence with distance above the high cutoff, and
// medium sits at a fixed floor value.
const (
	confidenceMin    = 0.60
	confidenceMax    = 0.95
	confidenceMedium = 0.70
	confidenceSpread = confidenceMax - confidenceMedium
)

// ErrInvalidInput is returned when an input violates its shape constraints:
// wrong response count, an unrecognized category, an out-of-range age, or an
// unrecognized gender. Callers are expected to have validated during form
// collection; the scorer performs no fallback or recovery.
var ErrInvalidInput = errors.New("invalid screening input")

// Input is a finalized questionnaire submission.
type Input struct {
	Age       int
	Gender    Gender
	Responses []ResponseValue
}

// QuestionScore is one row of the per-question breakdown.
type QuestionScore struct {
	Question string        `json:"question"`
	Response ResponseValue `json:"response"`
	Score    int           `json:"score"`
}

// Result is the immutable outcome of scoring one Input. A new submission
// produces a new Result; results are never edited after computation.
type Result struct {
	TotalScore     int             `json:"total_score"`
	RiskScore      float64         `json:"risk_score"`
	RiskPercentage float64         `json:"risk_percentage"`
	RiskLevel      RiskLevel       `json:"risk_level"`
	Confidence     float64         `json:"confidence"`
	Recommendation string          `json:"recommendation"`
	Breakdown      []QuestionScore `json:"breakdown"`
}

// ParseResponse converts a raw category string to a ResponseValue.
func ParseResponse(s string) (ResponseValue, error) {
	v := ResponseValue(s)
	if _, ok := responseScores[v]; !ok {
		return "", fmt.Errorf("%w: unrecognized response %q", ErrInvalidInput, s)
	}
	return v, nil
}

// ParseGender converts a raw gender string to a Gender.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	}
	return "", fmt.Errorf("%w: gender must be %q or %q", ErrInvalidInput, GenderMale, GenderFemale)
}

// Validate checks the shape constraints of an Input without scoring it.
func Validate(in Input) error {
	if in.Age < MinAge || in.Age > MaxAge {
		return fmt.Errorf("%w: age %d outside supported range %d-%d", ErrInvalidInput, in.Age, MinAge, MaxAge)
	}
	if in.Gender != GenderMale && in.Gender != GenderFemale {
		return fmt.Errorf("%w: unrecognized gender %q", ErrInvalidInput, in.Gender)
	}
	if len(in.Responses) != QuestionCount {
		return fmt.Errorf("%w: expected %d responses, got %d", ErrInvalidInput, QuestionCount, len(in.Responses))
	}
	for i, r := range in.Responses {
		if _, ok := responseScores[r]; !ok {
			return fmt.Errorf("%w: unrecognized response %q at question %d", ErrInvalidInput, r, i+1)
		}
	}
	return nil
}

// Score maps a finalized Input to its Result.
//
// riskScore = 0.85*(totalScore/40) + ageAdjustment + genderAdjustment,
// plus a 0.10 bonus when 6+ responses score >= often and a 0.05 bonus when
// 7+ responses score <= rarely, clamped to [0,1]. Same input, same output.
func Score(in Input) (*Result, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	total := 0
	highRisk := 0
	lowEngagement := 0
	scores := make([]int, QuestionCount)
	for i, r := range in.Responses {
		s := responseScores[r]
		scores[i] = s
		total += s
		if s >= highRiskScoreFloor {
			highRisk++
		}
		if s <= lowEngagementScoreCeil {
			lowEngagement++
		}
	}

	normalized := float64(total) / float64(MaxTotalScore)
	risk := questionnaireWeight*normalized + ageAdjustment(in.Age) + genderAdjustment(in.Gender)

	if highRisk >= highRiskCountThreshold {
		risk += highRiskBonus
	}
	if lowEngagement >= lowEngagementCountThreshold {
		risk += lowEngagementBonus
	}

	risk = clamp(risk, 0, 1)
	pct := risk * 100
	level := levelFor(pct)

	breakdown := make([]QuestionScore, QuestionCount)
	for i, q := range questions {
		breakdown[i] = QuestionScore{
			Question: q.Text,
			Response: in.Responses[i],
			Score:    scores[i],
		}
	}

	return &Result{
		TotalScore:     total,
		RiskScore:      risk,
		RiskPercentage: pct,
		RiskLevel:      level,
		Confidence:     confidenceFor(level, pct),
		Recommendation: recommendations[level],
		Breakdown:      breakdown,
	}, nil
}

// AgeBand returns the reporting label for the band an age falls into.
// The bands mirror the ones the age adjustment uses.
func AgeBand(age int) string {
	switch {
	case age <= 3:
		return "2-3"
	case age <= 6:
		return "4-6"
	case age <= 10:
		return "7-10"
	default:
		return "11-14"
	}
}

// ageAdjustment returns the fixed band adjustment for the child's age.
// Bands are higher for very young and for older children.
func ageAdjustment(age int) float64 {
	switch {
	case age <= 3:
		return ageAdjToddler
	case age <= 6:
		return ageAdjPreschool
	case age <= 10:
		return ageAdjPrimary
	default:
		return ageAdjOlder
	}
}

func genderAdjustment(g Gender) float64 {
	if g == GenderMale {
		return genderAdjMale
	}
	return genderAdjFemale
}

// levelFor buckets a risk percentage: <35 Low, <65 Medium, else High.
func levelFor(pct float64) RiskLevel {
	if pct < mediumCutoff {
		return RiskLow
	}
	if pct < highCutoff {
		return RiskMedium
	}
	return RiskHigh
}

// confidenceFor derives confidence from the risk percentage. Low scales from
// confidenceMax at 0% down to confidenceMedium at the medium cutoff; High
// scales from confidenceMedium at the high cutoff up to confidenceMax at
// 100%; Medium is the fixed floor. Always clamped to [0.60, 0.95].
func confidenceFor(level RiskLevel, pct float64) float64 {
	var c float64
	switch level {
	case RiskLow:
		c = confidenceMax - (pct/mediumCutoff)*confidenceSpread
	case RiskHigh:
		c = confidenceMedium + ((pct-highCutoff)/(100-highCutoff))*confidenceSpread
	default:
		c = confidenceMedium
	}
	return clamp(c, confidenceMin, confidenceMax)
}

var recommendations = map[RiskLevel]string{
	RiskLow: "Your child's responses show few behaviors associated with autism spectrum disorder. " +
		"Continue to monitor their development and bring up any new concerns at routine check-ups. " +
		"This screening is informational and is not a diagnosis.",
	RiskMedium: "Your child's responses show some behaviors that can be associated with autism spectrum disorder. " +
		"We recommend discussing these results with your pediatrician or family doctor, who can advise " +
		"whether a developmental evaluation is appropriate. This screening is informational and is not a diagnosis.",
	RiskHigh: "Your child's responses show several behaviors commonly associated with autism spectrum disorder. " +
		"We strongly recommend consulting a pediatrician, child psychologist, or developmental specialist for a " +
		"comprehensive evaluation. Early support can make a meaningful difference. This screening is informational " +
		"and is not a diagnosis.",
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
