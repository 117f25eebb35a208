package screenings

import (
	"errors"
	"strings"
	"testing"

	"github.com/earlysigns/backend/internal/models"
	"github.com/earlysigns/backend/internal/scoring"
)

func TestBuildInput(t *testing.T) {
	req := models.SubmitScreeningRequest{
		ChildAge:    5,
		ChildGender: "M",
		Responses: []string{
			"never", "rarely", "sometimes", "often", "always",
			"never", "rarely", "sometimes", "often", "always",
		},
	}

	input, err := buildInput(req)
	if err != nil {
		t.Fatalf("buildInput: %v", err)
	}
	if input.Age != 5 || input.Gender != scoring.GenderMale {
		t.Errorf("input = age %d gender %q, want age 5 gender M", input.Age, input.Gender)
	}
	if len(input.Responses) != 10 {
		t.Fatalf("responses = %d, want 10", len(input.Responses))
	}
	if input.Responses[3] != scoring.ResponseOften {
		t.Errorf("responses[3] = %q, want often", input.Responses[3])
	}
}

func TestBuildInputRejectsBadGender(t *testing.T) {
	req := models.SubmitScreeningRequest{ChildAge: 5, ChildGender: "X"}
	if _, err := buildInput(req); !errors.Is(err, scoring.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestBuildInputNamesBadQuestion(t *testing.T) {
	req := models.SubmitScreeningRequest{
		ChildAge:    5,
		ChildGender: "F",
		Responses:   []string{"never", "never", "Sometimes"},
	}

	_, err := buildInput(req)
	if !errors.Is(err, scoring.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if !strings.Contains(err.Error(), "question 3") {
		t.Errorf("err = %q, want it to name question 3", err)
	}
}

func TestStoredBreakdownRebuildsAnswers(t *testing.T) {
	scores := []int64{0, 1, 2, 3, 4, 0, 1, 2, 3, 4}

	answers := storedBreakdown(scores)
	if len(answers) != 10 {
		t.Fatalf("answers = %d, want 10", len(answers))
	}

	questions := scoring.Questions()
	categories := scoring.Categories()
	for i, a := range answers {
		if a.Question != questions[i].Text {
			t.Errorf("answer %d question = %q, want %q", i, a.Question, questions[i].Text)
		}
		if a.Response != string(categories[scores[i]]) {
			t.Errorf("answer %d response = %q, want %q", i, a.Response, categories[scores[i]])
		}
		if a.Score != int(scores[i]) {
			t.Errorf("answer %d score = %d, want %d", i, a.Score, scores[i])
		}
	}
}

func TestStoredBreakdownStopsAtBadScore(t *testing.T) {
	answers := storedBreakdown([]int64{2, 9, 1})
	if len(answers) != 1 {
		t.Fatalf("answers = %d, want 1 before the out-of-range score", len(answers))
	}
}

func TestMapBreakdownCarriesScores(t *testing.T) {
	breakdown := []scoring.QuestionScore{
		{Question: "q1", Response: scoring.ResponseAlways, Score: 4},
		{Question: "q2", Response: scoring.ResponseNever, Score: 0},
	}

	answers := mapBreakdown(breakdown)
	if len(answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(answers))
	}
	if answers[0].Response != "always" || answers[0].Score != 4 {
		t.Errorf("answers[0] = %+v, want always/4", answers[0])
	}

	scores := responseScores(breakdown)
	if scores[0] != 4 || scores[1] != 0 {
		t.Errorf("scores = %v, want [4 0]", scores)
	}
}
