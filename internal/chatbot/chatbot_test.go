package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/earlysigns/backend/internal/config"
)

func TestKeywordRules(t *testing.T) {
	k := NewKeywordResponder()

	tests := []struct {
		message string
		want    string
	}{
		{"Hello there", "Hello!"},
		{"hey", "Hello!"},
		{"What is autism?", "spectrum disorder"},
		{"Should I see a doctor?", "qualified professional"},
		{"Is this a diagnosis?", "qualified professional"},
		{"What does my score mean?", "risk percentage"},
		{"How does this work?", "ten questions"},
		{"how long does the questionnaire take", "ten questions"},
		{"Thanks!", "You're welcome"},
		{"qwerty zxcvb", "rephrase"},
	}

	for _, tt := range tests {
		reply, err := k.Reply(context.Background(), tt.message)
		if err != nil {
			t.Fatalf("Reply(%q): %v", tt.message, err)
		}
		if !strings.Contains(reply, tt.want) {
			t.Errorf("Reply(%q) = %q, want it to contain %q", tt.message, reply, tt.want)
		}
	}
}

func TestKeywordMatchesWholeWordsOnly(t *testing.T) {
	k := NewKeywordResponder()

	// "this" contains "hi" but must not fire the greeting rule.
	reply, _ := k.Reply(context.Background(), "this is unrelated")
	if strings.Contains(reply, "Hello!") {
		t.Fatalf("greeting rule fired on a substring match: %q", reply)
	}
}

func TestKeywordFirstMatchWins(t *testing.T) {
	k := NewKeywordResponder()

	// Mentions both a score and autism; the results rule is ordered first.
	reply, _ := k.Reply(context.Background(), "Does a high score mean my child has autism?")
	if !strings.Contains(reply, "not a diagnosis") {
		t.Fatalf("expected the results rule to win, got %q", reply)
	}

	// The referral rule outranks the results rule.
	reply, _ = k.Reply(context.Background(), "Can a doctor explain my results?")
	if !strings.Contains(reply, "qualified professional") {
		t.Fatalf("expected the referral rule to win, got %q", reply)
	}
}

func TestServiceAppendsDisclaimerOnce(t *testing.T) {
	svc := NewService(&config.Config{}, nil)

	resp, err := svc.Reply(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if resp.Source != SourceKeyword {
		t.Errorf("source = %q, want %q", resp.Source, SourceKeyword)
	}
	if got := strings.Count(resp.Reply, disclaimer); got != 1 {
		t.Errorf("disclaimer appears %d times, want 1", got)
	}
}

type stubResponder struct{ reply string }

func (s stubResponder) Reply(context.Context, string) (string, error) { return s.reply, nil }

func TestServiceDoesNotDoubleDisclaimer(t *testing.T) {
	svc := &Service{
		responder: stubResponder{reply: "General information.\n\n" + disclaimer},
		fallback:  NewKeywordResponder(),
		source:    SourceClaude,
	}

	resp, err := svc.Reply(context.Background(), "tell me more")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got := strings.Count(resp.Reply, disclaimer); got != 1 {
		t.Errorf("disclaimer appears %d times, want 1", got)
	}
}

type failingResponder struct{}

func (failingResponder) Reply(context.Context, string) (string, error) {
	return "", errors.New("api unreachable")
}

func TestServiceFallsBackOnAssistantError(t *testing.T) {
	svc := &Service{
		responder: failingResponder{},
		fallback:  NewKeywordResponder(),
		source:    SourceClaude,
	}

	resp, err := svc.Reply(context.Background(), "what is autism")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if resp.Source != SourceKeyword {
		t.Errorf("source = %q, want %q after fallback", resp.Source, SourceKeyword)
	}
	if !strings.Contains(resp.Reply, "spectrum disorder") {
		t.Errorf("fallback reply = %q, want the keyword answer", resp.Reply)
	}
	if got := strings.Count(resp.Reply, disclaimer); got != 1 {
		t.Errorf("disclaimer appears %d times, want 1", got)
	}
}

func TestServiceRejectsEmptyMessage(t *testing.T) {
	svc := NewService(&config.Config{}, nil)

	if _, err := svc.Reply(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}
