// Package chatbot answers support questions about the screening tool. A
// deterministic keyword matcher is always available; when an Anthropic API
// key is configured the Claude assistant answers instead, with the matcher
// kept as a fallback so the endpoint stays up when the API is not.
package chatbot

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/earlysigns/backend/internal/config"
	"github.com/earlysigns/backend/internal/metrics"
	"github.com/earlysigns/backend/internal/models"
)

// Reply sources, used in responses and as the metrics label.
const (
	SourceKeyword = "keyword"
	SourceClaude  = "claude"
)

// ErrEmptyMessage is returned when the message is blank after trimming.
var ErrEmptyMessage = errors.New("message must not be empty")

// disclaimer is appended to every reply exactly once.
const disclaimer = "This assistant shares general information only and cannot diagnose autism. Please discuss any concerns about your child with a qualified healthcare professional."

// Responder is the interface both chat implementations satisfy.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Service routes chat messages to the configured responder and guarantees
// every reply carries the disclaimer.
type Service struct {
	responder Responder
	fallback  *KeywordResponder
	source    string
	metrics   *metrics.Metrics
}

func NewService(cfg *config.Config, m *metrics.Metrics) *Service {
	keyword := NewKeywordResponder()
	svc := &Service{responder: keyword, fallback: keyword, source: SourceKeyword, metrics: m}

	if cfg.AnthropicAPIKey != "" {
		svc.responder = NewClaudeResponder(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		svc.source = SourceClaude
		log.Println("Chat assistant using Anthropic API:", cfg.AnthropicModel)
	} else {
		log.Println("Chat assistant using keyword matcher")
	}
	return svc
}

// Reply answers a single message. A failing assistant downgrades to the
// keyword matcher rather than failing the request.
func (s *Service) Reply(ctx context.Context, message string) (models.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.ChatResponse{}, ErrEmptyMessage
	}

	source := s.source
	reply, err := s.responder.Reply(ctx, message)
	if err != nil {
		log.Printf("WARN: chat assistant failed, using keyword matcher: %v", err)
		reply, _ = s.fallback.Reply(ctx, message)
		source = SourceKeyword
	}

	if s.metrics != nil {
		s.metrics.ChatReplies.WithLabelValues(source).Inc()
	}
	return models.ChatResponse{Reply: withDisclaimer(reply), Source: source}, nil
}

func withDisclaimer(reply string) string {
	if strings.Contains(reply, disclaimer) {
		return reply
	}
	return reply + "\n\n" + disclaimer
}
