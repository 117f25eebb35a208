package chatbot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const claudeSystemPrompt = `You are the support assistant for an early-signs autism screening service used by parents and caregivers. Answer briefly and warmly in plain language. You may explain how the ten-question screening works, what the risk levels and percentages mean, and share general information about autism spectrum disorder. You must never diagnose, rule out, or assess any individual child, and you must encourage consulting a qualified healthcare professional for any concern. If a question is outside these topics, say so politely and steer back to them.`

// ClaudeResponder answers chat messages through the Anthropic API.
type ClaudeResponder struct {
	client *anthropic.Client
	model  string
}

func NewClaudeResponder(apiKey, model string) *ClaudeResponder {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &ClaudeResponder{client: &client, model: model}
}

func (c *ClaudeResponder) Reply(ctx context.Context, message string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   1024,
		Temperature: param.NewOpt(0.3),
		System: []anthropic.TextBlockParam{
			{Text: claudeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	}

	reply, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}
	log.Printf("Anthropic API usage: %d input tokens, %d output tokens",
		reply.Usage.InputTokens, reply.Usage.OutputTokens)

	for _, block := range reply.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}

func (c *ClaudeResponder) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}
