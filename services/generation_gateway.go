package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/intradesk/helpdesk-api/model"
	"github.com/intradesk/helpdesk-api/services/anthropic"
)

// historyTurnLimit caps how many past turns are sent to the backend.
const historyTurnLimit = 20

// assistantSystemPrompt is the fixed policy/persona preamble, static per
// deployment.
const assistantSystemPrompt = `You are the internal helpdesk assistant for company staff. You answer questions about IT, HR, facilities, the canteen, the health clinic, leave and payroll.

Rules:
- Answer directly and briefly, in a friendly and professional tone.
- Prefer facts from the provided context block over your own assumptions.
- When you name a department, include its extension if you know it.
- If you do not know the answer, say so and point to the most relevant desk.
- Never invent phone numbers, policies or names.`

// GenerationConfig configures the gateway. APIKeyFunc is consulted on every
// call so that a key added or rotated in the environment takes effect without
// a restart.
type GenerationConfig struct {
	APIKeyFunc func() string
	Model      string
	BaseURL    string
}

// GenerationGateway is the thin adapter to the external language-model API.
// It owns prompt assembly and response extraction; retries, if any, belong to
// the orchestrator's fallback decision, not here.
type GenerationGateway struct {
	config GenerationConfig
}

// NewGenerationGateway creates a gateway reading its key from the environment.
func NewGenerationGateway() *GenerationGateway {
	return &GenerationGateway{
		config: GenerationConfig{
			APIKeyFunc: func() string { return os.Getenv("ANTHROPIC_API_KEY") },
			Model:      os.Getenv("ANTHROPIC_MODEL"),
		},
	}
}

// NewGenerationGatewayWithConfig creates a gateway with explicit configuration.
func NewGenerationGatewayWithConfig(config GenerationConfig) *GenerationGateway {
	return &GenerationGateway{config: config}
}

// Available reports whether the backend is configured.
func (g *GenerationGateway) Available() bool {
	return g.config.APIKeyFunc != nil && g.config.APIKeyFunc() != ""
}

// Generate sends one request to the backend and returns the reply as plain
// text. history is chronological and includes the current user turn as its
// last element; when the retrieval context is non-empty it is injected as a
// bracketed block on that final turn. Every failure mode - transport error,
// non-2xx status, timeout, or a reply without a text block - wraps
// ErrGenerationFailed so callers treat them identically.
func (g *GenerationGateway) Generate(ctx context.Context, history []model.ChatMessage, retrieved *RetrievalContext) (string, error) {
	client := anthropic.NewClient(anthropic.Config{
		APIKey:  g.config.APIKeyFunc(),
		Model:   g.config.Model,
		BaseURL: g.config.BaseURL,
	})

	messages := g.buildMessages(history, retrieved)

	resp, err := client.CreateMessage(ctx, anthropic.MessagesRequest{
		System:   assistantSystemPrompt,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text := resp.ExtractText()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: reply contained no text content block", ErrGenerationFailed)
	}

	return text, nil
}

// buildMessages maps the stored history onto API turns, trimmed to the most
// recent turns, oldest first.
func (g *GenerationGateway) buildMessages(history []model.ChatMessage, retrieved *RetrievalContext) []anthropic.Message {
	if len(history) > historyTurnLimit {
		history = history[len(history)-historyTurnLimit:]
	}

	var messages []anthropic.Message
	for _, msg := range history {
		// System rows are persisted bookkeeping, not conversation turns.
		if msg.Role == model.MessageRoleSystem {
			continue
		}
		messages = append(messages, anthropic.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	if len(messages) == 0 {
		return messages
	}

	last := &messages[len(messages)-1]
	if last.Role == string(model.MessageRoleUser) && retrieved != nil && !retrieved.IsEmpty() {
		last.Content = fmt.Sprintf("%s\n\n[Context from the internal knowledge base:\n%s]",
			last.Content, retrieved.Render())
	}

	return messages
}
