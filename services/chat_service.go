package services

import (
	"context"
	"log"

	"github.com/intradesk/helpdesk-api/model"
)

// SessionStore is the session lifecycle surface the orchestrator needs.
// Satisfied by *SessionService.
type SessionStore interface {
	GetOrCreate(ctx context.Context, sessionKey string) (*model.ChatSession, error)
	History(ctx context.Context, sessionKey string, limit int) ([]model.ChatMessage, error)
	Append(ctx context.Context, sessionKey string, role model.MessageRole, content string) (*model.ChatMessage, error)
	Clear(ctx context.Context, sessionKey string) error
}

// ContextGatherer assembles retrieval context for a query. Satisfied by
// *RetrievalService.
type ContextGatherer interface {
	Gather(ctx context.Context, query string) *RetrievalContext
}

// Generator is the primary response backend. Satisfied by *GenerationGateway.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, history []model.ChatMessage, retrieved *RetrievalContext) (string, error)
}

// Responder is the deterministic fallback. Satisfied by *FallbackResponder.
type Responder interface {
	Answer(ctx context.Context, query string, retrieved *RetrievalContext) string
}

// ChatService is the public entry point of the assistant backend. It composes
// admission control, session persistence, retrieval and the primary/fallback
// generation strategy into one pipeline; once a message is admitted, the
// pipeline always produces a reply.
type ChatService struct {
	limiter   RateLimiter
	sessions  SessionStore
	retriever ContextGatherer
	generator Generator
	fallback  Responder
}

// NewChatService creates a new chat service
func NewChatService(limiter RateLimiter, sessions SessionStore, retriever ContextGatherer, generator Generator, fallback Responder) *ChatService {
	return &ChatService{
		limiter:   limiter,
		sessions:  sessions,
		retriever: retriever,
		generator: generator,
		fallback:  fallback,
	}
}

// Init bootstraps a session. Idempotent; not rate-limited, so a widget can
// always establish its session even when its message budget is spent.
func (s *ChatService) Init(ctx context.Context, sessionKey string) error {
	_, err := s.sessions.GetOrCreate(ctx, sessionKey)
	return err
}

// Clear drops the session's history while keeping the session itself.
// Idempotent; not rate-limited.
func (s *ChatService) Clear(ctx context.Context, sessionKey string) error {
	return s.sessions.Clear(ctx, sessionKey)
}

// History returns the session's messages in chronological order.
func (s *ChatService) History(ctx context.Context, sessionKey string, limit int) ([]model.ChatMessage, error) {
	return s.sessions.History(ctx, sessionKey, limit)
}

// SendMessage runs the full pipeline for one user turn and returns the reply.
// It fails only with ErrRateLimited (before anything is persisted) or
// ErrSessionNotFound; a generation failure is substituted with the fallback
// answer invisibly to the caller.
func (s *ChatService) SendMessage(ctx context.Context, sessionKey, content string) (string, error) {
	if !s.limiter.Admit(sessionKey) {
		return "", ErrRateLimited
	}

	// A caller disconnect must not abort the pipeline mid-way: the assistant
	// message is appended regardless so history stays consistent. The
	// generation call carries its own timeout.
	opCtx := context.WithoutCancel(ctx)

	if _, err := s.sessions.GetOrCreate(opCtx, sessionKey); err != nil {
		return "", err
	}

	if _, err := s.sessions.Append(opCtx, sessionKey, model.MessageRoleUser, content); err != nil {
		return "", err
	}

	retrieved := s.retriever.Gather(opCtx, content)

	reply := s.resolveReply(opCtx, sessionKey, content, retrieved)

	if _, err := s.sessions.Append(opCtx, sessionKey, model.MessageRoleAssistant, reply); err != nil {
		return "", err
	}

	return reply, nil
}

// resolveReply picks the primary backend when it is configured and quietly
// substitutes the fallback answer when it is absent or errors.
func (s *ChatService) resolveReply(ctx context.Context, sessionKey, content string, retrieved *RetrievalContext) string {
	if s.generator.Available() {
		history, err := s.sessions.History(ctx, sessionKey, historyTurnLimit)
		if err != nil {
			log.Printf("Warning: history fetch for generation failed, using fallback: %v", err)
			return s.fallback.Answer(ctx, content, retrieved)
		}

		reply, err := s.generator.Generate(ctx, history, retrieved)
		if err == nil {
			return reply
		}
		log.Printf("Warning: generation failed, using fallback: %v", err)
	}

	return s.fallback.Answer(ctx, content, retrieved)
}
