package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/intradesk/helpdesk-api/model"
)

func newTestChatService(limiter RateLimiter, generator Generator, faqs *fakeFAQSource) (*ChatService, *memorySessionStore) {
	store := newMemorySessionStore()
	retriever := NewRetrievalService(faqs, &fakeContactSource{}, &fakeNewsSource{})
	fallback := NewFallbackResponder(faqs)
	return NewChatService(limiter, store, retriever, generator, fallback), store
}

func TestSendMessagePersistsBothTurns(t *testing.T) {
	gen := &fakeGenerator{available: true, reply: "Here is what I found."}
	svc, _ := newTestChatService(admitAll{}, gen, &fakeFAQSource{})

	reply, err := svc.SendMessage(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply != "Here is what I found." {
		t.Fatalf("unexpected reply %q", reply)
	}

	history, err := svc.History(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(history))
	}
	if history[0].Role != model.MessageRoleUser || history[0].Content != "hello" {
		t.Fatalf("first message is not the user turn: %+v", history[0])
	}
	if history[1].Role != model.MessageRoleAssistant || history[1].Content != reply {
		t.Fatalf("second message is not the assistant turn: %+v", history[1])
	}
}

func TestSendMessageGenerationFailureIsInvisible(t *testing.T) {
	gen := &fakeGenerator{available: true, err: errors.New("upstream 500")}
	faqs := &fakeFAQSource{entries: []model.FAQEntry{
		faqWithKeywords(1, "How do I reset my password?",
			"Call the IT helpdesk at extension 100 or use portal.internal/reset.", "password", "reset"),
	}}
	svc, _ := newTestChatService(admitAll{}, gen, faqs)

	reply, err := svc.SendMessage(context.Background(), "s1", "I forgot my password")
	if err != nil {
		t.Fatalf("a generation failure must not surface to the caller: %v", err)
	}
	if !strings.Contains(reply, "extension 100") {
		t.Fatalf("expected the fallback FAQ answer, got %q", reply)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generation attempt, got %d", gen.calls)
	}

	// The substituted answer is persisted like any other assistant turn.
	history, err := svc.History(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 || history[1].Content != reply {
		t.Fatalf("fallback answer not persisted: %+v", history)
	}
}

func TestSendMessageUnavailableGeneratorSkipsBackend(t *testing.T) {
	gen := &fakeGenerator{available: false}
	svc, _ := newTestChatService(admitAll{}, gen, &fakeFAQSource{})

	reply, err := svc.SendMessage(context.Background(), "s1", "zebra spaceship")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply != genericDirectoryAnswer {
		t.Fatalf("expected the generic directory answer, got %q", reply)
	}
	if gen.calls != 0 {
		t.Fatal("an unconfigured backend must never be called")
	}
}

func TestSendMessageEmergencyQuery(t *testing.T) {
	gen := &fakeGenerator{available: false}
	svc, _ := newTestChatService(admitAll{}, gen, &fakeFAQSource{})

	reply, err := svc.SendMessage(context.Background(), "s1", "emergency, someone is hurt")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !strings.Contains(reply, "extension 911") {
		t.Fatalf("expected the emergency answer, got %q", reply)
	}
}

func TestSendMessageRateLimitBeforePersistence(t *testing.T) {
	limiter, _ := newTestLimiter()
	gen := &fakeGenerator{available: false}
	svc, store := newTestChatService(limiter, gen, &fakeFAQSource{})

	for i := 1; i <= RateWindowCap; i++ {
		if _, err := svc.SendMessage(context.Background(), "s1", "ping"); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}

	_, err := svc.SendMessage(context.Background(), "s1", "one too many")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// Ten admitted turns, two rows each; the rejected one left no trace.
	if got := store.count("s1"); got != 2*RateWindowCap {
		t.Fatalf("expected %d persisted messages, got %d", 2*RateWindowCap, got)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	limiter, _ := newTestLimiter()
	gen := &fakeGenerator{available: false}
	svc, _ := newTestChatService(limiter, gen, &fakeFAQSource{})

	for i := 0; i < RateWindowCap; i++ {
		if _, err := svc.SendMessage(context.Background(), "s1", "ping"); err != nil {
			t.Fatalf("s1 call failed: %v", err)
		}
	}
	if _, err := svc.SendMessage(context.Background(), "s1", "ping"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected s1 to be limited, got %v", err)
	}

	// s2 is unaffected by s1's window and keeps its own history.
	if _, err := svc.SendMessage(context.Background(), "s2", "hello from s2"); err != nil {
		t.Fatalf("s2 must not share s1's window: %v", err)
	}

	history, err := svc.History(context.Background(), "s2", 50)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages in s2, got %d", len(history))
	}
	for _, msg := range history {
		if strings.Contains(msg.Content, "ping") {
			t.Fatalf("s1 content leaked into s2: %+v", msg)
		}
	}
}

func TestClearIsIdempotentAndKeepsSession(t *testing.T) {
	gen := &fakeGenerator{available: false}
	svc, _ := newTestChatService(admitAll{}, gen, &fakeFAQSource{})

	if _, err := svc.SendMessage(context.Background(), "s1", "hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if err := svc.Clear(context.Background(), "s1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := svc.Clear(context.Background(), "s1"); err != nil {
		t.Fatalf("second Clear must be a no-op, got %v", err)
	}

	history, err := svc.History(context.Background(), "s1", 10)
	if err != nil {
		t.Fatalf("the session must survive Clear: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history after Clear, got %d messages", len(history))
	}

	// The cleared session accepts new messages without re-init.
	if _, err := svc.SendMessage(context.Background(), "s1", "fresh start"); err != nil {
		t.Fatalf("SendMessage after Clear failed: %v", err)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	gen := &fakeGenerator{available: false}
	svc, _ := newTestChatService(admitAll{}, gen, &fakeFAQSource{})

	if _, err := svc.History(context.Background(), "ghost", 10); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestInitIsIdempotentAndNotRateLimited(t *testing.T) {
	limiter, _ := newTestLimiter()
	gen := &fakeGenerator{available: false}
	svc, _ := newTestChatService(limiter, gen, &fakeFAQSource{})

	for i := 0; i < RateWindowCap; i++ {
		svc.SendMessage(context.Background(), "s1", "ping")
	}

	// The message budget is spent; Init still succeeds.
	if err := svc.Init(context.Background(), "s1"); err != nil {
		t.Fatalf("Init must not be rate limited: %v", err)
	}
	if err := svc.Init(context.Background(), "s1"); err != nil {
		t.Fatalf("repeated Init failed: %v", err)
	}
}

func TestSendMessagePassesHistoryToGenerator(t *testing.T) {
	gen := &fakeGenerator{available: true, reply: "ok"}
	svc, _ := newTestChatService(admitAll{}, gen, &fakeFAQSource{})

	if _, err := svc.SendMessage(context.Background(), "s1", "first"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), "s1", "second"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	// On the second turn the generator sees user, assistant, user.
	if len(gen.lastHistory) != 3 {
		t.Fatalf("expected 3 history turns, got %d", len(gen.lastHistory))
	}
	last := gen.lastHistory[len(gen.lastHistory)-1]
	if last.Role != model.MessageRoleUser || last.Content != "second" {
		t.Fatalf("history must end with the current user turn: %+v", last)
	}
}
