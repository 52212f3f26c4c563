package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/intradesk/helpdesk-api/model"
	"github.com/lib/pq"
)

// In-memory doubles shared by the service tests. They satisfy the same
// interfaces the wiring in router/main.go satisfies with the GORM-backed
// implementations, so the pipeline under test is the real one.

var errIndexDown = errors.New("text search index unavailable")

type fakeFAQSource struct {
	entries    []model.FAQEntry
	searchErr  error
	keywordErr error

	searchCalls  int
	keywordCalls int
}

func (f *fakeFAQSource) SearchText(_ context.Context, query string, limit int) ([]model.FAQEntry, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []model.FAQEntry
	for _, e := range f.entries {
		for _, token := range Tokenize(query, 3) {
			if e.HasKeyword(token) {
				out = append(out, e)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeFAQSource) MatchKeywords(_ context.Context, tokens []string, _ string, limit int) ([]model.FAQEntry, error) {
	f.keywordCalls++
	if f.keywordErr != nil {
		return nil, f.keywordErr
	}
	var out []model.FAQEntry
	for _, e := range f.entries {
		for _, token := range tokens {
			if e.HasKeyword(token) {
				out = append(out, e)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeFAQSource) FindByKeyword(_ context.Context, token string) (*model.FAQEntry, error) {
	if f.keywordErr != nil {
		return nil, f.keywordErr
	}
	for i := range f.entries {
		if f.entries[i].HasKeyword(token) {
			return &f.entries[i], nil
		}
	}
	return nil, nil
}

type fakeContactSource struct {
	contacts  []model.Contact
	searchErr error
	fieldErr  error
}

func (f *fakeContactSource) SearchText(_ context.Context, _ string, limit int) ([]model.Contact, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.contacts) > limit {
		return f.contacts[:limit], nil
	}
	return f.contacts, nil
}

func (f *fakeContactSource) MatchFields(_ context.Context, _ []string, limit int) ([]model.Contact, error) {
	if f.fieldErr != nil {
		return nil, f.fieldErr
	}
	if len(f.contacts) > limit {
		return f.contacts[:limit], nil
	}
	return f.contacts, nil
}

type fakeNewsSource struct {
	items []model.NewsItem
	err   error
}

func (f *fakeNewsSource) Recent(_ context.Context, limit int) ([]model.NewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

// memorySessionStore keeps sessions and messages in maps. Clear keeps the
// session row, matching the persistent implementation.
type memorySessionStore struct {
	mu       sync.Mutex
	messages map[string][]model.ChatMessage
	nextID   uint
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{messages: make(map[string][]model.ChatMessage)}
}

func (s *memorySessionStore) GetOrCreate(_ context.Context, sessionKey string) (*model.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[sessionKey]; !ok {
		s.messages[sessionKey] = nil
	}
	return &model.ChatSession{SessionKey: sessionKey}, nil
}

func (s *memorySessionStore) History(_ context.Context, sessionKey string, limit int) ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, ok := s.messages[sessionKey]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]model.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *memorySessionStore) Append(_ context.Context, sessionKey string, role model.MessageRole, content string) (*model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[sessionKey]; !ok {
		return nil, ErrSessionNotFound
	}
	s.nextID++
	msg := model.ChatMessage{ID: s.nextID, Role: role, Content: content}
	s.messages[sessionKey] = append(s.messages[sessionKey], msg)
	return &msg, nil
}

func (s *memorySessionStore) Clear(_ context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[sessionKey]; !ok {
		return ErrSessionNotFound
	}
	s.messages[sessionKey] = nil
	return nil
}

func (s *memorySessionStore) count(sessionKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages[sessionKey])
}

// admitAll is a limiter that never rejects.
type admitAll struct{}

func (admitAll) Admit(string) bool { return true }

// fakeGenerator scripts the primary backend.
type fakeGenerator struct {
	available bool
	reply     string
	err       error

	calls       int
	lastHistory []model.ChatMessage
}

func (g *fakeGenerator) Available() bool { return g.available }

func (g *fakeGenerator) Generate(_ context.Context, history []model.ChatMessage, _ *RetrievalContext) (string, error) {
	g.calls++
	g.lastHistory = history
	if g.err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, g.err)
	}
	return g.reply, nil
}

func faqWithKeywords(id uint, question, answer string, keywords ...string) model.FAQEntry {
	return model.FAQEntry{
		ID:       id,
		Question: question,
		Answer:   answer,
		Keywords: pq.StringArray(keywords),
		IsActive: true,
	}
}
