package services

import (
	"context"
	"log"
	"strings"

	"github.com/intradesk/helpdesk-api/model"
)

// Result limits per source.
const (
	faqMatchLimit     = 3
	contactMatchLimit = 5
	newsMatchLimit    = 5
)

// contactTriggerWords gate the directory lookup: contacts are only searched
// when the query plausibly asks about a person or a way to reach one.
var contactTriggerWords = []string{
	"contact", "phone", "email", "extension", "who is", "manager",
	"director", "supervisor", "reach", "find", "call", "number",
}

// newsTriggerWords gate the announcements lookup.
var newsTriggerWords = []string{
	"news", "announcement", "update", "recent", "latest", "what's new", "happening",
}

// RetrievalService gathers knowledge-base context for a single query across
// the FAQ, directory and news collections. The three sources are independent:
// a failure in one degrades that source's contribution to empty and never
// aborts the others.
type RetrievalService struct {
	faqs     FAQSource
	contacts ContactSource
	news     NewsSource
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(faqs FAQSource, contacts ContactSource, news NewsSource) *RetrievalService {
	return &RetrievalService{
		faqs:     faqs,
		contacts: contacts,
		news:     news,
	}
}

// Gather assembles the retrieval context for one query. It never returns an
// error: each source failure is absorbed into an empty contribution with a
// log line.
func (s *RetrievalService) Gather(ctx context.Context, query string) *RetrievalContext {
	result := &RetrievalContext{}
	lowered := strings.ToLower(query)

	result.FAQMatches = s.gatherFAQs(ctx, query, lowered)

	if containsAny(lowered, contactTriggerWords) {
		result.ContactMatches = s.gatherContacts(ctx, query, lowered)
	}

	if containsAny(lowered, newsTriggerWords) {
		items, err := s.news.Recent(ctx, newsMatchLimit)
		if err != nil {
			log.Printf("Warning: news retrieval failed, continuing without: %v", err)
		} else {
			result.NewsMatches = items
		}
	}

	return result
}

// gatherFAQs tries the indexed text search first and falls back to keyword
// intersection when the index is unavailable. Text search ranks better, but
// it is an optional infrastructure feature; the keyword path keeps retrieval
// working in a minimal deployment.
func (s *RetrievalService) gatherFAQs(ctx context.Context, query, lowered string) []model.FAQEntry {
	entries, err := s.faqs.SearchText(ctx, query, faqMatchLimit)
	if err == nil {
		return entries
	}
	log.Printf("Warning: FAQ text search unavailable, using keyword fallback: %v", err)

	tokens := Tokenize(lowered, 1)
	if len(tokens) == 0 {
		return nil
	}

	entries, err = s.faqs.MatchKeywords(ctx, tokens, tokens[0], faqMatchLimit)
	if err != nil {
		log.Printf("Warning: FAQ keyword fallback failed, continuing without: %v", err)
		return nil
	}
	return entries
}

// gatherContacts applies the same two-tier pattern to the directory.
func (s *RetrievalService) gatherContacts(ctx context.Context, query, lowered string) []model.Contact {
	contacts, err := s.contacts.SearchText(ctx, query, contactMatchLimit)
	if err == nil {
		return contacts
	}
	log.Printf("Warning: contact text search unavailable, using field fallback: %v", err)

	tokens := Tokenize(lowered, 3)
	contacts, err = s.contacts.MatchFields(ctx, tokens, contactMatchLimit)
	if err != nil {
		log.Printf("Warning: contact field fallback failed, continuing without: %v", err)
		return nil
	}
	return contacts
}

// Tokenize splits text into lowercase tokens of at least minLen characters,
// stripping surrounding punctuation.
func Tokenize(text string, minLen int) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var tokens []string
	for _, f := range fields {
		if len(f) >= minLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// containsAny reports whether lowered contains any of the given phrases.
func containsAny(lowered string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
