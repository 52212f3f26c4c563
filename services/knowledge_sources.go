package services

import (
	"context"

	"github.com/intradesk/helpdesk-api/model"
)

// The retriever talks to each knowledge collection through a narrow source
// interface so that "index unavailable" stays distinguishable from "no rows"
// and each source can be exercised in isolation.

// FAQSource reads active FAQ entries.
type FAQSource interface {
	// SearchText runs the indexed full-text search. It returns an error when
	// the search capability itself is unavailable; the retriever then falls
	// back to MatchKeywords.
	SearchText(ctx context.Context, query string, limit int) ([]model.FAQEntry, error)

	// MatchKeywords matches entries whose keyword set intersects tokens, or
	// whose question contains firstToken as a case-insensitive substring.
	// Results come back in store order.
	MatchKeywords(ctx context.Context, tokens []string, firstToken string, limit int) ([]model.FAQEntry, error)

	// FindByKeyword returns the first active entry carrying the given
	// keyword token, or nil when none does.
	FindByKeyword(ctx context.Context, token string) (*model.FAQEntry, error)
}

// ContactSource reads active directory contacts.
type ContactSource interface {
	SearchText(ctx context.Context, query string, limit int) ([]model.Contact, error)
	MatchFields(ctx context.Context, tokens []string, limit int) ([]model.Contact, error)
}

// NewsSource reads published announcements.
type NewsSource interface {
	Recent(ctx context.Context, limit int) ([]model.NewsItem, error)
}
