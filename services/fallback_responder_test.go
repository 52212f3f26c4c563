package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/intradesk/helpdesk-api/model"
)

func TestFallbackAnswerPrefersTopRetrievalMatch(t *testing.T) {
	faq := faqWithKeywords(1, "How do I book a meeting room?", "Use the room panel or the intranet booking page.", "room", "booking")
	responder := NewFallbackResponder(&fakeFAQSource{})

	retrieved := &RetrievalContext{FAQMatches: []model.FAQEntry{faq}}
	got := responder.Answer(context.Background(), "how do I book a room", retrieved)
	if got != faq.Answer {
		t.Fatalf("expected the top FAQ answer, got %q", got)
	}
}

func TestFallbackAnswerKeywordLookup(t *testing.T) {
	source := &fakeFAQSource{entries: []model.FAQEntry{
		faqWithKeywords(1, "How do I reset my password?",
			"Call the IT helpdesk at extension 100 or use portal.internal/reset.", "password", "reset"),
	}}
	responder := NewFallbackResponder(source)

	got := responder.Answer(context.Background(), "I forgot my password again", &RetrievalContext{})
	if !strings.Contains(got, "extension 100") {
		t.Fatalf("expected the password FAQ answer, got %q", got)
	}
}

func TestFallbackAnswerTopicHeuristics(t *testing.T) {
	responder := NewFallbackResponder(&fakeFAQSource{})

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"emergency", "this is an emergency, someone collapsed", "extension 911"},
		{"emergency wins over clinic", "urgent, I need a doctor", "extension 911"},
		{"hr", "where do I find human resources", "HR front desk"},
		{"it whole token", "is it possible to get a new laptop", "IT helpdesk"},
		{"canteen", "what time does the canteen open", "canteen is open"},
		{"clinic", "I feel sick today", "health clinic"},
		{"leave", "how much vacation do I have left", "Annual leave"},
		{"pay", "when is my salary paid", "Payslips"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := responder.Answer(context.Background(), tc.query, nil)
			if !strings.Contains(got, tc.want) {
				t.Fatalf("query %q: expected answer containing %q, got %q", tc.query, tc.want, got)
			}
		})
	}
}

func TestFallbackAnswerShortTriggersNeedWholeTokens(t *testing.T) {
	responder := NewFallbackResponder(&fakeFAQSource{})

	// "repayment" contains "pay" as a substring; the pay rule must not fire.
	got := responder.Answer(context.Background(), "loan repayment options", nil)
	if got != genericDirectoryAnswer {
		t.Fatalf("substring match fired a topic rule: %q", got)
	}
}

func TestFallbackAnswerGenericDirectory(t *testing.T) {
	responder := NewFallbackResponder(&fakeFAQSource{})

	got := responder.Answer(context.Background(), "zebra parking spaceship", &RetrievalContext{})
	if got != genericDirectoryAnswer {
		t.Fatalf("expected the generic directory answer, got %q", got)
	}
	if got == "" {
		t.Fatal("responder must never return an empty answer")
	}
}

func TestFallbackAnswerSurvivesKeywordLookupFailure(t *testing.T) {
	source := &fakeFAQSource{keywordErr: errors.New("connection refused")}
	responder := NewFallbackResponder(source)

	got := responder.Answer(context.Background(), "where is the canteen", nil)
	if !strings.Contains(got, "canteen is open") {
		t.Fatalf("expected the topic heuristic despite the lookup failure, got %q", got)
	}
}
