package services

import (
	"fmt"
	"strings"

	"github.com/intradesk/helpdesk-api/model"
)

// RetrievalContext is the transient bundle of matched knowledge-base content
// assembled per request. It is built fresh on every call, rendered into the
// prompt, and discarded; it is never stored.
type RetrievalContext struct {
	FAQMatches     []model.FAQEntry
	ContactMatches []model.Contact
	NewsMatches    []model.NewsItem
}

// IsEmpty reports whether no source contributed anything.
func (c *RetrievalContext) IsEmpty() bool {
	return len(c.FAQMatches) == 0 && len(c.ContactMatches) == 0 && len(c.NewsMatches) == 0
}

// TopFAQ returns the best-ranked FAQ match, or nil.
func (c *RetrievalContext) TopFAQ() *model.FAQEntry {
	if len(c.FAQMatches) == 0 {
		return nil
	}
	return &c.FAQMatches[0]
}

// Render emits the labeled context block injected into the generation prompt.
// Section order is fixed: FAQ, then contacts, then news, so the model can
// attribute content to its source.
func (c *RetrievalContext) Render() string {
	if c.IsEmpty() {
		return ""
	}

	var b strings.Builder

	if len(c.FAQMatches) > 0 {
		b.WriteString("FAQ entries:\n")
		for _, faq := range c.FAQMatches {
			fmt.Fprintf(&b, "- Q: %s\n  A: %s\n", faq.Question, faq.Answer)
		}
	}

	if len(c.ContactMatches) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Directory contacts:\n")
		for _, contact := range c.ContactMatches {
			fmt.Fprintf(&b, "- %s, %s (%s): phone %s ext %s, %s\n",
				contact.Name, contact.Position, contact.Department,
				contact.Phone, contact.Extension, contact.Email)
		}
	}

	if len(c.NewsMatches) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Recent announcements:\n")
		for _, item := range c.NewsMatches {
			line := fmt.Sprintf("- %s", item.Title)
			if item.PublishedAt != nil {
				line += fmt.Sprintf(" (%s)", item.PublishedAt.Format("Jan 2, 2006"))
			}
			if item.Summary != "" {
				line += ": " + item.Summary
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}
