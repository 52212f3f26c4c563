package services

import (
	"context"
	"log"
	"strings"
)

// topicRule maps a set of trigger words to a canned paragraph. Rules are
// checked in priority order; the first match wins.
type topicRule struct {
	name   string
	words  []string
	answer string
}

// topicRules is the fixed specificity cascade used when neither the retrieval
// context nor a keyword lookup produced an FAQ answer.
var topicRules = []topicRule{
	{
		name:  "emergency",
		words: []string{"emergency", "urgent"},
		answer: "For any emergency, call Security immediately at extension 911 (internal) or +1 555 0911 from a mobile phone. " +
			"Security is staffed around the clock and will dispatch first aid or escalate to external services as needed.",
	},
	{
		name:  "hr",
		words: []string{"hr", "human resources"},
		answer: "The HR front desk is at extension 200 (hr@internal), open Monday to Friday 09:00-17:00. " +
			"For leave requests, payslips and personal data changes, use the HR portal first; the desk handles everything the portal cannot.",
	},
	{
		name:  "it",
		words: []string{"it", "computer", "password"},
		answer: "The IT helpdesk is at extension 100 (it@internal). Password resets are self-service at portal.internal/reset; " +
			"for hardware, access or software issues, raise a ticket or call the desk directly.",
	},
	{
		name:  "canteen",
		words: []string{"canteen", "food", "lunch"},
		answer: "The canteen is open Monday to Friday 07:30-15:00, with hot lunch served 11:30-13:30. " +
			"The weekly menu is posted on the intranet under Facilities.",
	},
	{
		name:  "clinic",
		words: []string{"clinic", "medical", "doctor", "sick"},
		answer: "The occupational health clinic is at extension 400 (clinic@internal), open Monday to Friday 08:00-16:00. " +
			"If you are unwell during working hours, go to the clinic or call ahead; report sick days to your manager and HR as usual.",
	},
	{
		name:  "leave",
		words: []string{"leave", "vacation", "time off"},
		answer: "Annual leave is requested through the HR portal, ideally two weeks in advance; your manager approves it from their dashboard. " +
			"Your remaining balance is shown on the portal's overview page.",
	},
	{
		name:  "pay",
		words: []string{"pay", "salary", "wage"},
		answer: "Payslips are published in the HR portal under Documents on the last working day of each month. " +
			"For questions about your pay, contact payroll through the HR front desk at extension 200.",
	},
}

// genericDirectoryAnswer is the last-resort reply. The responder never
// returns an empty string.
const genericDirectoryAnswer = "I could not find a specific answer, but one of these desks should be able to help:\n" +
	"- IT helpdesk: ext 100, it@internal\n" +
	"- HR front desk: ext 200, hr@internal\n" +
	"- Facilities: ext 300, facilities@internal\n" +
	"- Health clinic: ext 400, clinic@internal\n" +
	"- Security (24/7): ext 911\n" +
	"You can also rephrase your question and I will try again."

// FallbackResponder produces a deterministic, rule-based answer whenever the
// generation backend is unconfigured or fails. The resolution order is a
// specificity cascade: matched FAQ answer, then keyword-looked-up FAQ answer,
// then topic heuristic, then the generic directory.
type FallbackResponder struct {
	faqs FAQSource
}

// NewFallbackResponder creates a new fallback responder
func NewFallbackResponder(faqs FAQSource) *FallbackResponder {
	return &FallbackResponder{faqs: faqs}
}

// Answer resolves a reply for the query. Each step is only attempted when the
// previous one produced nothing; the result is never empty.
func (r *FallbackResponder) Answer(ctx context.Context, query string, retrieved *RetrievalContext) string {
	// 1. Top retrieval match wins outright.
	if retrieved != nil {
		if faq := retrieved.TopFAQ(); faq != nil {
			return faq.Answer
		}
	}

	// 2. Direct keyword lookup, tokens in input order.
	for _, token := range Tokenize(query, 3) {
		faq, err := r.faqs.FindByKeyword(ctx, token)
		if err != nil {
			log.Printf("Warning: fallback keyword lookup failed for %q: %v", token, err)
			break
		}
		if faq != nil {
			return faq.Answer
		}
	}

	// 3. Topic heuristics in priority order.
	lowered := strings.ToLower(query)
	tokens := Tokenize(lowered, 1)
	for _, rule := range topicRules {
		if matchesTopic(lowered, tokens, rule.words) {
			return rule.answer
		}
	}

	// 4. Generic directory.
	return genericDirectoryAnswer
}

// matchesTopic reports whether the query mentions one of the rule's words.
// Single-word triggers match whole tokens so that short ones like "it" and
// "pay" do not fire on substrings; multi-word triggers use substring search.
func matchesTopic(lowered string, tokens []string, words []string) bool {
	for _, word := range words {
		if strings.Contains(word, " ") {
			if strings.Contains(lowered, word) {
				return true
			}
			continue
		}
		for _, token := range tokens {
			if token == word {
				return true
			}
		}
	}
	return false
}
