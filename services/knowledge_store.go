package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/intradesk/helpdesk-api/model"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GORM-backed implementations of the knowledge source interfaces. Full-text
// search runs against Postgres tsvector expressions; any error from the FTS
// query (missing extension, malformed input) surfaces to the retriever, which
// degrades to the keyword/ILIKE path.

// GormFAQSource reads FAQ entries from Postgres.
type GormFAQSource struct {
	db *gorm.DB
}

// NewGormFAQSource creates a new FAQ source
func NewGormFAQSource(db *gorm.DB) *GormFAQSource {
	return &GormFAQSource{db: db}
}

const faqSearchVector = "to_tsvector('english', question || ' ' || answer || ' ' || array_to_string(keywords, ' '))"

// SearchText runs a ranked full-text search over question+answer+keywords.
func (s *GormFAQSource) SearchText(ctx context.Context, query string, limit int) ([]model.FAQEntry, error) {
	var entries []model.FAQEntry
	err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf(`SELECT * FROM faq_entries
			WHERE deleted_at IS NULL AND is_active = true
			AND %s @@ plainto_tsquery('english', ?)
			ORDER BY ts_rank(%s, plainto_tsquery('english', ?)) DESC
			LIMIT ?`, faqSearchVector, faqSearchVector),
			query, query, limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("faq full-text search failed: %w", err)
	}
	return entries, nil
}

// MatchKeywords is the fallback match: keyword-set intersection or a
// case-insensitive substring hit on the question, in store order.
func (s *GormFAQSource) MatchKeywords(ctx context.Context, tokens []string, firstToken string, limit int) ([]model.FAQEntry, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	var entries []model.FAQEntry
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("keywords && ? OR question ILIKE ?",
			pq.StringArray(tokens), "%"+firstToken+"%").
		Order("rank ASC, id ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("faq keyword match failed: %w", err)
	}
	return entries, nil
}

// FindByKeyword returns the first active entry whose keyword set contains the
// token, or nil when none does.
func (s *GormFAQSource) FindByKeyword(ctx context.Context, token string) (*model.FAQEntry, error) {
	var entry model.FAQEntry
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("? = ANY(keywords)", token).
		Order("rank ASC, id ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("faq keyword lookup failed: %w", err)
	}
	return &entry, nil
}

// GormContactSource reads directory contacts from Postgres.
type GormContactSource struct {
	db *gorm.DB
}

// NewGormContactSource creates a new contact source
func NewGormContactSource(db *gorm.DB) *GormContactSource {
	return &GormContactSource{db: db}
}

const contactSearchVector = "to_tsvector('english', name || ' ' || position || ' ' || department)"

// SearchText runs a ranked full-text search over name/position/department.
func (s *GormContactSource) SearchText(ctx context.Context, query string, limit int) ([]model.Contact, error) {
	var contacts []model.Contact
	err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf(`SELECT * FROM contacts
			WHERE deleted_at IS NULL AND is_active = true
			AND %s @@ plainto_tsquery('english', ?)
			ORDER BY ts_rank(%s, plainto_tsquery('english', ?)) DESC
			LIMIT ?`, contactSearchVector, contactSearchVector),
			query, query, limit).
		Scan(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("contact full-text search failed: %w", err)
	}
	return contacts, nil
}

// MatchFields is the fallback: substring match across name, position and
// department for each token.
func (s *GormContactSource) MatchFields(ctx context.Context, tokens []string, limit int) ([]model.Contact, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	query := s.db.WithContext(ctx).Where("is_active = ?", true)

	var conditions []string
	var args []interface{}
	for _, token := range tokens {
		pattern := "%" + token + "%"
		conditions = append(conditions, "(name ILIKE ? OR position ILIKE ? OR department ILIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	var contacts []model.Contact
	err := query.
		Where(strings.Join(conditions, " OR "), args...).
		Order("department ASC, name ASC").
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("contact field match failed: %w", err)
	}
	return contacts, nil
}

// GormNewsSource reads published announcements from Postgres.
type GormNewsSource struct {
	db *gorm.DB
}

// NewGormNewsSource creates a new news source
func NewGormNewsSource(db *gorm.DB) *GormNewsSource {
	return &GormNewsSource{db: db}
}

// Recent returns the most recently published items, newest first.
func (s *GormNewsSource) Recent(ctx context.Context, limit int) ([]model.NewsItem, error) {
	var items []model.NewsItem
	err := s.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("published_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("news fetch failed: %w", err)
	}
	return items, nil
}
