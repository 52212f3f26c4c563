package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FAQEntry is a question/answer pair used both as retrieval context for the
// generation backend and as a direct fallback answer. Entries are managed by
// the admin surface; this subsystem only reads them. Keywords are stored as
// lowercase tokens.
type FAQEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Question  string         `gorm:"type:text;not null" json:"question"`
	Answer    string         `gorm:"type:text;not null" json:"answer"`
	Category  string         `gorm:"type:varchar(100)" json:"category"`
	Keywords  pq.StringArray `gorm:"type:text[]" json:"keywords"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	Rank      int            `gorm:"default:0" json:"rank"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for FAQEntry
func (FAQEntry) TableName() string {
	return "faq_entries"
}

// HasKeyword reports whether the entry's keyword set contains the given
// lowercase token.
func (f *FAQEntry) HasKeyword(token string) bool {
	for _, kw := range f.Keywords {
		if kw == token {
			return true
		}
	}
	return false
}
