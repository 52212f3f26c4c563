package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NewsItem is an internal announcement. Recency is the only relevance signal
// the retriever uses, so no search index is kept for this table.
type NewsItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Summary     string         `gorm:"type:text" json:"summary"`
	Body        string         `gorm:"type:text" json:"body"`
	Tags        datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for NewsItem
func (NewsItem) TableName() string {
	return "news_items"
}
