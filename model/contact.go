package model

import (
	"time"

	"gorm.io/gorm"
)

// Contact is a directory entry for a staff member or department desk.
type Contact struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Position   string         `gorm:"type:varchar(255)" json:"position"`
	Department string         `gorm:"type:varchar(255);index" json:"department"`
	Phone      string         `gorm:"type:varchar(50)" json:"phone"`
	Extension  string         `gorm:"type:varchar(20)" json:"extension"`
	Email      string         `gorm:"type:varchar(255)" json:"email"`
	IsActive   bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
