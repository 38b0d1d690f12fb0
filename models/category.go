package models

import "time"

// Category groups posts by topic. Categories are managed by administrators
// and are soft-unpublished via the IsPublished flag rather than deleted.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`

	Posts []Post `json:"-"`
}
