package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is an article written by a user. PubDate may be in the future for
// scheduled publication; until it arrives the post stays hidden from
// everyone except its author.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	CategoryID  uint      `gorm:"index;not null" json:"category_id"`
	LocationID  *uint     `gorm:"index" json:"location_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"index;not null" json:"pub_date"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
	Category Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// OwnerID reports the owning user, satisfying the ownership guard.
func (p *Post) OwnerID() uint { return p.AuthorID }

// PubliclyVisible is the visibility predicate: a post can be read by
// anyone iff it is published, its category is published, and its
// publication time has arrived. Category must be loaded.
func (p *Post) PubliclyVisible(now time.Time) bool {
	return p.IsPublished && p.Category.IsPublished && !p.PubDate.After(now)
}

// VisibleTo extends the public rule with the author bypass: the author may
// always read their own post, published or not.
func (p *Post) VisibleTo(actor *Actor, now time.Time) bool {
	if actor != nil && actor.ID == p.AuthorID {
		return true
	}
	return p.PubliclyVisible(now)
}

// VisibleScope narrows a posts query to publicly visible rows. It is the
// query-level twin of PubliclyVisible and must stay in sync with it.
func VisibleScope(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date <= ?", true, true, now)
	}
}
