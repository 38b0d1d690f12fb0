package models

import "time"

// Comment is a reply under a post. Comments have no draft state and are
// visible as soon as they are created, listed oldest first.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}

// OwnerID reports the owning user, satisfying the ownership guard.
func (c *Comment) OwnerID() uint { return c.AuthorID }
