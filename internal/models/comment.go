// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a story. ParentID is set for a one-level
// reply; deeper nesting is flattened by the client.
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	StoryID    uint           `gorm:"not null;index" json:"story_id"`
	AuthorID   uint           `gorm:"not null" json:"author_id"`
	AuthorName string         `gorm:"not null" json:"author_name"`
	Text       string         `gorm:"type:text;not null" json:"text"`
	ParentID   *uint          `gorm:"index" json:"parent_id,omitempty"`
	Likes      int            `gorm:"not null;default:0" json:"likes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
