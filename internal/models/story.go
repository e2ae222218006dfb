// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// StoryCategory is the closed set of story categories.
type StoryCategory string

const (
	CategoryCareer        StoryCategory = "career"
	CategoryMoney         StoryCategory = "money"
	CategoryHealth        StoryCategory = "health"
	CategoryRelationships StoryCategory = "relationships"
	CategoryPersonal      StoryCategory = "personal"
	CategoryOther         StoryCategory = "other"
)

// Valid reports whether c is a known category.
func (c StoryCategory) Valid() bool {
	switch c {
	case CategoryCareer, CategoryMoney, CategoryHealth,
		CategoryRelationships, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

// AllCategories lists every category, in display order.
func AllCategories() []StoryCategory {
	return []StoryCategory{
		CategoryCareer, CategoryMoney, CategoryHealth,
		CategoryRelationships, CategoryPersonal, CategoryOther,
	}
}

// StoryType classifies the outcome a story describes.
type StoryType string

const (
	StoryTypeGood   StoryType = "good"
	StoryTypeBad    StoryType = "bad"
	StoryTypeLesson StoryType = "lesson"
)

func (t StoryType) Valid() bool {
	switch t {
	case StoryTypeGood, StoryTypeBad, StoryTypeLesson:
		return true
	}
	return false
}

// StoryStatus is the publication state of a story.
type StoryStatus string

const (
	StatusDraft     StoryStatus = "draft"
	StatusPublished StoryStatus = "published"
	StatusArchived  StoryStatus = "archived"
)

// Story represents a shared decision story in the RethinkClub application.
type Story struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	AuthorID   uint   `gorm:"not null;index" json:"author_id"`
	AuthorName string `gorm:"not null" json:"author_name"`
	// IsAnonymous hides the author's real name; AuthorName is then "Anonymous".
	IsAnonymous bool `gorm:"not null;default:false" json:"is_anonymous"`

	Title           string        `gorm:"not null" json:"title"`
	WhatHappened    string        `gorm:"type:text;not null" json:"what_happened"`
	WhatILearned    string        `gorm:"type:text" json:"what_i_learned"`
	AdviceForOthers string        `gorm:"type:text" json:"advice_for_others"`
	Category        StoryCategory `gorm:"not null;index" json:"category"`
	Type            StoryType     `gorm:"not null;index" json:"type"`
	IsPositive      bool          `gorm:"not null;default:false" json:"is_positive"`
	Tags            []string      `gorm:"serializer:json" json:"tags"`

	// Voice recording fields; empty when the story was typed.
	AudioURL          string `json:"audio_url,omitempty"`
	Transcription     string `gorm:"type:text" json:"transcription,omitempty"`
	RecordingDuration int    `json:"recording_duration,omitempty"`
	ImageURL          string `json:"image_url,omitempty"`

	Status StoryStatus `gorm:"not null;default:draft;index" json:"status"`

	Views         int            `gorm:"not null;default:0" json:"views"`
	Likes         int            `gorm:"not null;default:0" json:"likes"`
	CommentsCount int            `gorm:"not null;default:0" json:"comments_count"`
	Reactions     ReactionCounts `gorm:"embedded;embeddedPrefix:reactions_" json:"reactions"`

	// UserReaction is the viewing user's reaction, filled per request; nil when
	// the viewer is unknown or has not reacted.
	UserReaction *ReactionKind `gorm:"-" json:"user_reaction"`

	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
