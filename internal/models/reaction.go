package models

import (
	"time"

	"gorm.io/gorm"
)

// ReactionKind is the closed set of reactions a reader can leave on a story.
type ReactionKind string

const (
	ReactionHelpful    ReactionKind = "helpful"
	ReactionInspiring  ReactionKind = "inspiring"
	ReactionEyeOpening ReactionKind = "eyeOpening"
)

// Valid reports whether k is one of the three supported kinds.
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionHelpful, ReactionInspiring, ReactionEyeOpening:
		return true
	}
	return false
}

// ReactionAction describes what a toggle call did.
type ReactionAction string

const (
	ReactionAdded   ReactionAction = "added"
	ReactionRemoved ReactionAction = "removed"
	ReactionChanged ReactionAction = "changed"
)

// ReactionCounts is the fixed-shape counter block embedded in every story.
// Counters never go below zero.
type ReactionCounts struct {
	Helpful    int `gorm:"not null;default:0" json:"helpful"`
	Inspiring  int `gorm:"not null;default:0" json:"inspiring"`
	EyeOpening int `gorm:"not null;default:0" json:"eyeOpening"`
}

// Get returns the counter for the given kind.
func (r ReactionCounts) Get(k ReactionKind) int {
	switch k {
	case ReactionHelpful:
		return r.Helpful
	case ReactionInspiring:
		return r.Inspiring
	case ReactionEyeOpening:
		return r.EyeOpening
	}
	return 0
}

func (r *ReactionCounts) set(k ReactionKind, v int) {
	if v < 0 {
		v = 0
	}
	switch k {
	case ReactionHelpful:
		r.Helpful = v
	case ReactionInspiring:
		r.Inspiring = v
	case ReactionEyeOpening:
		r.EyeOpening = v
	}
}

// Toggle applies one reaction toggle to the counters. existing is the kind the
// user currently has on the story, or nil. It returns the updated counters and
// the action taken:
//
//	no existing reaction       -> requested +1, "added"
//	existing == requested      -> requested -1, "removed"
//	existing != requested      -> existing -1, requested +1, "changed"
//
// Decrements floor at zero so a stale interaction row can never drive a
// counter negative.
func (r ReactionCounts) Toggle(existing *ReactionKind, requested ReactionKind) (ReactionCounts, ReactionAction) {
	out := r
	switch {
	case existing == nil:
		out.set(requested, out.Get(requested)+1)
		return out, ReactionAdded
	case *existing == requested:
		out.set(requested, out.Get(requested)-1)
		return out, ReactionRemoved
	default:
		out.set(*existing, out.Get(*existing)-1)
		out.set(requested, out.Get(requested)+1)
		return out, ReactionChanged
	}
}

// Interaction records a user's current reaction on a story. At most one row
// exists per (story, user).
type Interaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	StoryID   uint         `gorm:"not null;uniqueIndex:idx_story_user" json:"story_id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_story_user" json:"user_id"`
	Kind      ReactionKind `gorm:"not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Like is a marker row for a user's like on a story.
// The combination of StoryID and UserID must be unique.
type Like struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StoryID   uint           `gorm:"not null;uniqueIndex:idx_like_story_user" json:"story_id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_like_story_user" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
