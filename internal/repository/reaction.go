package repository

import (
	"context"
	"errors"
	"time"

	"rethinkclub/internal/cache"
	"rethinkclub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction and like data operations.
type ReactionRepository interface {
	Apply(ctx context.Context, storyID, userID uint, kind models.ReactionKind) (models.ReactionCounts, models.ReactionAction, error)
	KindsForUser(ctx context.Context, userID uint, storyIDs []uint) (map[uint]models.ReactionKind, error)
	ToggleLike(ctx context.Context, storyID, userID uint) (bool, int, error)
	IsLiked(ctx context.Context, storyID, userID uint) (bool, error)
	CountInteractionsSince(ctx context.Context, since time.Time) (int64, error)
}

// reactionRepository implements ReactionRepository
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// lockStory loads the story row under FOR UPDATE on postgres. Sqlite
// serializes writers on its own, so no row lock is taken there.
func lockStory(tx *gorm.DB, storyID uint) (*models.Story, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var story models.Story
	err := q.First(&story, storyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Story", storyID)
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// Apply toggles the user's reaction on the story inside one transaction:
// lock story, read the current interaction, apply the toggle, write the
// counters back and reconcile the interaction row.
func (r *reactionRepository) Apply(ctx context.Context, storyID, userID uint, kind models.ReactionKind) (models.ReactionCounts, models.ReactionAction, error) {
	var (
		counts models.ReactionCounts
		action models.ReactionAction
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story, err := lockStory(tx, storyID)
		if err != nil {
			return err
		}

		var existing *models.ReactionKind
		var interaction models.Interaction
		err = tx.Where("story_id = ? AND user_id = ?", storyID, userID).
			First(&interaction).Error
		switch {
		case err == nil:
			existing = &interaction.Kind
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first reaction from this user
		default:
			return err
		}

		counts, action = story.Reactions.Toggle(existing, kind)

		if err := tx.Model(&models.Story{}).
			Where("id = ?", storyID).
			Updates(map[string]interface{}{
				"reactions_helpful":     counts.Helpful,
				"reactions_inspiring":   counts.Inspiring,
				"reactions_eye_opening": counts.EyeOpening,
			}).Error; err != nil {
			return err
		}

		switch action {
		case models.ReactionAdded:
			return tx.Create(&models.Interaction{
				StoryID: storyID,
				UserID:  userID,
				Kind:    kind,
			}).Error
		case models.ReactionRemoved:
			return tx.Delete(&interaction).Error
		default: // changed
			return tx.Model(&interaction).Update("kind", kind).Error
		}
	})
	if err != nil {
		return models.ReactionCounts{}, "", err
	}

	cache.Invalidate(ctx, cache.StoryKey(storyID))
	return counts, action, nil
}

// KindsForUser fetches the user's reaction kinds for the given stories in one
// query, keyed by story id.
func (r *reactionRepository) KindsForUser(ctx context.Context, userID uint, storyIDs []uint) (map[uint]models.ReactionKind, error) {
	if len(storyIDs) == 0 {
		return map[uint]models.ReactionKind{}, nil
	}

	var interactions []models.Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id IN ?", userID, storyIDs).
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}

	kinds := make(map[uint]models.ReactionKind, len(interactions))
	for _, in := range interactions {
		kinds[in.StoryID] = in.Kind
	}
	return kinds, nil
}

// ToggleLike flips the user's like marker and mirrors the scalar likes counter
// in the same transaction. Returns the resulting liked state and counter.
func (r *reactionRepository) ToggleLike(ctx context.Context, storyID, userID uint) (bool, int, error) {
	var (
		liked bool
		likes int
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story, err := lockStory(tx, storyID)
		if err != nil {
			return err
		}

		var like models.Like
		err = tx.Where("story_id = ? AND user_id = ?", storyID, userID).
			First(&like).Error
		switch {
		case err == nil:
			// unlike
			if err := tx.Unscoped().Delete(&like).Error; err != nil {
				return err
			}
			likes = story.Likes - 1
			if likes < 0 {
				likes = 0
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{StoryID: storyID, UserID: userID}).Error; err != nil {
				return err
			}
			likes = story.Likes + 1
			liked = true
		default:
			return err
		}

		return tx.Model(&models.Story{}).
			Where("id = ?", storyID).
			UpdateColumn("likes", likes).Error
	})
	if err != nil {
		return false, 0, err
	}

	cache.Invalidate(ctx, cache.StoryKey(storyID))
	return liked, likes, nil
}

func (r *reactionRepository) IsLiked(ctx context.Context, storyID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("story_id = ? AND user_id = ?", storyID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reactionRepository) CountInteractionsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Where("created_at > ?", since).
		Count(&count).Error
	return count, err
}
