package repository

import (
	"context"
	"errors"
	"time"

	"rethinkclub/internal/cache"
	"rethinkclub/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByStory(ctx context.Context, storyID uint) ([]*models.Comment, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and increments the story's comment counter in the
// same transaction, so the counter cannot drift from the comment rows.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		story, err := lockStory(tx, comment.StoryID)
		if err != nil {
			return err
		}

		if comment.ParentID != nil {
			var parent models.Comment
			err := tx.First(&parent, *comment.ParentID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", *comment.ParentID)
			}
			if err != nil {
				return err
			}
			if parent.StoryID != comment.StoryID {
				return models.NewValidationError("Parent comment belongs to a different story")
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Story{}).
			Where("id = ?", story.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return err
	}

	cache.Invalidate(ctx, cache.StoryKey(comment.StoryID))
	cache.InvalidateStats(ctx)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Comment", id)
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByStory(ctx context.Context, storyID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.First(&comment, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", id)
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}

		// Floor at zero, matching reaction counter semantics
		return tx.Model(&models.Story{}).
			Where("id = ? AND comments_count > 0", comment.StoryID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error
	})
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}

func (r *commentRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("created_at > ?", since).
		Count(&count).Error
	return count, err
}
