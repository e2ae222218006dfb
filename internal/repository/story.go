// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"rethinkclub/internal/cache"
	"rethinkclub/internal/models"

	"gorm.io/gorm"
)

// FeedQuery describes one page request against the story feed.
// Statuses is computed by the caller from the viewer's identity.
type FeedQuery struct {
	Category models.StoryCategory
	Type     models.StoryType
	AuthorID uint
	Statuses []models.StoryStatus
	Cursor   uint
	Limit    int
}

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	IncrementViews(ctx context.Context, id uint) error
	ListFeed(ctx context.Context, q FeedQuery) ([]*models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id uint) error
	CountPublished(ctx context.Context) (int64, error)
	CountPublishedByCategory(ctx context.Context) (map[models.StoryCategory]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// storyRepository implements StoryRepository
type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	err := r.db.WithContext(ctx).Create(story).Error
	if err == nil {
		cache.InvalidateFeeds(ctx)
		cache.InvalidateStats(ctx)
	}
	return err
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).First(&story, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Story", id)
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// IncrementViews bumps the view counter atomically, without read-modify-write.
func (r *storyRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// ListFeed returns up to q.Limit stories matching the filters, newest id first.
// The cursor restricts candidates to ids strictly below it. Callers pass
// pageSize+1 as Limit to detect whether another page exists.
func (r *storyRepository) ListFeed(ctx context.Context, q FeedQuery) ([]*models.Story, error) {
	db := r.db.WithContext(ctx).Model(&models.Story{})

	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.AuthorID != 0 {
		db = db.Where("author_id = ?", q.AuthorID)
	}
	if q.Cursor != 0 {
		db = db.Where("id < ?", q.Cursor)
	}

	var stories []*models.Story
	err := db.Order("id DESC").Limit(q.Limit).Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Save(story).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.StoryKey(story.ID))
	cache.InvalidateFeeds(ctx)
	return nil
}

func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Story{}, id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.StoryKey(id))
	cache.InvalidateFeeds(ctx)
	cache.InvalidateStats(ctx)
	return nil
}

func (r *storyRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("status = ?", models.StatusPublished).
		Count(&count).Error
	return count, err
}

func (r *storyRepository) CountPublishedByCategory(ctx context.Context) (map[models.StoryCategory]int64, error) {
	type row struct {
		Category models.StoryCategory
		Total    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Select("category, COUNT(*) as total").
		Where("status = ?", models.StatusPublished).
		Group("category").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.StoryCategory]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Total
	}
	return counts, nil
}

func (r *storyRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("created_at > ?", since).
		Count(&count).Error
	return count, err
}
