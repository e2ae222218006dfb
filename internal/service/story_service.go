package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"rethinkclub/internal/cache"
	"rethinkclub/internal/models"
	"rethinkclub/internal/observability"
	"rethinkclub/internal/repository"
	"rethinkclub/internal/validation"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50

	maxTitleLen = 300
	maxBodyLen  = 50000
)

type StoryService struct {
	storyRepo    repository.StoryRepository
	reactionRepo repository.ReactionRepository
}

type CreateStoryInput struct {
	AuthorID        uint
	AuthorName      string
	IsAnonymous     bool
	Title           string
	WhatHappened    string
	WhatILearned    string
	AdviceForOthers string
	Category        models.StoryCategory
	Type            models.StoryType
	IsPositive      bool
	Tags            []string
	AudioURL        string
	Transcription   string
	RecordingDur    int
	ImageURL        string
	Status          models.StoryStatus
}

type UpdateStoryInput struct {
	StoryID         uint
	UserID          uint
	Title           string
	WhatHappened    string
	WhatILearned    string
	AdviceForOthers string
	Category        models.StoryCategory
	Type            models.StoryType
	Tags            []string
	ImageURL        string
	Status          models.StoryStatus
}

type ListStoriesInput struct {
	Category      models.StoryCategory
	Type          models.StoryType
	AuthorID      uint
	ViewingUserID uint
	Cursor        uint
	PageSize      int
}

// FeedPage is one page of the story feed.
type FeedPage struct {
	Items      []*models.Story `json:"items"`
	NextCursor *uint           `json:"nextCursor,omitempty"`
	HasMore    bool            `json:"hasMore"`
	Total      int             `json:"total"`
}

func NewStoryService(storyRepo repository.StoryRepository, reactionRepo repository.ReactionRepository) *StoryService {
	return &StoryService{storyRepo: storyRepo, reactionRepo: reactionRepo}
}

func (s *StoryService) CreateStory(ctx context.Context, in CreateStoryInput) (*models.Story, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.WhatHappened) == "" {
		return nil, models.NewValidationError("What happened is required")
	}
	if len(in.WhatHappened) > maxBodyLen || len(in.WhatILearned) > maxBodyLen || len(in.AdviceForOthers) > maxBodyLen {
		return nil, models.NewValidationError("Story text too long (max 50000 characters)")
	}
	if !in.Category.Valid() {
		return nil, models.NewValidationError("Invalid category")
	}
	if !in.Type.Valid() {
		return nil, models.NewValidationError("Invalid type")
	}
	if err := validation.ValidateTags(in.Tags); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	status := in.Status
	switch status {
	case "":
		status = models.StatusPublished
	case models.StatusDraft, models.StatusPublished:
		// valid
	default:
		return nil, models.NewValidationError("Status must be draft or published")
	}

	authorName := in.AuthorName
	if in.IsAnonymous {
		authorName = "Anonymous"
	}

	story := &models.Story{
		AuthorID:          in.AuthorID,
		AuthorName:        authorName,
		IsAnonymous:       in.IsAnonymous,
		Title:             in.Title,
		WhatHappened:      in.WhatHappened,
		WhatILearned:      in.WhatILearned,
		AdviceForOthers:   in.AdviceForOthers,
		Category:          in.Category,
		Type:              in.Type,
		IsPositive:        in.IsPositive,
		Tags:              in.Tags,
		AudioURL:          in.AudioURL,
		Transcription:     in.Transcription,
		RecordingDuration: in.RecordingDur,
		ImageURL:          in.ImageURL,
		Status:            status,
	}
	if status == models.StatusPublished {
		now := time.Now()
		story.PublishedAt = &now
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// GetStory loads a story and bumps its view counter. The view bump and the
// viewer's reaction annotation are both best-effort.
func (s *StoryService) GetStory(ctx context.Context, id, viewingUserID uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.storyRepo.IncrementViews(ctx, id); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "view increment failed",
			"story_id", id, "error", err)
	} else {
		story.Views++
	}

	if viewingUserID != 0 {
		s.annotateReactions(ctx, viewingUserID, []*models.Story{story})
	}
	return story, nil
}

// ListStories serves one feed page: filter, page by cursor, annotate the
// viewer's reactions, then re-sort by creation time. The store returns
// candidates newest-id first; the cursor pins the next query below the last
// returned id, so concatenated pages cover every story exactly once.
func (s *StoryService) ListStories(ctx context.Context, in ListStoriesInput) (*FeedPage, error) {
	if in.Category != "" && !in.Category.Valid() {
		return nil, models.NewValidationError("Invalid category")
	}
	if in.Type != "" && !in.Type.Valid() {
		return nil, models.NewValidationError("Invalid type")
	}

	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Drafts are visible only to their own author browsing their own stories.
	statuses := []models.StoryStatus{models.StatusPublished}
	if in.AuthorID != 0 && in.AuthorID == in.ViewingUserID {
		statuses = append(statuses, models.StatusDraft)
	}

	query := repository.FeedQuery{
		Category: in.Category,
		Type:     in.Type,
		AuthorID: in.AuthorID,
		Statuses: statuses,
		Cursor:   in.Cursor,
		Limit:    pageSize + 1,
	}

	// Anonymous first pages are identical for everyone with the same filters,
	// so they are worth a short-lived cache entry.
	if in.ViewingUserID == 0 && in.Cursor == 0 {
		var page FeedPage
		key := cache.FeedKey(feedFingerprint(in, pageSize))
		err := cache.Aside(ctx, key, &page, cache.FeedTTL, func() error {
			built, fetchErr := s.buildPage(ctx, query, pageSize, 0)
			if fetchErr != nil {
				return fetchErr
			}
			page = *built
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &page, nil
	}

	return s.buildPage(ctx, query, pageSize, in.ViewingUserID)
}

func (s *StoryService) buildPage(ctx context.Context, query repository.FeedQuery, pageSize int, viewingUserID uint) (*FeedPage, error) {
	stories, err := s.storyRepo.ListFeed(ctx, query)
	if err != nil {
		return nil, err
	}

	hasMore := len(stories) > pageSize
	if hasMore {
		stories = stories[:pageSize]
	}

	var nextCursor *uint
	if hasMore && len(stories) > 0 {
		id := stories[len(stories)-1].ID
		nextCursor = &id
	}

	if viewingUserID != 0 {
		s.annotateReactions(ctx, viewingUserID, stories)
	}

	// Display order is creation time, not storage order.
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})

	if stories == nil {
		stories = []*models.Story{}
	}
	return &FeedPage{
		Items:      stories,
		NextCursor: nextCursor,
		HasMore:    hasMore,
		Total:      len(stories),
	}, nil
}

// annotateReactions fills UserReaction for the viewer. A lookup failure is
// logged and leaves the page un-annotated rather than failing the request.
func (s *StoryService) annotateReactions(ctx context.Context, userID uint, stories []*models.Story) {
	if len(stories) == 0 {
		return
	}

	ids := make([]uint, len(stories))
	for i, story := range stories {
		ids[i] = story.ID
	}

	kinds, err := s.reactionRepo.KindsForUser(ctx, userID, ids)
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "reaction annotation failed",
			"user_id", userID, "error", err)
		observability.FeedRequestsTotal.WithLabelValues("degraded").Inc()
		return
	}
	observability.FeedRequestsTotal.WithLabelValues("true").Inc()

	for _, story := range stories {
		if kind, ok := kinds[story.ID]; ok {
			k := kind
			story.UserReaction = &k
		}
	}
}

func (s *StoryService) UpdateStory(ctx context.Context, in UpdateStoryInput) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, in.StoryID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own stories")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		story.Title = in.Title
	}
	if in.WhatHappened != "" {
		story.WhatHappened = in.WhatHappened
	}
	if in.WhatILearned != "" {
		story.WhatILearned = in.WhatILearned
	}
	if in.AdviceForOthers != "" {
		story.AdviceForOthers = in.AdviceForOthers
	}
	if in.Category != "" {
		if !in.Category.Valid() {
			return nil, models.NewValidationError("Invalid category")
		}
		story.Category = in.Category
	}
	if in.Type != "" {
		if !in.Type.Valid() {
			return nil, models.NewValidationError("Invalid type")
		}
		story.Type = in.Type
	}
	if in.Tags != nil {
		if err := validation.ValidateTags(in.Tags); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		story.Tags = in.Tags
	}
	if in.ImageURL != "" {
		story.ImageURL = in.ImageURL
	}
	if in.Status != "" {
		switch in.Status {
		case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		default:
			return nil, models.NewValidationError("Invalid status")
		}
		if in.Status == models.StatusPublished && story.PublishedAt == nil {
			now := time.Now()
			story.PublishedAt = &now
		}
		story.Status = in.Status
	}

	if err := s.storyRepo.Update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *StoryService) DeleteStory(ctx context.Context, storyID, userID uint) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own stories")
	}
	return s.storyRepo.Delete(ctx, storyID)
}

func feedFingerprint(in ListStoriesInput, pageSize int) string {
	return fmt.Sprintf("%s:%s:%d:%d", in.Category, in.Type, in.AuthorID, pageSize)
}
