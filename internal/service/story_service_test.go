package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rethinkclub/internal/models"
	"rethinkclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storyRepoStub is a stub for repository.StoryRepository.
type storyRepoStub struct {
	createFn            func(context.Context, *models.Story) error
	getByIDFn           func(context.Context, uint) (*models.Story, error)
	incrementViewsFn    func(context.Context, uint) error
	listFeedFn          func(context.Context, repository.FeedQuery) ([]*models.Story, error)
	updateFn            func(context.Context, *models.Story) error
	deleteFn            func(context.Context, uint) error
	countPublishedFn    func(context.Context) (int64, error)
	countByCategoryFn   func(context.Context) (map[models.StoryCategory]int64, error)
	countCreatedSinceFn func(context.Context, time.Time) (int64, error)
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story) error {
	return s.createFn(ctx, story)
}
func (s *storyRepoStub) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storyRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *storyRepoStub) ListFeed(ctx context.Context, q repository.FeedQuery) ([]*models.Story, error) {
	return s.listFeedFn(ctx, q)
}
func (s *storyRepoStub) Update(ctx context.Context, story *models.Story) error {
	return s.updateFn(ctx, story)
}
func (s *storyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *storyRepoStub) CountPublished(ctx context.Context) (int64, error) {
	return s.countPublishedFn(ctx)
}
func (s *storyRepoStub) CountPublishedByCategory(ctx context.Context) (map[models.StoryCategory]int64, error) {
	return s.countByCategoryFn(ctx)
}
func (s *storyRepoStub) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countCreatedSinceFn(ctx, since)
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	applyFn        func(context.Context, uint, uint, models.ReactionKind) (models.ReactionCounts, models.ReactionAction, error)
	kindsForUserFn func(context.Context, uint, []uint) (map[uint]models.ReactionKind, error)
	toggleLikeFn   func(context.Context, uint, uint) (bool, int, error)
	isLikedFn      func(context.Context, uint, uint) (bool, error)
	countSinceFn   func(context.Context, time.Time) (int64, error)
}

func (s *reactionRepoStub) Apply(ctx context.Context, storyID, userID uint, kind models.ReactionKind) (models.ReactionCounts, models.ReactionAction, error) {
	return s.applyFn(ctx, storyID, userID, kind)
}
func (s *reactionRepoStub) KindsForUser(ctx context.Context, userID uint, storyIDs []uint) (map[uint]models.ReactionKind, error) {
	return s.kindsForUserFn(ctx, userID, storyIDs)
}
func (s *reactionRepoStub) ToggleLike(ctx context.Context, storyID, userID uint) (bool, int, error) {
	return s.toggleLikeFn(ctx, storyID, userID)
}
func (s *reactionRepoStub) IsLiked(ctx context.Context, storyID, userID uint) (bool, error) {
	return s.isLikedFn(ctx, storyID, userID)
}
func (s *reactionRepoStub) CountInteractionsSince(ctx context.Context, since time.Time) (int64, error) {
	return s.countSinceFn(ctx, since)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		kindsForUserFn: func(_ context.Context, _ uint, _ []uint) (map[uint]models.ReactionKind, error) {
			return map[uint]models.ReactionKind{}, nil
		},
	}
}

// feedStory builds a published story with an id and a creation time offset so
// tests can check display ordering.
func feedStory(id uint, createdOffset time.Duration) *models.Story {
	return &models.Story{
		ID:        id,
		AuthorID:  1,
		Title:     "story",
		Category:  models.CategoryCareer,
		Type:      models.StoryTypeBad,
		Status:    models.StatusPublished,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(createdOffset),
	}
}

func TestStoryService_CreateStory_Validation(t *testing.T) {
	svc := NewStoryService(&storyRepoStub{}, noopReactionRepo())

	cases := []struct {
		name string
		in   CreateStoryInput
	}{
		{"missing title", CreateStoryInput{WhatHappened: "x", Category: models.CategoryCareer, Type: models.StoryTypeBad}},
		{"missing body", CreateStoryInput{Title: "t", Category: models.CategoryCareer, Type: models.StoryTypeBad}},
		{"bad category", CreateStoryInput{Title: "t", WhatHappened: "x", Category: "stonks", Type: models.StoryTypeBad}},
		{"bad type", CreateStoryInput{Title: "t", WhatHappened: "x", Category: models.CategoryCareer, Type: "meh"}},
		{"bad status", CreateStoryInput{Title: "t", WhatHappened: "x", Category: models.CategoryCareer, Type: models.StoryTypeBad, Status: "archived"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateStory(context.Background(), tc.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestStoryService_CreateStory_Defaults(t *testing.T) {
	var created *models.Story
	repo := &storyRepoStub{
		createFn: func(_ context.Context, story *models.Story) error {
			story.ID = 42
			created = story
			return nil
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	story, err := svc.CreateStory(context.Background(), CreateStoryInput{
		AuthorID:     7,
		AuthorName:   "Dana",
		IsAnonymous:  true,
		Title:        "Quit without a plan",
		WhatHappened: "I walked out mid-quarter.",
		Category:     models.CategoryCareer,
		Type:         models.StoryTypeBad,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, uint(42), story.ID)
	assert.Equal(t, models.StatusPublished, story.Status)
	require.NotNil(t, story.PublishedAt)
	assert.Equal(t, "Anonymous", story.AuthorName)
}

func TestStoryService_CreateStory_DraftHasNoPublishedAt(t *testing.T) {
	repo := &storyRepoStub{
		createFn: func(_ context.Context, _ *models.Story) error { return nil },
	}
	svc := NewStoryService(repo, noopReactionRepo())

	story, err := svc.CreateStory(context.Background(), CreateStoryInput{
		AuthorID:     7,
		AuthorName:   "Dana",
		Title:        "wip",
		WhatHappened: "half a thought",
		Category:     models.CategoryMoney,
		Type:         models.StoryTypeLesson,
		Status:       models.StatusDraft,
	})
	require.NoError(t, err)
	assert.Nil(t, story.PublishedAt)
}

func TestStoryService_ListStories_InvalidFilters(t *testing.T) {
	svc := NewStoryService(&storyRepoStub{}, noopReactionRepo())

	_, err := svc.ListStories(context.Background(), ListStoriesInput{Category: "stonks", ViewingUserID: 1})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	_, err = svc.ListStories(context.Background(), ListStoriesInput{Type: "meh", ViewingUserID: 1})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestStoryService_ListStories_QueryShaping(t *testing.T) {
	var got repository.FeedQuery
	repo := &storyRepoStub{
		listFeedFn: func(_ context.Context, q repository.FeedQuery) ([]*models.Story, error) {
			got = q
			return nil, nil
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	t.Run("defaults", func(t *testing.T) {
		_, err := svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 3})
		require.NoError(t, err)
		assert.Equal(t, defaultPageSize+1, got.Limit)
		assert.Equal(t, []models.StoryStatus{models.StatusPublished}, got.Statuses)
	})

	t.Run("page size clamped", func(t *testing.T) {
		_, err := svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 3, PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, maxPageSize+1, got.Limit)
	})

	t.Run("drafts only for own profile", func(t *testing.T) {
		_, err := svc.ListStories(context.Background(), ListStoriesInput{AuthorID: 3, ViewingUserID: 3})
		require.NoError(t, err)
		assert.Equal(t, []models.StoryStatus{models.StatusPublished, models.StatusDraft}, got.Statuses)

		_, err = svc.ListStories(context.Background(), ListStoriesInput{AuthorID: 3, ViewingUserID: 9})
		require.NoError(t, err)
		assert.Equal(t, []models.StoryStatus{models.StatusPublished}, got.Statuses)

		// Browsing your own drafts requires an author filter, not just a login.
		_, err = svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 3})
		require.NoError(t, err)
		assert.Equal(t, []models.StoryStatus{models.StatusPublished}, got.Statuses)
	})
}

func TestStoryService_ListStories_Pagination(t *testing.T) {
	// Repo returns newest-id first. Limit is pageSize+1, so a full result
	// means there is another page.
	repo := &storyRepoStub{
		listFeedFn: func(_ context.Context, q repository.FeedQuery) ([]*models.Story, error) {
			stories := []*models.Story{
				feedStory(30, 3*time.Hour),
				feedStory(20, 2*time.Hour),
				feedStory(10, 1*time.Hour),
			}
			if q.Limit < len(stories) {
				stories = stories[:q.Limit]
			}
			return stories, nil
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	page, err := svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 1, PageSize: 2})
	require.NoError(t, err)

	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, uint(20), *page.NextCursor)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)

	page, err = svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 1, PageSize: 5})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
	assert.Len(t, page.Items, 3)
}

func TestStoryService_ListStories_EmptyPage(t *testing.T) {
	repo := &storyRepoStub{
		listFeedFn: func(_ context.Context, _ repository.FeedQuery) ([]*models.Story, error) {
			return nil, nil
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	page, err := svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 1})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
	assert.Equal(t, 0, page.Total)
}

func TestStoryService_ListStories_SortsByCreationTime(t *testing.T) {
	// Storage order (id desc) disagrees with creation time here: an older id
	// carries a newer timestamp. The page must come back in creation order.
	repo := &storyRepoStub{
		listFeedFn: func(_ context.Context, _ repository.FeedQuery) ([]*models.Story, error) {
			return []*models.Story{
				feedStory(30, 1*time.Hour),
				feedStory(20, 5*time.Hour),
				feedStory(10, 3*time.Hour),
			}, nil
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	page, err := svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, uint(20), page.Items[0].ID)
	assert.Equal(t, uint(10), page.Items[1].ID)
	assert.Equal(t, uint(30), page.Items[2].ID)
}

func TestStoryService_ListStories_AnnotatesViewerReactions(t *testing.T) {
	repo := &storyRepoStub{
		listFeedFn: func(_ context.Context, _ repository.FeedQuery) ([]*models.Story, error) {
			return []*models.Story{feedStory(2, 2*time.Hour), feedStory(1, time.Hour)}, nil
		},
	}
	reactions := &reactionRepoStub{
		kindsForUserFn: func(_ context.Context, userID uint, ids []uint) (map[uint]models.ReactionKind, error) {
			assert.Equal(t, uint(7), userID)
			assert.Equal(t, []uint{2, 1}, ids)
			return map[uint]models.ReactionKind{2: models.ReactionInspiring}, nil
		},
	}
	svc := NewStoryService(repo, reactions)

	page, err := svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 7})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].UserReaction)
	assert.Equal(t, models.ReactionInspiring, *page.Items[0].UserReaction)
	assert.Nil(t, page.Items[1].UserReaction)
}

func TestStoryService_ListStories_AnnotationFailureDegrades(t *testing.T) {
	repo := &storyRepoStub{
		listFeedFn: func(_ context.Context, _ repository.FeedQuery) ([]*models.Story, error) {
			return []*models.Story{feedStory(1, time.Hour)}, nil
		},
	}
	reactions := &reactionRepoStub{
		kindsForUserFn: func(_ context.Context, _ uint, _ []uint) (map[uint]models.ReactionKind, error) {
			return nil, errors.New("redis down")
		},
	}
	svc := NewStoryService(repo, reactions)

	page, err := svc.ListStories(context.Background(), ListStoriesInput{ViewingUserID: 7})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].UserReaction)
}

func TestStoryService_ListStories_AnonymousSkipsAnnotation(t *testing.T) {
	repo := &storyRepoStub{
		listFeedFn: func(_ context.Context, _ repository.FeedQuery) ([]*models.Story, error) {
			return []*models.Story{feedStory(1, time.Hour)}, nil
		},
	}
	reactions := &reactionRepoStub{
		kindsForUserFn: func(_ context.Context, _ uint, _ []uint) (map[uint]models.ReactionKind, error) {
			t.Fatal("anonymous feed should not look up reactions")
			return nil, nil
		},
	}
	svc := NewStoryService(repo, reactions)

	page, err := svc.ListStories(context.Background(), ListStoriesInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].UserReaction)
}

func TestStoryService_GetStory_ViewBumpIsBestEffort(t *testing.T) {
	repo := &storyRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Story, error) {
			s := feedStory(id, 0)
			s.Views = 9
			return s, nil
		},
		incrementViewsFn: func(_ context.Context, _ uint) error {
			return errors.New("db hiccup")
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	story, err := svc.GetStory(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 9, story.Views)

	repo.incrementViewsFn = func(_ context.Context, _ uint) error { return nil }
	story, err = svc.GetStory(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, story.Views)
}

func TestStoryService_UpdateStory_AuthorOnly(t *testing.T) {
	repo := &storyRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Story, error) {
			return feedStory(id, 0), nil
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	_, err := svc.UpdateStory(context.Background(), UpdateStoryInput{StoryID: 1, UserID: 99, Title: "new"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestStoryService_UpdateStory_PublishSetsPublishedAt(t *testing.T) {
	draft := feedStory(1, 0)
	draft.Status = models.StatusDraft
	repo := &storyRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.Story, error) { return draft, nil },
		updateFn:  func(_ context.Context, _ *models.Story) error { return nil },
	}
	svc := NewStoryService(repo, noopReactionRepo())

	story, err := svc.UpdateStory(context.Background(), UpdateStoryInput{
		StoryID: 1, UserID: 1, Status: models.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, story.Status)
	assert.NotNil(t, story.PublishedAt)
}

func TestStoryService_DeleteStory_AuthorOnly(t *testing.T) {
	deleted := false
	repo := &storyRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Story, error) {
			return feedStory(id, 0), nil
		},
		deleteFn: func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		},
	}
	svc := NewStoryService(repo, noopReactionRepo())

	err := svc.DeleteStory(context.Background(), 1, 99)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteStory(context.Background(), 1, 1))
	assert.True(t, deleted)
}
