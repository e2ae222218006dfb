package repository

import (
	"context"
	"testing"

	"rethinkclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create_IncrementsStoryCounter(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	story := seedStory(t, db, models.StatusPublished)
	ctx := context.Background()

	comment := &models.Comment{
		StoryID:    story.ID,
		AuthorID:   2,
		AuthorName: "reader",
		Text:       "been there, same mistake",
	}
	require.NoError(t, repo.Create(ctx, comment))
	assert.NotZero(t, comment.ID)

	var stored models.Story
	require.NoError(t, db.First(&stored, story.ID).Error)
	assert.Equal(t, 1, stored.CommentsCount)
}

func TestCommentRepository_Create_StoryNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	err := repo.Create(context.Background(), &models.Comment{
		StoryID: 404, AuthorID: 1, AuthorName: "reader", Text: "hello",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// nothing inserted on failure
	var rows int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestCommentRepository_Create_ReplyValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	first := seedStory(t, db, models.StatusPublished)
	second := seedStory(t, db, models.StatusPublished)

	parent := &models.Comment{StoryID: first.ID, AuthorID: 1, AuthorName: "op", Text: "root"}
	require.NoError(t, repo.Create(ctx, parent))

	// reply on the same story works
	reply := &models.Comment{
		StoryID: first.ID, AuthorID: 2, AuthorName: "reader",
		Text: "agreed", ParentID: &parent.ID,
	}
	require.NoError(t, repo.Create(ctx, reply))

	// reply pointed at a parent from another story is rejected
	err := repo.Create(ctx, &models.Comment{
		StoryID: second.ID, AuthorID: 2, AuthorName: "reader",
		Text: "crossed wires", ParentID: &parent.ID,
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	// missing parent is a not-found
	missing := uint(9999)
	err = repo.Create(ctx, &models.Comment{
		StoryID: first.ID, AuthorID: 2, AuthorName: "reader",
		Text: "orphan", ParentID: &missing,
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	var stored models.Story
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.Equal(t, 2, stored.CommentsCount)
}

func TestCommentRepository_Delete_DecrementsWithFloor(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	story := seedStory(t, db, models.StatusPublished)
	ctx := context.Background()

	comment := &models.Comment{StoryID: story.ID, AuthorID: 1, AuthorName: "op", Text: "root"}
	require.NoError(t, repo.Create(ctx, comment))
	require.NoError(t, repo.Delete(ctx, comment.ID))

	var stored models.Story
	require.NoError(t, db.First(&stored, story.ID).Error)
	assert.Equal(t, 0, stored.CommentsCount)

	// deleting an already-deleted comment reports not found
	err := repo.Delete(ctx, comment.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCommentRepository_ListByStory_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	story := seedStory(t, db, models.StatusPublished)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.Comment{
			StoryID: story.ID, AuthorID: 1, AuthorName: "op", Text: text,
		}))
	}

	comments, err := repo.ListByStory(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	for i := 1; i < len(comments); i++ {
		assert.False(t, comments[i].CreatedAt.After(comments[i-1].CreatedAt))
	}
}
