package repository

import (
	"context"
	"regexp"
	"testing"

	"rethinkclub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stories" WHERE "stories"."id" = $1 AND "stories"."deleted_at" IS NULL ORDER BY "stories"."id" LIMIT $2`)).
		WithArgs(42, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	story, err := repo.GetByID(context.Background(), 42)
	assert.Nil(t, story)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_IncrementViews(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "stories" SET "views"=views + 1 WHERE id = $1 AND "stories"."deleted_at" IS NULL`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.IncrementViews(context.Background(), 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_ListFeed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	t.Run("Filters And Cursor", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stories" WHERE status IN ($1,$2) AND category = $3 AND author_id = $4 AND id < $5 AND "stories"."deleted_at" IS NULL ORDER BY id DESC LIMIT $6`)).
			WithArgs("published", "draft", "career", 9, 100, 11).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
				AddRow(99, "most recent").
				AddRow(98, "older"))

		stories, err := repo.ListFeed(ctx, FeedQuery{
			Category: models.CategoryCareer,
			AuthorID: 9,
			Statuses: []models.StoryStatus{models.StatusPublished, models.StatusDraft},
			Cursor:   100,
			Limit:    11,
		})
		assert.NoError(t, err)
		assert.Len(t, stories, 2)
		assert.Equal(t, uint(99), stories[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Published Only Without Cursor", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "stories" WHERE status IN ($1) AND type = $2 AND "stories"."deleted_at" IS NULL ORDER BY id DESC LIMIT $3`)).
			WithArgs("published", "lesson", 11).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		stories, err := repo.ListFeed(ctx, FeedQuery{
			Type:     models.StoryTypeLesson,
			Statuses: []models.StoryStatus{models.StatusPublished},
			Limit:    11,
		})
		assert.NoError(t, err)
		assert.Len(t, stories, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStoryRepository_CountPublished(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "stories" WHERE status = $1 AND "stories"."deleted_at" IS NULL`)).
		WithArgs("published").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountPublished(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
