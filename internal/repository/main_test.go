package repository

import (
	"testing"

	"rethinkclub/internal/database"
	"rethinkclub/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema. Each call
// returns a fresh, isolated database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedStory(t *testing.T, db *gorm.DB, status models.StoryStatus) *models.Story {
	t.Helper()

	story := &models.Story{
		AuthorID:     1,
		AuthorName:   "tester",
		Title:        "the job I should not have taken",
		WhatHappened: "ignored every warning sign during the interview",
		Category:     models.CategoryCareer,
		Type:         models.StoryTypeBad,
		Status:       status,
	}
	require.NoError(t, db.Create(story).Error)
	return story
}
