package database

import (
	"testing"

	"rethinkclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "stories", "comments", "likes", "interactions"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}

	// Unique (story, user) pair on interactions
	first := models.Interaction{StoryID: 1, UserID: 1, Kind: models.ReactionHelpful}
	require.NoError(t, db.Create(&first).Error)
	dup := models.Interaction{StoryID: 1, UserID: 1, Kind: models.ReactionInspiring}
	assert.Error(t, db.Create(&dup).Error)
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	l := newGormLogger()
	assert.Equal(t, logger.Warn, l.Config.LogLevel)

	upgraded := l.LogMode(logger.Info)
	// LogMode returns a copy; the original keeps its level
	assert.Equal(t, logger.Warn, l.Config.LogLevel)
	assert.Equal(t, logger.Info, upgraded.(*CustomGormLogger).Config.LogLevel)
}
