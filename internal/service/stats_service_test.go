package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rethinkclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsStubs() (*userRepoStub, *storyRepoStub, *commentRepoStub, *reactionRepoStub) {
	users := &userRepoStub{
		countFn: func(context.Context) (int64, error) { return 12, nil },
	}
	stories := &storyRepoStub{
		countPublishedFn: func(context.Context) (int64, error) { return 40, nil },
		countByCategoryFn: func(context.Context) (map[models.StoryCategory]int64, error) {
			return map[models.StoryCategory]int64{models.CategoryCareer: 25, models.CategoryMoney: 15}, nil
		},
		countCreatedSinceFn: func(context.Context, time.Time) (int64, error) { return 3, nil },
	}
	comments := &commentRepoStub{
		countFn:      func(context.Context) (int64, error) { return 90, nil },
		countSinceFn: func(context.Context, time.Time) (int64, error) { return 5, nil },
	}
	reactions := &reactionRepoStub{
		countSinceFn: func(context.Context, time.Time) (int64, error) { return 7, nil },
	}
	return users, stories, comments, reactions
}

func TestStatsService_GetCommunityStats(t *testing.T) {
	users, stories, comments, reactions := statsStubs()
	svc := NewStatsService(users, stories, comments, reactions)

	stats, err := svc.GetCommunityStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), stats.TotalMembers)
	assert.Equal(t, int64(40), stats.TotalStories)
	assert.Equal(t, int64(90), stats.TotalComments)
	assert.Equal(t, int64(3+5+7), stats.ActiveToday)
	assert.Equal(t, int64(25), stats.ByCategory[models.CategoryCareer])
	assert.Equal(t, int64(15), stats.ByCategory[models.CategoryMoney])
}

func TestStatsService_GetCommunityStats_FirstErrorWins(t *testing.T) {
	users, stories, comments, reactions := statsStubs()
	stories.countPublishedFn = func(context.Context) (int64, error) {
		return 0, errors.New("db down")
	}
	svc := NewStatsService(users, stories, comments, reactions)

	_, err := svc.GetCommunityStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestStatsService_GetCommunityStats_EmptyCategories(t *testing.T) {
	users, stories, comments, reactions := statsStubs()
	stories.countByCategoryFn = func(context.Context) (map[models.StoryCategory]int64, error) {
		return nil, nil
	}
	svc := NewStatsService(users, stories, comments, reactions)

	stats, err := svc.GetCommunityStats(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stats.ByCategory)
	assert.Empty(t, stats.ByCategory)
}
