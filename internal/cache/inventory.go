package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%d"
	StoryKeyPrefix = "story:%d"
	FeedKeyPrefix  = "feed:%s"
	StatsKey       = "stats:community"
)

const (
	UserTTL  = 5 * time.Minute
	StoryTTL = 10 * time.Minute
	FeedTTL  = 30 * time.Second
	StatsTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func StoryKey(storyID uint) string {
	return fmt.Sprintf(StoryKeyPrefix, storyID)
}

// FeedKey identifies one anonymous first page per filter combination.
func FeedKey(fingerprint string) string {
	return fmt.Sprintf(FeedKeyPrefix, fingerprint)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateStory(ctx context.Context, storyID uint) {
	Invalidate(ctx, StoryKey(storyID))
}

// InvalidateFeeds drops every cached anonymous feed page. Called on story
// create, update, delete and publish.
func InvalidateFeeds(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateStats(ctx context.Context) {
	Invalidate(ctx, StatsKey)
}
