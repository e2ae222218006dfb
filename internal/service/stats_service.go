package service

import (
	"context"
	"sync"
	"time"

	"rethinkclub/internal/cache"
	"rethinkclub/internal/models"
	"rethinkclub/internal/observability"
	"rethinkclub/internal/repository"
)

type StatsService struct {
	userRepo     repository.UserRepository
	storyRepo    repository.StoryRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
}

// CommunityStats is the aggregate snapshot served by /api/stats.
type CommunityStats struct {
	TotalMembers  int64                          `json:"total_members"`
	TotalStories  int64                          `json:"total_stories"`
	TotalComments int64                          `json:"total_comments"`
	ActiveToday   int64                          `json:"active_today"`
	ByCategory    map[models.StoryCategory]int64 `json:"by_category"`
}

func NewStatsService(
	userRepo repository.UserRepository,
	storyRepo repository.StoryRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
) *StatsService {
	return &StatsService{
		userRepo:     userRepo,
		storyRepo:    storyRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
	}
}

// GetCommunityStats aggregates the community counters. Each counter is an
// independent query, so they fan out in parallel; the first error wins.
// The snapshot is cached briefly since every visitor's landing page asks
// for the same numbers.
func (s *StatsService) GetCommunityStats(ctx context.Context) (*CommunityStats, error) {
	var stats CommunityStats
	err := cache.Aside(ctx, cache.StatsKey, &stats, cache.StatsTTL, func() error {
		fetched, fetchErr := s.aggregate(ctx)
		if fetchErr != nil {
			return fetchErr
		}
		stats = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatsService) aggregate(ctx context.Context) (*CommunityStats, error) {
	observability.LogAsyncOperationStart(ctx, "stats_aggregate", nil)
	start := time.Now()

	var (
		stats    CommunityStats
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	since := time.Now().Add(-24 * time.Hour)
	var activeStories, activeComments, activeInteractions int64

	wg.Add(7)
	go func() {
		defer wg.Done()
		n, err := s.userRepo.Count(ctx)
		stats.TotalMembers = n
		record(err)
	}()
	go func() {
		defer wg.Done()
		n, err := s.storyRepo.CountPublished(ctx)
		stats.TotalStories = n
		record(err)
	}()
	go func() {
		defer wg.Done()
		n, err := s.commentRepo.Count(ctx)
		stats.TotalComments = n
		record(err)
	}()
	go func() {
		defer wg.Done()
		n, err := s.storyRepo.CountCreatedSince(ctx, since)
		activeStories = n
		record(err)
	}()
	go func() {
		defer wg.Done()
		n, err := s.commentRepo.CountCreatedSince(ctx, since)
		activeComments = n
		record(err)
	}()
	go func() {
		defer wg.Done()
		byCategory, err := s.storyRepo.CountPublishedByCategory(ctx)
		stats.ByCategory = byCategory
		record(err)
	}()
	go func() {
		defer wg.Done()
		n, err := s.reactionRepo.CountInteractionsSince(ctx, since)
		activeInteractions = n
		record(err)
	}()
	wg.Wait()

	if firstErr != nil {
		observability.LogAsyncOperationError(ctx, "stats_aggregate", firstErr, nil)
		return nil, firstErr
	}

	stats.ActiveToday = activeStories + activeComments + activeInteractions
	if stats.ByCategory == nil {
		stats.ByCategory = map[models.StoryCategory]int64{}
	}

	observability.LogAsyncOperationEnd(ctx, "stats_aggregate", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return &stats, nil
}
