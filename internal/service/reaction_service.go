package service

import (
	"context"

	"rethinkclub/internal/models"
	"rethinkclub/internal/observability"
	"rethinkclub/internal/repository"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
}

// ReactionResult is the outcome of one reaction toggle.
type ReactionResult struct {
	NewReactions models.ReactionCounts `json:"newReactions"`
	UserAction   models.ReactionAction `json:"userAction"`
}

// LikeResult is the outcome of one like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

func NewReactionService(reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{reactionRepo: reactionRepo}
}

// React toggles the user's reaction of the given kind on the story. The kind
// is validated against the closed enum before any store work happens.
func (s *ReactionService) React(ctx context.Context, storyID, userID uint, kind models.ReactionKind) (*ReactionResult, error) {
	if userID == 0 {
		return nil, models.NewValidationError("userId is required")
	}
	if !kind.Valid() {
		return nil, models.NewValidationError("Invalid reaction type")
	}

	counts, action, err := s.reactionRepo.Apply(ctx, storyID, userID, kind)
	if err != nil {
		return nil, err
	}

	observability.ReactionsTotal.WithLabelValues(string(action)).Inc()
	return &ReactionResult{NewReactions: counts, UserAction: action}, nil
}

func (s *ReactionService) ToggleLike(ctx context.Context, storyID, userID uint) (*LikeResult, error) {
	if userID == 0 {
		return nil, models.NewValidationError("userId is required")
	}

	liked, likes, err := s.reactionRepo.ToggleLike(ctx, storyID, userID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Likes: likes}, nil
}

// LikeStatus reports whether the user has liked the story. A lookup failure
// degrades to "not liked" rather than failing the request.
func (s *ReactionService) LikeStatus(ctx context.Context, storyID, userID uint) bool {
	if userID == 0 {
		return false
	}
	liked, err := s.reactionRepo.IsLiked(ctx, storyID, userID)
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "like status lookup failed",
			"story_id", storyID, "user_id", userID, "error", err)
		return false
	}
	return liked
}
