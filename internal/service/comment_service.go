package service

import (
	"context"
	"strings"

	"rethinkclub/internal/models"
	"rethinkclub/internal/repository"
)

const maxCommentLen = 5000

type CommentService struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

type AddCommentInput struct {
	StoryID    uint
	AuthorID   uint
	AuthorName string
	Text       string
	ParentID   *uint
}

func NewCommentService(commentRepo repository.CommentRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, userRepo: userRepo}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}
	if in.AuthorID == 0 {
		return nil, models.NewValidationError("userId is required")
	}

	authorName := in.AuthorName
	if authorName == "" {
		if user, err := s.userRepo.GetByID(ctx, in.AuthorID); err == nil {
			authorName = user.DisplayName
			if authorName == "" {
				authorName = user.Username
			}
		} else {
			authorName = "Anonymous"
		}
	}

	comment := &models.Comment{
		StoryID:    in.StoryID,
		AuthorID:   in.AuthorID,
		AuthorName: authorName,
		Text:       text,
		ParentID:   in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, storyID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByStory(ctx, storyID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
