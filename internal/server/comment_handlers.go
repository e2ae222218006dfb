package server

import (
	"rethinkclub/internal/models"
	"rethinkclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/stories/:id/comments
// Body: {text, authorId, authorName?, parentId?}
func (s *Server) CreateComment(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text       string `json:"text"`
		AuthorID   uint   `json:"authorId"`
		AuthorName string `json:"authorName"`
		ParentID   *uint  `json:"parentId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	comment, addErr := s.commentService.AddComment(c.Context(), service.AddCommentInput{
		StoryID:    storyID,
		AuthorID:   actingUserID(c, req.AuthorID),
		AuthorName: req.AuthorName,
		Text:       req.Text,
		ParentID:   req.ParentID,
	})
	if addErr != nil {
		return respondError(c, addErr)
	}
	return success(c, fiber.StatusCreated, comment)
}

// GetComments handles GET /api/stories/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, listErr := s.commentService.ListComments(c.Context(), storyID)
	if listErr != nil {
		return respondError(c, listErr)
	}
	return success(c, fiber.StatusOK, comments)
}
