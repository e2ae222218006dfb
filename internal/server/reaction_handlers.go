package server

import (
	"rethinkclub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ReactToStory handles POST /api/stories/:id/react
// Body: {userId, type}. The explicit userId keeps the original wire contract;
// a bearer token fills it in when omitted.
func (s *Server) ReactToStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint   `json:"userId"`
		Type   string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	userID := actingUserID(c, req.UserID)
	if userID == 0 || req.Type == "" {
		return respondError(c, models.NewValidationError("userId and type are required"))
	}

	result, reactErr := s.reactionService.React(c.Context(), storyID, userID, models.ReactionKind(req.Type))
	if reactErr != nil {
		return respondError(c, reactErr)
	}
	return success(c, fiber.StatusOK, result)
}

// ToggleLike handles POST /api/stories/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	result, likeErr := s.reactionService.ToggleLike(c.Context(), storyID, actingUserID(c, req.UserID))
	if likeErr != nil {
		return respondError(c, likeErr)
	}
	return success(c, fiber.StatusOK, result)
}

// GetLikeStatus handles GET /api/stories/:id/like?userId=
// Always answers {liked}; lookup failures degrade to false.
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := actingUserID(c, uint(c.QueryInt("userId", 0)))
	return c.JSON(fiber.Map{
		"liked": s.reactionService.LikeStatus(c.Context(), storyID, userID),
	})
}
