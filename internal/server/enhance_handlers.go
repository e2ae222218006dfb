package server

import (
	"rethinkclub/internal/models"
	"rethinkclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// EnhanceText handles POST /api/enhance
// Body: {text, mode, field?}
func (s *Server) EnhanceText(c *fiber.Ctx) error {
	var req struct {
		Text  string `json:"text"`
		Mode  string `json:"mode"`
		Field string `json:"field"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	result, err := s.enhanceService.Enhance(c.Context(), req.Text, service.EnhanceMode(req.Mode), req.Field)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"enhanced":     result.Enhanced,
		"usedFallback": result.UsedFallback,
	})
}

// StructureStory handles POST /api/structure-story
// Body: {transcription}
func (s *Server) StructureStory(c *fiber.Ctx) error {
	var req struct {
		Transcription string `json:"transcription"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	structured, err := s.enhanceService.StructureStory(c.Context(), req.Transcription)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, structured)
}
