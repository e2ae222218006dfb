package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetStats handles GET /api/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.statsService.GetCommunityStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, stats)
}
