package server

import (
	"rethinkclub/internal/models"
	"rethinkclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetStories handles GET /api/stories
// Filters: category, type, authorId. The viewer is the explicit viewingUserId
// query param when present, otherwise the bearer token identity.
func (s *Server) GetStories(c *fiber.Ctx) error {
	viewingUserID := actingUserID(c, uint(c.QueryInt("viewingUserId", 0)))

	page, err := s.storyService.ListStories(c.Context(), service.ListStoriesInput{
		Category:      models.StoryCategory(c.Query("category")),
		Type:          models.StoryType(c.Query("type")),
		AuthorID:      uint(c.QueryInt("authorId", 0)),
		ViewingUserID: viewingUserID,
		Cursor:        uint(c.QueryInt("cursor", 0)),
		PageSize:      c.QueryInt("pageSize", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// CreateStory handles POST /api/stories
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var req struct {
		Title             string               `json:"title"`
		WhatHappened      string               `json:"whatHappened"`
		WhatILearned      string               `json:"whatILearned"`
		AdviceForOthers   string               `json:"adviceForOthers"`
		Category          models.StoryCategory `json:"category"`
		Type              models.StoryType     `json:"type"`
		IsPositive        bool                 `json:"isPositive"`
		IsAnonymous       bool                 `json:"isAnonymous"`
		Tags              []string             `json:"tags"`
		AudioURL          string               `json:"audioUrl"`
		Transcription     string               `json:"transcription"`
		RecordingDuration int                  `json:"recordingDuration"`
		ImageURL          string               `json:"imageUrl"`
		Status            models.StoryStatus   `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	authorName := ""
	if user, err := s.userRepo.GetByID(c.Context(), userID); err == nil {
		authorName = user.DisplayName
		if authorName == "" {
			authorName = user.Username
		}
	}

	story, err := s.storyService.CreateStory(c.Context(), service.CreateStoryInput{
		AuthorID:        userID,
		AuthorName:      authorName,
		IsAnonymous:     req.IsAnonymous,
		Title:           req.Title,
		WhatHappened:    req.WhatHappened,
		WhatILearned:    req.WhatILearned,
		AdviceForOthers: req.AdviceForOthers,
		Category:        req.Category,
		Type:            req.Type,
		IsPositive:      req.IsPositive,
		Tags:            req.Tags,
		AudioURL:        req.AudioURL,
		Transcription:   req.Transcription,
		RecordingDur:    req.RecordingDuration,
		ImageURL:        req.ImageURL,
		Status:          req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, story)
}

// GetStory handles GET /api/stories/:id and bumps the view counter.
func (s *Server) GetStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewingUserID := actingUserID(c, uint(c.QueryInt("viewingUserId", 0)))
	story, err := s.storyService.GetStory(c.Context(), storyID, viewingUserID)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, story)
}

// UpdateStory handles PUT /api/stories/:id (author only)
func (s *Server) UpdateStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title           string               `json:"title"`
		WhatHappened    string               `json:"whatHappened"`
		WhatILearned    string               `json:"whatILearned"`
		AdviceForOthers string               `json:"adviceForOthers"`
		Category        models.StoryCategory `json:"category"`
		Type            models.StoryType     `json:"type"`
		Tags            []string             `json:"tags"`
		ImageURL        string               `json:"imageUrl"`
		Status          models.StoryStatus   `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	story, updErr := s.storyService.UpdateStory(c.Context(), service.UpdateStoryInput{
		StoryID:         storyID,
		UserID:          currentUserID(c),
		Title:           req.Title,
		WhatHappened:    req.WhatHappened,
		WhatILearned:    req.WhatILearned,
		AdviceForOthers: req.AdviceForOthers,
		Category:        req.Category,
		Type:            req.Type,
		Tags:            req.Tags,
		ImageURL:        req.ImageURL,
		Status:          req.Status,
	})
	if updErr != nil {
		return respondError(c, updErr)
	}
	return success(c, fiber.StatusOK, story)
}

// DeleteStory handles DELETE /api/stories/:id (author only)
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.storyService.DeleteStory(c.Context(), storyID, currentUserID(c)); delErr != nil {
		return respondError(c, delErr)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Story deleted",
	})
}
