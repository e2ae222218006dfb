package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"rethinkclub/internal/config"
	"rethinkclub/internal/database"
	"rethinkclub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server on an in-memory sqlite database with all
// routes registered. Redis is absent, so caching and rate limiting degrade.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:      "8080",
		JWTSecret: "unit-test-secret-0123456789abcdef",
		Env:       "test",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, models.StatusForError(err), err)
		},
	})
	srv.SetupRoutes(app)
	return srv, app
}

// createUser inserts a user directly and returns it with a valid bearer token.
func createUser(t *testing.T, srv *Server, username string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r-secret!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    string(hash),
		DisplayName: "",
	}
	require.NoError(t, srv.db.Create(user).Error)

	token, err := srv.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

// createStory inserts a story row directly, bypassing the service layer.
func createStory(t *testing.T, srv *Server, authorID uint, status models.StoryStatus) *models.Story {
	t.Helper()

	story := &models.Story{
		AuthorID:     authorID,
		AuthorName:   "tester",
		Title:        "the lease I signed too fast",
		WhatHappened: "skipped the inspection to beat another offer",
		Category:     models.CategoryMoney,
		Type:         models.StoryTypeBad,
		Status:       status,
	}
	require.NoError(t, srv.db.Create(story).Error)
	return story
}

// jsonRequest builds a request with an optional JSON body and bearer token.
func jsonRequest(t *testing.T, method, path string, body any, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// decodeBody reads the response body into dest.
func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
