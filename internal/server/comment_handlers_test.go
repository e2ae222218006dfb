package server

import (
	"net/http"
	"testing"

	"rethinkclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentEnvelope struct {
	Success bool           `json:"success"`
	Data    models.Comment `json:"data"`
}

func TestCreateComment(t *testing.T) {
	srv, app := newTestServer(t)
	user, _ := createUser(t, srv, "commenter")
	story := createStory(t, srv, 1, models.StatusPublished)

	req := jsonRequest(t, http.MethodPost, "/api/stories/"+itoa(story.ID)+"/comments",
		map[string]any{"text": "same thing happened to me", "authorId": user.ID}, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body commentEnvelope
	decodeBody(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "same thing happened to me", body.Data.Text)
	assert.Equal(t, user.ID, body.Data.AuthorID)
	assert.Equal(t, user.Username, body.Data.AuthorName, "name resolved from the user record")

	var updated models.Story
	require.NoError(t, srv.db.First(&updated, story.ID).Error)
	assert.Equal(t, 1, updated.CommentsCount)
}

func TestCreateComment_Reply(t *testing.T) {
	srv, app := newTestServer(t)
	user, token := createUser(t, srv, "replier")
	story := createStory(t, srv, user.ID, models.StatusPublished)

	req := jsonRequest(t, http.MethodPost, "/api/stories/"+itoa(story.ID)+"/comments",
		map[string]any{"text": "top-level"}, token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parent commentEnvelope
	decodeBody(t, resp, &parent)

	req = jsonRequest(t, http.MethodPost, "/api/stories/"+itoa(story.ID)+"/comments",
		map[string]any{"text": "a reply", "parentId": parent.Data.ID}, token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reply commentEnvelope
	decodeBody(t, resp, &reply)
	require.NotNil(t, reply.Data.ParentID)
	assert.Equal(t, parent.Data.ID, *reply.Data.ParentID)
}

func TestCreateComment_Validation(t *testing.T) {
	srv, app := newTestServer(t)
	story := createStory(t, srv, 1, models.StatusPublished)

	t.Run("anonymous rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/stories/"+itoa(story.ID)+"/comments",
			map[string]any{"text": "drive-by"}, "")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/stories/"+itoa(story.ID)+"/comments",
			map[string]any{"text": "   ", "authorId": 2}, "")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing story", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/stories/999/comments",
			map[string]any{"text": "into the void", "authorId": 2}, "")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetComments(t *testing.T) {
	srv, app := newTestServer(t)
	user, _ := createUser(t, srv, "lister")
	story := createStory(t, srv, 1, models.StatusPublished)

	for _, text := range []string{"first", "second"} {
		req := jsonRequest(t, http.MethodPost, "/api/stories/"+itoa(story.ID)+"/comments",
			map[string]any{"text": text, "authorId": user.ID}, "")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	req := jsonRequest(t, http.MethodGet, "/api/stories/"+itoa(story.ID)+"/comments", nil, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    []models.Comment `json:"data"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Success)
	require.Len(t, body.Data, 2)
}
