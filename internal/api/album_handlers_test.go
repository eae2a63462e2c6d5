package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAlbum_RequiresSessionAndToken(t *testing.T) {
	ts := setupTestServer(t)

	token, sessionID := ts.signup(t, "gate@example.com")
	body := map[string]any{"title": "Blue Train", "performer": "John Coltrane", "cost": 2200}

	// No credentials at all.
	resp := ts.api.Post("/api/v1/albums", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Token without a session.
	resp = ts.api.Post("/api/v1/albums", "Authorization: Bearer "+token, body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Session without a token.
	resp = ts.api.Post("/api/v1/albums", "Cookie: "+sessionCookieName+"="+sessionID, body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Session with a token belonging to someone else.
	otherToken, _ := ts.signup(t, "other@example.com")
	resp = ts.api.Post("/api/v1/albums",
		"Authorization: Bearer "+otherToken,
		"Cookie: "+sessionCookieName+"="+sessionID,
		body,
	)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Both halves present and matching.
	resp = ts.api.Post("/api/v1/albums",
		"Authorization: Bearer "+token,
		"Cookie: "+sessionCookieName+"="+sessionID,
		body,
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[AlbumResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Blue Train", envelope.Data.Title)
	assert.Equal(t, int64(2200), envelope.Data.Cost)
	assert.Nil(t, envelope.Data.LastPurchasedAt)
}

func TestAlbumReads_ArePublic(t *testing.T) {
	ts := setupTestServer(t)

	token, sessionID := ts.signup(t, "reader@example.com")
	album := ts.createAlbum(t, token, sessionID, "Kind of Blue")

	get := ts.api.Get("/api/v1/albums/" + album.ID)
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "Kind of Blue", decodeEnvelope[AlbumResponse](t, get).Data.Title)

	list := ts.api.Get("/api/v1/albums")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decodeEnvelope[[]AlbumResponse](t, list).Data, 1)
}

func TestUpdateAlbum(t *testing.T) {
	ts := setupTestServer(t)

	token, sessionID := ts.signup(t, "editor@example.com")
	album := ts.createAlbum(t, token, sessionID, "Original Title")

	// Unauthenticated update is rejected.
	resp := ts.api.Patch("/api/v1/albums/"+album.ID, map[string]any{"cost": 3000})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Patch("/api/v1/albums/"+album.ID,
		"Authorization: Bearer "+token,
		"Cookie: "+sessionCookieName+"="+sessionID,
		map[string]any{"cost": 3000},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[AlbumResponse](t, resp)
	assert.Equal(t, int64(3000), envelope.Data.Cost)
	assert.Equal(t, "Original Title", envelope.Data.Title)
}

func TestUpdateAlbum_InvalidCost(t *testing.T) {
	ts := setupTestServer(t)

	token, sessionID := ts.signup(t, "strict@example.com")
	album := ts.createAlbum(t, token, sessionID, "Cheap Thrills")

	resp := ts.api.Patch("/api/v1/albums/"+album.ID,
		"Authorization: Bearer "+token,
		"Cookie: "+sessionCookieName+"="+sessionID,
		map[string]any{"cost": -5},
	)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope[struct{}](t, resp).Code)
}

func TestDeleteAlbum(t *testing.T) {
	ts := setupTestServer(t)

	token, sessionID := ts.signup(t, "remover@example.com")
	album := ts.createAlbum(t, token, sessionID, "Short Lived")

	resp := ts.api.Delete("/api/v1/albums/" + album.ID)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Delete("/api/v1/albums/"+album.ID,
		"Authorization: Bearer "+token,
		"Cookie: "+sessionCookieName+"="+sessionID,
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	get := ts.api.Get("/api/v1/albums/" + album.ID)
	assert.Equal(t, http.StatusNotFound, get.Code)
}

func TestGetAlbum_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/albums/album_missing")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	envelope := decodeEnvelope[struct{}](t, resp)
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}
