package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/accounts", map[string]any{
		"name":     "Miles Crate",
		"email":    "miles@example.com",
		"password": "SecurePassword123",
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[AccountResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Miles Crate", envelope.Data.Name)
	assert.Equal(t, "miles@example.com", envelope.Data.Email)
	assert.Equal(t, int64(0), envelope.Data.TotalPurchases)

	// Direct creation signs nobody in.
	assert.Empty(t, resp.Header().Get("Authorization"))
	assert.Empty(t, resp.Result().Cookies())

	// The account can log in right away with its token already issued.
	login := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "miles@example.com",
		"password": "SecurePassword123",
	})
	require.Equal(t, http.StatusOK, login.Code)
	assert.NotEmpty(t, decodeEnvelope[AuthResponse](t, login).Data.Token)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	ts.signup(t, "taken@example.com")

	resp := ts.api.Post("/api/v1/accounts", map[string]any{
		"name":     "Late Arrival",
		"email":    "taken@example.com",
		"password": "SecurePassword123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestGetAccount_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/accounts/acct_missing")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[struct{}](t, resp).Code)
}

func TestUpdateAccount(t *testing.T) {
	ts := setupTestServer(t)

	ts.signup(t, "rename@example.com")
	accounts := decodeEnvelope[[]AccountResponse](t, ts.api.Get("/api/v1/accounts")).Data
	require.Len(t, accounts, 1)

	resp := ts.api.Patch("/api/v1/accounts/"+accounts[0].ID, map[string]any{
		"name": "Renamed Buyer",
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	got := decodeEnvelope[AccountResponse](t, resp).Data
	assert.Equal(t, "Renamed Buyer", got.Name)
	assert.Equal(t, "rename@example.com", got.Email, "untouched fields are preserved")
}

func TestDeleteAccount(t *testing.T) {
	ts := setupTestServer(t)

	token, sessionID := ts.signup(t, "leaving@example.com")
	accounts := decodeEnvelope[[]AccountResponse](t, ts.api.Get("/api/v1/accounts")).Data
	require.Len(t, accounts, 1)

	resp := ts.api.Delete("/api/v1/accounts/" + accounts[0].ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	get := ts.api.Get("/api/v1/accounts/" + accounts[0].ID)
	assert.Equal(t, http.StatusNotFound, get.Code)

	// Deletion also ends the account's sessions.
	create := ts.api.Post("/api/v1/albums",
		"Authorization: Bearer "+token,
		"Cookie: "+sessionCookieName+"="+sessionID,
		map[string]any{"title": "Gone", "performer": "X", "cost": 100},
	)
	assert.Equal(t, http.StatusUnauthorized, create.Code)
}
