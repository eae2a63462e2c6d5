package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/recordshopapp/recordshop-server/internal/config"
	"github.com/recordshopapp/recordshop-server/internal/service"
	"github.com/recordshopapp/recordshop-server/internal/session"
	"github.com/recordshopapp/recordshop-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for assertions.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer builds a server over real stores in a temp directory.
func setupTestServer(t *testing.T) *testServer {
	return setupTestServerWithAuth(t, config.AuthConfig{SessionTTL: 30 * 24 * time.Hour})
}

func setupTestServerWithAuth(t *testing.T, authCfg config.AuthConfig) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions, err := session.Open(filepath.Join(tmpDir, "sessions"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	cfg := &config.Config{
		App:    config.AppConfig{Environment: "test"},
		Server: config.ServerConfig{Name: "Record Shop Test", Port: "8080"},
		Auth:   authCfg,
	}

	services := &Services{
		Auth:      service.NewAuthService(st, sessions, authCfg, logger),
		Accounts:  service.NewAccountService(st, sessions, logger),
		Albums:    service.NewAlbumService(st, logger),
		Purchases: service.NewPurchaseService(st, logger),
	}

	s := NewServer(cfg, st, sessions, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// signup creates an account through the API and returns its bearer token
// and session cookie value.
func (ts *testServer) signup(t *testing.T, email string) (token, sessionID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"name":     "Test Buyer",
		"email":    email,
		"password": "SecurePassword123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)

	return envelope.Data.Token, sessionCookieValue(t, resp)
}

// createAlbum creates an album through the API using the given credentials.
func (ts *testServer) createAlbum(t *testing.T, token, sessionID, title string) AlbumResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/albums",
		"Authorization: Bearer "+token,
		"Cookie: "+sessionCookieName+"="+sessionID,
		map[string]any{
			"title":     title,
			"performer": "The Test Pressings",
			"cost":      1500,
		},
	)
	require.Equal(t, http.StatusOK, resp.Code, "create album failed: %s", resp.Body.String())

	var envelope testEnvelope[AlbumResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

// sessionCookieValue extracts the session cookie from a response.
func sessionCookieValue(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()

	for _, c := range resp.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope
}
