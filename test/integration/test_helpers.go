//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/config"
	"go-notes-api/internal/database"
	"go-notes-api/internal/event"
	"go-notes-api/internal/handler"
	"go-notes-api/internal/middleware"
	"go-notes-api/internal/repository"
	"go-notes-api/internal/router"
	"go-notes-api/internal/service"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL, 5, 1)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx))
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `TRUNCATE notes, users`)
		db.Close()
	})

	cfg := &config.Config{
		ServerPort:         "8080",
		RequestTimeout:     30 * time.Second,
		DatabaseURL:        databaseURL,
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    24 * time.Hour,
		CORSOrigins:        []string{"*"},
	}

	tokens, err := auth.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db.Pool)
	noteRepo := repository.NewNoteRepository(db.Pool)
	authService := service.NewAuthService(userRepo, tokens)
	noteService := service.NewNoteService(noteRepo, event.NewBus())
	authMiddleware := middleware.NewAuthMiddleware(tokens, userRepo)

	server := httptest.NewServer(router.New(cfg, authMiddleware,
		handler.NewAuthHandler(authService), handler.NewNoteHandler(noteService), db))
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func doAuthJSONRequest(t *testing.T, method string, url string, payload any, accessToken string) *http.Response {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

// registerAndLogin creates a fresh account and returns its tokens.
func registerAndLogin(t *testing.T, serverURL string, email string) (accessToken string, refreshToken string) {
	t.Helper()

	registerResp := postJSON(t, serverURL+"/api/v1/users/register", map[string]string{
		"email":    email,
		"fullname": "Test User",
		"password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)

	loginResp := postJSON(t, serverURL+"/api/v1/users/login", map[string]string{
		"email":    email,
		"password": "pw123456",
	})
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&parsed))
	require.True(t, parsed.Success)
	require.NotEmpty(t, parsed.Data.AccessToken)
	require.NotEmpty(t, parsed.Data.RefreshToken)

	return parsed.Data.AccessToken, parsed.Data.RefreshToken
}
