package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearswap/gearswap-api/internal/middleware"
	"github.com/gearswap/gearswap-api/internal/services/user"
	"github.com/gearswap/gearswap-api/internal/session"
	"github.com/gearswap/gearswap-api/internal/storage"
	"github.com/gearswap/gearswap-api/internal/utils"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := storage.NewMemoryStorage()
	sessions := session.NewMemoryStore()
	jwtService := utils.NewJWTService("test-secret")

	app := fiber.New()
	authMiddleware := middleware.AuthMiddleware(jwtService, sessions)
	NewAuthService(store, sessions, jwtService).SetupRoutes(app, authMiddleware)
	user.NewUserService(store).SetupRoutes(app, authMiddleware)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]any, token string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeToken(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestSignupLoginLogout(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/signup", map[string]any{
		"username": "guitar_hero",
		"password": "hunter2",
		"bio":      "Love vintage guitars",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := decodeToken(t, resp)

	// The token opens protected routes.
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)

	// Logging in again works with the same credentials.
	resp = postJSON(t, app, "/api/auth/login", map[string]any{
		"username": "guitar_hero",
		"password": "hunter2",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loginToken := decodeToken(t, resp)

	// Logout revokes the session behind the token.
	resp = postJSON(t, app, "/api/auth/logout", nil, loginToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginToken)
	meResp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)

	// The first session is untouched.
	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/signup", map[string]any{"username": "nopass"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignupDuplicateUsername(t *testing.T) {
	app := newTestApp(t)

	payload := map[string]any{"username": "guitar_hero", "password": "hunter2"}
	resp := postJSON(t, app, "/api/auth/signup", payload, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/signup", payload, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/signup", map[string]any{"username": "guitar_hero", "password": "hunter2"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]any{"username": "guitar_hero", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]any{"username": "nobody", "password": "hunter2"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
