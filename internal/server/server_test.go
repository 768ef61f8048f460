package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"admindash/auth"
	"admindash/internal/config"
	"admindash/internal/persistence"
	"admindash/internal/server"
)

type testEnv struct {
	srv *server.Server
	db  *bun.DB
	cfg *config.Config
}

func setupEnv(t *testing.T, contentEnabled bool) *testEnv {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.Auth.SigningKey = "integration-test-key"
	cfg.Auth.BcryptCost = 6
	cfg.Content.Enabled = contentEnabled

	ctx := context.Background()

	db, err := persistence.Open(ctx, cfg.Database.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, persistence.Migrate(ctx, db))

	logger := server.NewLogger(slog.LevelError)
	return &testEnv{
		srv: server.New(cfg, db, logger),
		db:  db,
		cfg: cfg,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, header map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &decoded)
	}

	return resp, decoded
}

func (e *testEnv) registerUser(t *testing.T, username, email, password string) map[string]any {
	t.Helper()

	resp, body := e.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Test User",
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register body: %v", body)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	return user
}

func (e *testEnv) loginToken(t *testing.T, email, password string) string {
	t.Helper()

	resp, body := e.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "login body: %v", body)

	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "bearer", body["token_type"])
	return token
}

func TestRootAndHealth(t *testing.T) {
	env := setupEnv(t, false)

	resp, body := env.request(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Welcome to the Admin Dashboard API", body["message"])
	assert.Equal(t, "active", body["status"])

	resp, body = env.request(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterAndLoginFlow(t *testing.T) {
	env := setupEnv(t, false)

	user := env.registerUser(t, "peperone", "pepe@example.com", "Str0ng!Pass")
	assert.Equal(t, "peperone", user["username"])
	assert.NotEmpty(t, user["id"])
	// Password material never leaves the server.
	_, exposed := user["password_hash"]
	assert.False(t, exposed)

	token := env.loginToken(t, "pepe@example.com", "Str0ng!Pass")

	resp, body := env.request(t, http.MethodGet, "/api/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "peperone", body["username"])
	assert.Equal(t, "pepe@example.com", body["email"])
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := setupEnv(t, false)

	resp, _ := env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Test User",
		"username": "peperone",
		"email":    "pepe@example.com",
		"password": "weakpass",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupEnv(t, false)

	env.registerUser(t, "peperone", "pepe@example.com", "Str0ng!Pass")

	resp, body := env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Other User",
		"username": "otherone",
		"email":    "pepe@example.com",
		"password": "Str0ng!Pass",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["detail"], "already registered")
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := setupEnv(t, false)

	env.registerUser(t, "peperone", "pepe@example.com", "Str0ng!Pass")

	resp, wrongPass := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "pepe@example.com",
		"password": "not-the-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

	resp, unknown := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "Str0ng!Pass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, "Incorrect email or password", wrongPass["detail"])
	assert.Equal(t, wrongPass["detail"], unknown["detail"])
}

func TestLoginInactiveAccount(t *testing.T) {
	env := setupEnv(t, false)

	user := env.registerUser(t, "peperone", "pepe@example.com", "Str0ng!Pass")

	repo := auth.NewRepositoryManager(env.db)
	record, err := repo.Users().GetByIdentifier(context.Background(), user["id"].(string))
	require.NoError(t, err)

	_, err = repo.Users().SetActive(context.Background(), record.ID, false)
	require.NoError(t, err)

	resp, body := env.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "pepe@example.com",
		"password": "Str0ng!Pass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Account is inactive", body["detail"])
}

func TestTokenFormLogin(t *testing.T) {
	env := setupEnv(t, false)

	env.registerUser(t, "peperone", "pepe@example.com", "Str0ng!Pass")

	form := url.Values{}
	form.Set("username", "pepe@example.com")
	form.Set("password", "Str0ng!Pass")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := env.srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
}

func TestMeRequiresToken(t *testing.T) {
	env := setupEnv(t, false)

	resp, _ := env.request(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/auth/me", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestContentRoutesDisabledByDefault(t *testing.T) {
	env := setupEnv(t, false)

	resp, _ := env.request(t, http.MethodGet, "/api/posts/", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContentWritesRequireAdmin(t *testing.T) {
	env := setupEnv(t, true)

	env.registerUser(t, "peperone", "pepe@example.com", "Str0ng!Pass")
	memberToken := env.loginToken(t, "pepe@example.com", "Str0ng!Pass")

	// Reads are public.
	resp, _ := env.request(t, http.MethodGet, "/api/posts/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	post := map[string]any{
		"title":   "Hello",
		"content": "First post",
		"author":  "peperone",
	}

	resp, _ = env.request(t, http.MethodPost, "/api/posts/", post, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.request(t, http.MethodPost, "/api/posts/", post, map[string]string{
		"Authorization": "Bearer " + memberToken,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not enough permissions", body["detail"])
}

func TestContentAndStatsAsAdmin(t *testing.T) {
	env := setupEnv(t, true)

	resp, body := env.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Admin User",
		"username": "daadmin",
		"email":    "admin@example.com",
		"password": "Str0ng!Pass",
		"role":     "admin",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register body: %v", body)

	token := env.loginToken(t, "admin@example.com", "Str0ng!Pass")
	authHeader := map[string]string{"Authorization": "Bearer " + token}

	resp, created := env.request(t, http.MethodPost, "/api/posts/", map[string]any{
		"title":   "Hello",
		"content": "First post",
		"author":  "daadmin",
	}, authHeader)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create body: %v", created)
	assert.Equal(t, "draft", created["status"])

	postID, _ := created["id"].(string)
	require.NotEmpty(t, postID)

	resp, published := env.request(t, http.MethodPatch, "/api/posts/"+postID+"/publish", nil, authHeader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "published", published["status"])
	assert.NotEmpty(t, published["published_at"])

	resp, dashboard := env.request(t, http.MethodGet, "/api/stats/dashboard", nil, authHeader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), dashboard["blog_posts"])
	assert.Equal(t, float64(1243), dashboard["quote_api_requests"])
	assert.Equal(t, "99.9%", dashboard["uptime"])
}

func TestStatsRequiresAdmin(t *testing.T) {
	env := setupEnv(t, true)

	env.registerUser(t, "peperone", "pepe@example.com", "Str0ng!Pass")
	token := env.loginToken(t, "pepe@example.com", "Str0ng!Pass")

	resp, _ := env.request(t, http.MethodGet, "/api/stats/dashboard", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
