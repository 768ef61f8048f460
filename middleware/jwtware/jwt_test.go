package jwtware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admindash/auth"
	"admindash/middleware/jwtware"
)

var signingKey = []byte("middleware-test-key")

type staticIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (s staticIdentity) ID() string       { return s.id }
func (s staticIdentity) Username() string { return s.username }
func (s staticIdentity) Email() string    { return s.email }
func (s staticIdentity) Role() string     { return s.role }

func tokenFor(t *testing.T, role string) string {
	t.Helper()

	ts := auth.NewTokenService(signingKey, 30, "", nil, nil)
	token, err := ts.Generate(staticIdentity{
		id:       "8d7d6c2a-13f1-4f8b-a2bb-0a0a1840a1cd",
		username: "peperone",
		email:    "pepe@example.com",
		role:     role,
	})
	require.NoError(t, err)
	return token
}

type validatorAdapter struct {
	tokens auth.TokenService
}

func (a validatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func newApp(cfg jwtware.Config) *fiber.App {
	if cfg.TokenValidator == nil {
		cfg.TokenValidator = validatorAdapter{auth.NewTokenService(signingKey, 30, "", nil, nil)}
	}

	app := fiber.New()
	app.Get("/protected", jwtware.New(cfg), func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(jwtware.AuthClaims)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.JSON(fiber.Map{
			"subject": claims.Subject(),
			"role":    claims.Role(),
		})
	})
	return app
}

func TestMissingTokenRejected(t *testing.T) {
	app := newApp(jwtware.Config{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGarbageTokenRejected(t *testing.T) {
	app := newApp(jwtware.Config{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWrongSchemeRejected(t *testing.T) {
	app := newApp(jwtware.Config{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic "+tokenFor(t, "member"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidTokenPasses(t *testing.T) {
	app := newApp(jwtware.Config{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "member"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMinimumRoleEnforced(t *testing.T) {
	app := newApp(jwtware.Config{MinimumRole: "admin"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "member"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "admin"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequiredRoleEnforced(t *testing.T) {
	app := newApp(jwtware.Config{RequiredRole: "owner"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "admin"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestFilterSkipsAuthentication(t *testing.T) {
	app := newApp(jwtware.Config{
		Filter: func(c *fiber.Ctx) bool { return true },
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQueryTokenLookup(t *testing.T) {
	app := newApp(jwtware.Config{TokenLookup: "query:access_token"})

	req := httptest.NewRequest(http.MethodGet, "/protected?access_token="+tokenFor(t, "member"), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCookieTokenLookup(t *testing.T) {
	app := newApp(jwtware.Config{TokenLookup: "cookie:jwt"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: tokenFor(t, "member")})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
