package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admindash/auth"
)

func newAuther(t *testing.T, active bool) auth.Authenticator {
	t.Helper()

	store := newFakeStore(t, "S3cret!pass", active)
	provider := auth.NewUserProvider(store, auth.NewPasswordHasher(6), nil)
	tokens := auth.NewTokenService(signingKey, 30, "", nil, nil)

	return auth.NewAuthenticator(provider, tokens, nil)
}

func TestLoginIssuesValidToken(t *testing.T) {
	auther := newAuther(t, true)

	token, err := auther.Login(context.Background(), "pepe@example.com", "S3cret!pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auther.TokenService().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "peperone", claims.Subject())
	assert.Equal(t, "member", claims.Role())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auther := newAuther(t, true)

	_, err := auther.Login(context.Background(), "pepe@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, auth.IsInvalidCredentials(err))
}

func TestLoginRejectsInactive(t *testing.T) {
	auther := newAuther(t, false)

	_, err := auther.Login(context.Background(), "pepe@example.com", "S3cret!pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestImpersonateSkipsPassword(t *testing.T) {
	auther := newAuther(t, true)

	token, err := auther.Impersonate(context.Background(), "peperone")
	require.NoError(t, err)

	claims, err := auther.TokenService().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "peperone", claims.Subject())

	_, err = auther.Impersonate(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}
