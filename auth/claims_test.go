package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"admindash/auth"
)

func TestJWTClaimsAccessors(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "peperone",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:      "6a44a2a6-d9ab-4a3e-88c6-67f17d586017",
		UserRole: "admin",
	}

	assert.Equal(t, "peperone", claims.Subject())
	assert.Equal(t, "6a44a2a6-d9ab-4a3e-88c6-67f17d586017", claims.UserID())
	assert.Equal(t, "admin", claims.Role())
	assert.Equal(t, now, claims.IssuedAt())
	assert.Equal(t, now.Add(time.Hour), claims.Expires())
}

func TestJWTClaimsRoleChecks(t *testing.T) {
	claims := &auth.JWTClaims{UserRole: "member"}

	assert.True(t, claims.HasRole("member"))
	assert.False(t, claims.HasRole("admin"))

	assert.True(t, claims.IsAtLeast("guest"))
	assert.True(t, claims.IsAtLeast("member"))
	assert.False(t, claims.IsAtLeast("admin"))
}

func TestJWTClaimsEmptyTimes(t *testing.T) {
	claims := &auth.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
