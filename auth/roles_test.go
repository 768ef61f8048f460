package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"admindash/auth"
)

func TestRoleHierarchy(t *testing.T) {
	tests := []struct {
		role    auth.UserRole
		minRole auth.UserRole
		want    bool
	}{
		{auth.RoleOwner, auth.RoleAdmin, true},
		{auth.RoleAdmin, auth.RoleAdmin, true},
		{auth.RoleMember, auth.RoleAdmin, false},
		{auth.RoleGuest, auth.RoleMember, false},
		{auth.RoleMember, auth.RoleGuest, true},
		{auth.RoleAdmin, auth.RoleOwner, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.IsAtLeast(tt.minRole),
			"%s at least %s", tt.role, tt.minRole)
	}
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, auth.RoleGuest.CanRead())
	assert.False(t, auth.RoleGuest.CanEdit())

	assert.True(t, auth.RoleMember.CanEdit())
	assert.False(t, auth.RoleMember.CanCreate())

	assert.True(t, auth.RoleAdmin.CanCreate())
	assert.False(t, auth.RoleAdmin.CanDelete())

	assert.True(t, auth.RoleOwner.CanDelete())
}

func TestParseRole(t *testing.T) {
	role, ok := auth.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleAdmin, role)

	_, ok = auth.ParseRole("superuser")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	for _, role := range auth.GetAllRoles() {
		assert.True(t, role.IsValid())
	}
	assert.False(t, auth.UserRole("superuser").IsValid())
}
