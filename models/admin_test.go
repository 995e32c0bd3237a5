package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/apperr"
)

func TestCheckAdminRemovalSelf(t *testing.T) {
	actor := Principal{Email: "boss@freshmart.in", Role: RoleSuperAdmin}
	target := Admin{Email: "boss@freshmart.in", Role: RoleSuperAdmin}

	err := CheckAdminRemoval(actor, target, 3)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.StatusCode(err))
}

func TestCheckAdminRemovalLastSuperAdmin(t *testing.T) {
	actor := Principal{Email: "boss@freshmart.in", Role: RoleSuperAdmin}
	target := Admin{Email: "other@freshmart.in", Role: RoleSuperAdmin}

	err := CheckAdminRemoval(actor, target, 1)
	require.Error(t, err)
	assert.Equal(t, 412, apperr.StatusCode(err))
}

func TestCheckAdminRemovalAllowed(t *testing.T) {
	actor := Principal{Email: "boss@freshmart.in", Role: RoleSuperAdmin}

	// plain admin can always go
	assert.NoError(t, CheckAdminRemoval(actor, Admin{Email: "a@freshmart.in", Role: RoleAdmin}, 1))

	// a second super admin exists
	assert.NoError(t, CheckAdminRemoval(actor, Admin{Email: "b@freshmart.in", Role: RoleSuperAdmin}, 2))

	// an already-disabled super admin does not count against the floor
	assert.NoError(t, CheckAdminRemoval(actor, Admin{Email: "c@freshmart.in", Role: RoleSuperAdmin, Disabled: true}, 1))
}

func TestPrincipalAllowed(t *testing.T) {
	admin := Principal{Role: RoleAdmin}
	super := Principal{Role: RoleSuperAdmin}

	assert.True(t, admin.Allowed(RoleAdmin))
	assert.False(t, admin.Allowed(RoleSuperAdmin))
	assert.True(t, super.Allowed(RoleSuperAdmin))
	assert.True(t, super.Allowed(RoleAdmin, RoleSuperAdmin))
	assert.True(t, super.IsSuperAdmin())
	assert.False(t, admin.IsSuperAdmin())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleSuperAdmin.Valid())
	assert.False(t, Role("user").Valid())
	assert.False(t, Role("").Valid())
}
