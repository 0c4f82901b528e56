package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, name := range []string{"worker", "admin", "superadmin"} {
		r, err := ParseRole(name)
		assert.NoError(t, err)
		assert.Equal(t, Role(name), r)
	}

	for _, name := range []string{"", "root", "Admin", "SUPERADMIN", "user"} {
		_, err := ParseRole(name)
		assert.Error(t, err, name)
	}
}

func TestIsAllowedTruthTable(t *testing.T) {
	cases := []struct {
		caller, required Role
		ok               bool
	}{
		{RoleWorker, RoleWorker, true},
		{RoleWorker, RoleAdmin, false},
		{RoleWorker, RoleSuperadmin, false},
		{RoleAdmin, RoleWorker, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleSuperadmin, false},
		{RoleSuperadmin, RoleWorker, true},
		{RoleSuperadmin, RoleAdmin, true},
		{RoleSuperadmin, RoleSuperadmin, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, IsAllowed(c.caller, c.required),
			"caller=%s required=%s", c.caller, c.required)
	}
}

func TestIsAllowedDeniesUnknownRoles(t *testing.T) {
	assert.False(t, IsAllowed("", RoleWorker))
	assert.False(t, IsAllowed("root", RoleWorker))
	assert.False(t, IsAllowed(RoleAdmin, "root"))
	assert.False(t, IsAllowed("", ""))
}
