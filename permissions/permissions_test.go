package permissions_test

import (
	"context"
	"testing"

	"campusbook/permissions"
	"campusbook/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  permissions.Role
		ok    bool
	}{
		{input: "Portal Admin", want: permissions.RolePortalAdmin, ok: true},
		{input: "system admin", want: permissions.RoleSystemAdmin, ok: true},
		{input: " Placement Executive ", want: permissions.RolePlacementExecutive, ok: true},
		{input: "Student Coordinator", want: permissions.RoleStudentCoordinator, ok: true},
		{input: "Faculty", want: permissions.RoleFaculty, ok: true},
		{input: "Admin", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := permissions.ParseRole(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role         permissions.Role
		createDirect bool
		manage       bool
		override     bool
	}{
		{role: permissions.RolePortalAdmin, createDirect: true, manage: true},
		{role: permissions.RoleSystemAdmin, createDirect: true, manage: true},
		{role: permissions.RoleFaculty},
		{role: permissions.RoleStudentCoordinator},
		{role: permissions.RolePlacementExecutive, override: true},
		{role: permissions.Role("")},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.createDirect, tt.role.CanCreateDirect())
			assert.Equal(t, tt.manage, tt.role.CanManageStatus())
			assert.Equal(t, tt.override, tt.role.CanOverride())
		})
	}
}

func TestActorFromContext(t *testing.T) {
	actor := permissions.Actor{
		ID:    "u-7",
		Email: "ravi@campus.edu",
		Name:  "Ravi",
		Role:  permissions.RolePlacementExecutive,
	}

	got := permissions.ActorFromContext(permissions.WithActor(context.Background(), actor))
	assert.Equal(t, actor, got)

	unknown := context.WithValue(context.Background(), constant.ContextKeyUserRole, "Janitor")
	assert.Equal(t, permissions.Role(""), permissions.ActorFromContext(unknown).Role)
}

func TestGet_EmbeddedRoutes(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	priority := data.FindPermissions("/v1/bookings/priority", "POST")
	assert.Equal(t, []string{"Placement Executive"}, priority.Permissions)

	status := data.FindPermissions("/v1/bookings/{id}/status", "PUT")
	assert.ElementsMatch(t, []string{"Portal Admin", "System Admin"}, status.Permissions)

	requests := data.FindPermissions("/v1/bookings/requests", "POST")
	assert.Empty(t, requests.Permissions)

	direct := data.FindPermissions("/v1/bookings/", "POST")
	assert.ElementsMatch(t, []string{"Portal Admin", "System Admin"}, direct.Permissions, "trailing slash ignored")

	missing := data.FindPermissions("/v1/unknown", "GET")
	assert.Equal(t, permissions.Permission{}, missing)
}

func TestPermission_Allows(t *testing.T) {
	admins := permissions.Permission{Permissions: []string{"Portal Admin", "System Admin"}}
	open := permissions.Permission{}

	assert.True(t, admins.Allows("Portal Admin"))
	assert.True(t, admins.Allows("system admin"))
	assert.False(t, admins.Allows("Faculty"))
	assert.False(t, admins.Allows(""))
	assert.True(t, open.Allows("Faculty"))
	assert.True(t, open.Allows(""))
}
