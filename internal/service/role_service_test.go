package service

import (
	"context"
	"encoding/json"
	"testing"

	"staffadmin/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRoleService_CreateRole(t *testing.T) {
	env := newTestEnv(t)
	svc := env.roleService()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		resp, err := svc.CreateRole(ctx, adminActor(), CreateRoleRequest{
			Name:        "Staff",
			Description: "Regular staff",
			Permissions: json.RawMessage(`{"employeeManagement":{"fields":{"name":true}}}`),
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "Active", resp.Status)
		assert.False(t, resp.IsProtected)
		assert.JSONEq(t, `{"employeeManagement":{"fields":{"name":true}}}`, string(resp.Permissions))
		assert.EqualValues(t, 1, env.auditCount(t, "CREATE_ROLE"))
		assert.Contains(t, env.notifier.Events(), event{EventRoleCreated, resp.ID})
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, adminActor(), CreateRoleRequest{
			Name: "Staff", Description: "again", Permissions: json.RawMessage(`{}`),
		})
		assertAppError(t, err, apperror.TypeConflict, "Role name already exists")
	})

	t.Run("name match is case sensitive", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, adminActor(), CreateRoleRequest{
			Name: "staff", Description: "lower", Permissions: json.RawMessage(`{}`),
		})
		assert.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, adminActor(), CreateRoleRequest{Name: "X", Permissions: json.RawMessage(`{}`)})
		assertAppError(t, err, apperror.TypeValidation, "")

		_, err = svc.CreateRole(ctx, adminActor(), CreateRoleRequest{Name: "X", Description: "d"})
		assertAppError(t, err, apperror.TypeValidation, "")
	})

	t.Run("permissions must be an object", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, adminActor(), CreateRoleRequest{Name: "Y", Description: "d", Permissions: json.RawMessage(`[1,2]`)})
		assertAppError(t, err, apperror.TypeValidation, "Permissions must be a JSON object")
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, adminActor(), CreateRoleRequest{Name: "Z", Description: "d", Status: "Paused", Permissions: json.RawMessage(`{}`)})
		assertAppError(t, err, apperror.TypeValidation, "")
	})
}

func TestRoleService_UpdateRole(t *testing.T) {
	env := newTestEnv(t)
	svc := env.roleService()
	ctx := context.Background()

	first := env.addRole(t, "Manager", `{}`)
	env.addRole(t, "Staff", `{}`)

	t.Run("rename collision", func(t *testing.T) {
		_, err := svc.UpdateRole(ctx, adminActor(), first.ID, UpdateRoleRequest{Name: strPtr("Staff")})
		assertAppError(t, err, apperror.TypeValidation, "Role name already exists")
		assert.Equal(t, 400, err.(*apperror.AppError).Code)
	})

	t.Run("same name is not a collision", func(t *testing.T) {
		resp, err := svc.UpdateRole(ctx, adminActor(), first.ID, UpdateRoleRequest{Name: strPtr("Manager"), Description: strPtr("Leads a team")})
		require.NoError(t, err)
		assert.Equal(t, "Leads a team", resp.Description)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		resp, err := svc.UpdateRole(ctx, adminActor(), first.ID, UpdateRoleRequest{Color: strPtr("#00ff00")})
		require.NoError(t, err)
		assert.Equal(t, "Manager", resp.Name)
		assert.Equal(t, "Leads a team", resp.Description)
		assert.Equal(t, "#00ff00", resp.Color)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.UpdateRole(ctx, adminActor(), first.ID, UpdateRoleRequest{Name: strPtr("  ")})
		assertAppError(t, err, apperror.TypeValidation, "")
	})

	t.Run("empty description", func(t *testing.T) {
		_, err := svc.UpdateRole(ctx, adminActor(), first.ID, UpdateRoleRequest{Description: strPtr(" \t")})
		assertAppError(t, err, apperror.TypeValidation, "Role description cannot be empty")

		still, err := svc.GetRole(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Leads a team", still.Description)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateRole(ctx, adminActor(), 999, UpdateRoleRequest{Name: strPtr("X")})
		assertAppError(t, err, apperror.TypeNotFound, "Role not found")
	})
}

func TestRoleService_UpdateRolePermissions_KeepsShape(t *testing.T) {
	env := newTestEnv(t)
	svc := env.roleService()
	role := env.addRole(t, "Staff", `{}`)

	doc := `{"employeeManagement":{"fields":{"name":true,"dob":{"read":true,"write":false}},"actions":{"view":{"enabled":true,"scope":"team"},"edit":false}}}`
	resp, err := svc.UpdateRolePermissions(context.Background(), adminActor(), role.ID, UpdateRolePermissionsRequest{Permissions: json.RawMessage(doc)})
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(resp.Permissions))

	_, err = svc.UpdateRolePermissions(context.Background(), adminActor(), role.ID, UpdateRolePermissionsRequest{Permissions: json.RawMessage(`null`)})
	assertAppError(t, err, apperror.TypeValidation, "")
}

func TestRoleService_DeleteRole(t *testing.T) {
	env := newTestEnv(t)
	svc := env.roleService()
	ctx := context.Background()

	env.addRole(t, "Administrator", `{}`)
	busy := env.addRole(t, "Staff", `{}`)
	for _, name := range []string{"u1", "u2", "u3"} {
		env.addUser(t, name, "secret1", busy.ID)
	}

	t.Run("blocked while users are assigned", func(t *testing.T) {
		err := svc.DeleteRole(ctx, adminActor(), busy.ID)
		assertAppError(t, err, apperror.TypeValidation, "Cannot delete role with 3 user(s) assigned. Reassign them before deleting.")

		still, err := svc.GetRole(ctx, busy.ID)
		require.NoError(t, err)
		assert.Equal(t, "Staff", still.Name)
		assert.EqualValues(t, 3, still.UserCount)
	})

	t.Run("empty role is deleted", func(t *testing.T) {
		empty := env.addRole(t, "Empty", `{}`)
		require.NoError(t, svc.DeleteRole(ctx, adminActor(), empty.ID))

		_, err := svc.GetRole(ctx, empty.ID)
		assertAppError(t, err, apperror.TypeNotFound, "")
		assert.Contains(t, env.notifier.Events(), event{EventRoleDeleted, empty.ID})
		assert.EqualValues(t, 1, env.auditCount(t, "DELETE_ROLE"))
	})

	t.Run("missing role", func(t *testing.T) {
		assertAppError(t, svc.DeleteRole(ctx, adminActor(), 999), apperror.TypeNotFound, "")
	})
}

func TestRoleService_ListRoles(t *testing.T) {
	env := newTestEnv(t)
	svc := env.roleService()

	admin := env.addRole(t, "Administrator", `{}`)
	env.addRole(t, "Staff", `null`)
	env.addUser(t, "Admin", "137245", admin.ID)

	roles, err := svc.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.True(t, roles[0].IsProtected)
	assert.EqualValues(t, 1, roles[0].UserCount)
	assert.False(t, roles[1].IsProtected)
	assert.Zero(t, roles[1].UserCount)
}
