package service

import (
	"context"
	"testing"

	"staffadmin/internal/permission"
	"staffadmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedService_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService()
	ctx := context.Background()

	first, err := svc.Seed(ctx, "Admin", "137245")
	require.NoError(t, err)
	assert.True(t, first.RoleCreated)
	assert.True(t, first.UserCreated)

	second, err := svc.Seed(ctx, "Admin", "changed-pass")
	require.NoError(t, err)
	assert.False(t, second.RoleCreated)
	assert.False(t, second.UserCreated)
	assert.Equal(t, first.RoleID, second.RoleID)
	assert.Equal(t, first.UserID, second.UserID)

	roles, err := env.roles.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, permission.SuperRoleName, roles[0].Name)
	assert.JSONEq(t, string(permission.FullAccess().MustJSON()), string(roles[0].Permissions))

	_, total, err := env.users.List(ctx, repository.ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	admin, err := env.users.GetByName(ctx, "Admin")
	require.NoError(t, err)
	assert.NoError(t, env.hasher.Verify("changed-pass", admin.Password))
	assert.Error(t, env.hasher.Verify("137245", admin.Password))
}

func TestSeedService_RestoresFullDocument(t *testing.T) {
	env := newTestEnv(t)
	env.addRole(t, permission.SuperRoleName, `{"dashboard":{"lists":{"totalEmployees":false}}}`)

	res, err := env.seedService().Seed(context.Background(), "Admin", "137245")
	require.NoError(t, err)
	assert.False(t, res.RoleCreated)

	role, err := env.roles.FindByID(context.Background(), res.RoleID)
	require.NoError(t, err)
	assert.JSONEq(t, string(permission.FullAccess().MustJSON()), string(role.Permissions))
}

func TestSeedService_RequiresCredentials(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.seedService().Seed(context.Background(), "", "x")
	assert.Error(t, err)
}
