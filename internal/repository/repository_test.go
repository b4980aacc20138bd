package repository

import (
	"context"
	"errors"
	"testing"

	"staffadmin/internal/database"
	"staffadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestDB()
	require.NoError(t, err)
	return db
}

func createRole(t *testing.T, repo RoleRepository, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name, Description: name + " role", Status: model.RoleStatusActive, Permissions: datatypes.JSON(`{}`)}
	require.NoError(t, repo.Create(context.Background(), role))
	return role
}

func createUser(t *testing.T, repo UserRepository, name string, roleID uint) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: name + "@example.com", Password: "hash", RoleID: roleID}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestRoleRepository(t *testing.T) {
	db := setupTestDB(t)
	roles := NewRoleRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	admin := createRole(t, roles, "Administrator")
	staff := createRole(t, roles, "Staff")
	createUser(t, users, "alice", staff.ID)
	createUser(t, users, "bob", staff.ID)
	createUser(t, users, "carol", admin.ID)

	t.Run("list fills user counts", func(t *testing.T) {
		list, err := roles.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Administrator", list[0].Name)
		assert.EqualValues(t, 1, list[0].UserCount)
		assert.EqualValues(t, 2, list[1].UserCount)
	})

	t.Run("find by id fills user count", func(t *testing.T) {
		found, err := roles.FindByID(ctx, staff.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, found.UserCount)
	})

	t.Run("find by name is exact", func(t *testing.T) {
		_, err := roles.FindByName(ctx, "staff")
		assert.ErrorIs(t, err, ErrNotFound)

		found, err := roles.FindByName(ctx, "Staff")
		require.NoError(t, err)
		assert.Equal(t, staff.ID, found.ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := roles.Create(ctx, &model.Role{Name: "Staff", Permissions: datatypes.JSON(`{}`)})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("update", func(t *testing.T) {
		staff.Description = "updated"
		require.NoError(t, roles.Update(ctx, staff))

		found, err := roles.FindByID(ctx, staff.ID)
		require.NoError(t, err)
		assert.Equal(t, "updated", found.Description)
	})

	t.Run("delete missing", func(t *testing.T) {
		assert.ErrorIs(t, roles.Delete(ctx, 999), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		empty := createRole(t, roles, "Empty")
		require.NoError(t, roles.Delete(ctx, empty.ID))
		_, err := roles.FindByID(ctx, empty.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	roles := NewRoleRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	role := createRole(t, roles, "Staff")
	alice := createUser(t, users, "alice", role.ID)
	createUser(t, users, "bob", role.ID)
	createUser(t, users, "alina", role.ID)

	t.Run("get by name preloads role", func(t *testing.T) {
		u, err := users.GetByName(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, u.Role)
		assert.Equal(t, "Staff", u.Role.Name)
	})

	t.Run("get by email", func(t *testing.T) {
		u, err := users.GetByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Name)

		_, err = users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list paginates and searches", func(t *testing.T) {
		page, total, err := users.List(ctx, ListParams{Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, page, 2)

		found, total, err := users.List(ctx, ListParams{Search: "ALI"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, found, 2)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, &model.User{Name: "other", Email: "alice@example.com", Password: "x", RoleID: role.ID})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("update", func(t *testing.T) {
		alice.Email = "alice@corp.example"
		require.NoError(t, users.Update(ctx, alice))
		u, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@corp.example", u.Email)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, alice.ID))
		assert.ErrorIs(t, users.Delete(ctx, alice.ID), ErrNotFound)
	})
}

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	audit := NewAuditRepository(db)
	ctx := context.Background()

	require.NoError(t, audit.Log(ctx, &model.AuditLog{Action: model.ActionCreateRole, EntityID: "1"}))
	require.NoError(t, audit.Log(ctx, &model.AuditLog{Action: model.ActionDeleteRole, EntityID: "1"}))

	logs, total, err := audit.List(ctx, ListParams{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, model.ActionDeleteRole, logs[0].Action)

	logs, total, err = audit.List(ctx, ListParams{Search: model.ActionCreateRole})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, model.ActionCreateRole, logs[0].Action)
}

func TestTransactionManager(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db)
	roles := NewRoleRepository(db)
	ctx := context.Background()

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := tm.RunInTx(ctx, func(txCtx context.Context) error {
			assert.True(t, InTx(txCtx))
			require.NoError(t, roles.Create(txCtx, &model.Role{Name: "Temp", Permissions: datatypes.JSON(`{}`)}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = roles.FindByName(ctx, "Temp")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("commit", func(t *testing.T) {
		err := tm.RunInTx(ctx, func(txCtx context.Context) error {
			return tm.RunInTx(txCtx, func(inner context.Context) error {
				return roles.Create(inner, &model.Role{Name: "Kept", Permissions: datatypes.JSON(`{}`)})
			})
		})
		require.NoError(t, err)

		_, err = roles.FindByName(ctx, "Kept")
		assert.NoError(t, err)
	})
}
