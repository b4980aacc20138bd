package service

import (
	"context"
	"sync"
	"testing"

	"staffadmin/internal/database"
	"staffadmin/internal/model"
	"staffadmin/internal/permission"
	"staffadmin/internal/repository"
	"staffadmin/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type event struct {
	Type string
	ID   uint
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) Publish(eventType string, id uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{eventType, id})
}

func (n *recordingNotifier) Events() []event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]event(nil), n.events...)
}

type testEnv struct {
	db       *gorm.DB
	roles    repository.RoleRepository
	users    repository.UserRepository
	audit    repository.AuditRepository
	tx       repository.TransactionManager
	hasher   PasswordHasher
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewTestDB()
	require.NoError(t, err)
	return &testEnv{
		db:       db,
		roles:    repository.NewRoleRepository(db),
		users:    repository.NewUserRepository(db),
		audit:    repository.NewAuditRepository(db),
		tx:       repository.NewTransactionManager(db),
		hasher:   NewBcryptPasswordHasher(bcrypt.MinCost),
		notifier: &recordingNotifier{},
	}
}

func (e *testEnv) roleService() RoleService {
	return NewRoleService(e.roles, e.audit, e.tx, e.notifier)
}

func (e *testEnv) userService() UserService {
	return NewUserService(e.users, e.roles, e.audit, e.tx, e.hasher, e.notifier, "Admin")
}

func (e *testEnv) seedService() SeedService {
	return NewSeedService(e.roles, e.users, e.audit, e.tx, e.hasher)
}

func (e *testEnv) addRole(t *testing.T, name, perms string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name, Description: name, Status: model.RoleStatusActive, Permissions: datatypes.JSON(perms)}
	require.NoError(t, e.roles.Create(context.Background(), role))
	return role
}

func (e *testEnv) addUser(t *testing.T, name, password string, roleID uint) *model.User {
	t.Helper()
	hashed, err := e.hasher.Hash(password)
	require.NoError(t, err)
	user := &model.User{Name: name, Email: name + "@example.com", Password: hashed, RoleID: roleID}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	_, total, err := e.audit.List(context.Background(), repository.ListParams{Search: action})
	require.NoError(t, err)
	return total
}

// assertAppError checks the error type and client message.
func assertAppError(t *testing.T, err error, typ apperror.Type, message string) {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, typ, appErr.Type)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func adminActor() *Actor {
	return &Actor{UserID: 1, Username: "Admin", Role: permission.SuperRoleName}
}

func mustDoc(t *testing.T, raw string) *permission.Document {
	t.Helper()
	doc, err := permission.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}
