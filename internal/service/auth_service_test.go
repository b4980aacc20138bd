package service

import (
	"context"
	"testing"
	"time"

	"staffadmin/internal/permission"
	"staffadmin/internal/session"
	"staffadmin/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv, mgr *session.Manager) AuthService {
	return NewAuthService(env.users, env.audit, env.hasher, mgr, nil)
}

func TestAuthService_LoginSeededAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.seedService().Seed(context.Background(), "Admin", "137245")
	require.NoError(t, err)

	mgr := session.NewManager("secret", session.DefaultTTL, false)
	svc := newAuthService(env, mgr)

	res, err := svc.Login(context.Background(), LoginRequest{Username: "Admin", Password: "137245"})
	require.NoError(t, err)
	assert.Equal(t, "Admin", res.User.Username)
	assert.Equal(t, permission.SuperRoleName, res.User.Role)
	assert.JSONEq(t, string(permission.FullAccess().MustJSON()), string(res.User.Permissions.MustJSON()))
	assert.WithinDuration(t, time.Now().Add(session.DefaultTTL), res.ExpiresAt, time.Minute)

	p, err := mgr.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, p.UserID)
	assert.EqualValues(t, 1, env.auditCount(t, "LOGIN"))
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	role := env.addRole(t, "Staff", `{}`)
	env.addUser(t, "alice", "secret1", role.ID)
	svc := newAuthService(env, session.NewManager("secret", 0, false))
	ctx := context.Background()

	tests := []struct {
		name string
		req  LoginRequest
		typ  apperror.Type
		msg  string
	}{
		{"missing username", LoginRequest{Password: "x"}, apperror.TypeValidation, "Username and password are required"},
		{"missing password", LoginRequest{Username: "alice"}, apperror.TypeValidation, "Username and password are required"},
		{"unknown user", LoginRequest{Username: "nobody", Password: "secret1"}, apperror.TypeUnauthorized, "Invalid username or password"},
		{"wrong password", LoginRequest{Username: "alice", Password: "wrong"}, apperror.TypeUnauthorized, "Invalid username or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			assertAppError(t, err, tt.typ, tt.msg)
		})
	}
}

func TestAuthService_LoginSnapshotsStoredDocument(t *testing.T) {
	env := newTestEnv(t)
	role := env.addRole(t, "Staff", `{"employeeManagement":{"fields":{"name":true,"dob":{"read":false,"write":false}}}}`)
	env.addUser(t, "alice", "secret1", role.ID)
	svc := newAuthService(env, session.NewManager("secret", 0, false))

	res, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Staff", res.User.Role)

	policy := permission.EmployeePolicy(res.User.Permissions, res.User.Role)
	assert.True(t, policy.CanRead(permission.FieldName))
	assert.False(t, policy.CanRead(permission.FieldDOB))
}

func TestAuthService_RefreshAndDescribe(t *testing.T) {
	env := newTestEnv(t)
	role := env.addRole(t, "Staff", `{"employeeManagement":{"fields":{"name":true},"actions":{"view":true}},"dashboard":{"lists":{"totalEmployees":true}}}`)
	env.addUser(t, "alice", "secret1", role.ID)

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mgr := session.NewManager("secret", session.DefaultTTL, false, session.WithClock(func() time.Time { return clock }))
	svc := newAuthService(env, mgr)

	res, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	renewed, err := svc.Refresh(context.Background(), res.Token)
	require.NoError(t, err)
	assert.True(t, renewed.ExpiresAt.After(res.ExpiresAt))
	assert.Equal(t, res.User.Username, renewed.User.Username)

	_, err = svc.Refresh(context.Background(), "garbage")
	assertAppError(t, err, apperror.TypeUnauthorized, "")

	p, err := mgr.Parse(renewed.Token)
	require.NoError(t, err)
	view := svc.Describe(p)
	assert.Equal(t, []string{permission.WidgetTotalEmployees}, view.DashboardWidgets)
	assert.Equal(t, []string{permission.ActionView}, view.EmployeePolicy.AvailableActions)
	assert.Equal(t, 1, view.EmployeePolicy.VisibleFieldCount)
}
