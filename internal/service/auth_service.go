package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"staffadmin/internal/model"
	"staffadmin/internal/permission"
	"staffadmin/internal/repository"
	"staffadmin/internal/session"
	"staffadmin/pkg/apperror"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionUser is the client view of a session.
type SessionUser struct {
	UserID      uint                 `json:"userId"`
	Username    string               `json:"username"`
	Role        string               `json:"role"`
	Permissions *permission.Document `json:"permissions"`
}

// LoginResult carries the signed token for the cookie and the user view.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      SessionUser
}

// SessionView answers GET /api/auth/session.
type SessionView struct {
	User             SessionUser       `json:"user"`
	ExpiresAt        time.Time         `json:"expiresAt"`
	EmployeePolicy   permission.Policy `json:"employeePolicy"`
	DashboardWidgets []string          `json:"dashboardWidgets"`
}

var errInvalidCredentials = apperror.NewUnauthorized("Invalid username or password")

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Refresh(ctx context.Context, token string) (*LoginResult, error)
	Describe(p *session.Payload) SessionView
}

type authService struct {
	users     repository.UserRepository
	auditRepo repository.AuditRepository
	hasher    PasswordHasher
	sessions  *session.Manager
	resolver  *permission.Resolver
}

func NewAuthService(users repository.UserRepository, auditRepo repository.AuditRepository, hasher PasswordHasher, sessions *session.Manager, resolver *permission.Resolver) AuthService {
	if resolver == nil {
		resolver = permission.Default
	}
	return &authService{users: users, auditRepo: auditRepo, hasher: hasher, sessions: sessions, resolver: resolver}
}

// Login checks the password and mints a session. Unknown user and wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperror.NewValidation("Username and password are required")
	}

	user, err := s.users.GetByName(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, internalError("load user for login", err)
	}
	if err := s.hasher.Verify(req.Password, user.Password); err != nil {
		slog.Info("login rejected", "username", username)
		return nil, errInvalidCredentials
	}
	if user.Role == nil {
		return nil, internalError("load user for login", errors.New("user has no role"))
	}

	payload := session.Payload{
		Username:    user.Name,
		Role:        user.Role.Name,
		UserID:      user.ID,
		Permissions: s.snapshot(user.Role),
	}
	token, expiresAt, err := s.sessions.Mint(payload)
	if err != nil {
		return nil, internalError("mint session", err)
	}

	actor := &Actor{UserID: user.ID, Username: user.Name, Role: user.Role.Name}
	if err := writeAudit(ctx, s.auditRepo, actor, model.ActionLogin, user.ID, user.Name, nil); err != nil {
		slog.Warn("login audit failed", "error", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: toSessionUser(&payload)}, nil
}

// Refresh re-signs a still-valid session with a fresh expiry.
func (s *authService) Refresh(_ context.Context, token string) (*LoginResult, error) {
	renewed, p, err := s.sessions.Renew(token)
	if err != nil {
		if errors.Is(err, session.ErrInvalid) {
			return nil, apperror.NewUnauthorized("Unauthorized")
		}
		return nil, internalError("renew session", err)
	}
	return &LoginResult{Token: renewed, ExpiresAt: p.ExpiresAt, User: toSessionUser(p)}, nil
}

func (s *authService) Describe(p *session.Payload) SessionView {
	return SessionView{
		User:             toSessionUser(p),
		ExpiresAt:        p.ExpiresAt,
		EmployeePolicy:   s.resolver.EmployeePolicy(p.Permissions, p.Role),
		DashboardWidgets: s.resolver.DashboardWidgets(p.Permissions, p.Role),
	}
}

// snapshot is the document embedded in the session. The super role always
// gets the full document regardless of what is stored.
func (s *authService) snapshot(role *model.Role) *permission.Document {
	if s.resolver.IsSuper(role.Name) {
		return permission.FullAccess()
	}
	doc, err := permission.Parse(role.Permissions)
	if err != nil {
		slog.Warn("stored permissions are not an object", "role", role.Name)
		return nil
	}
	return doc
}

func toSessionUser(p *session.Payload) SessionUser {
	return SessionUser{UserID: p.UserID, Username: p.Username, Role: p.Role, Permissions: p.Permissions}
}
