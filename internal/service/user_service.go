package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"staffadmin/internal/model"
	"staffadmin/internal/repository"
	"staffadmin/pkg/apperror"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	RoleID   uint   `json:"roleId" binding:"required"`
}

// UpdateUserRequest replaces name, email and role. Password is optional.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	RoleID   uint   `json:"roleId" binding:"required"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	RoleID      uint   `json:"roleId"`
	RoleName    string `json:"roleName"`
	IsProtected bool   `json:"isProtected"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

const (
	msgEmailExists    = "Email already exists"
	msgUsernameExists = "Username already exists"
)

var errUserNotFound = apperror.NewNotFound("User not found")

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actor *Actor, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	ListUsers(ctx context.Context, params repository.ListParams) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor *Actor, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor *Actor, id uint) error
}

type userService struct {
	repo          repository.UserRepository
	roleRepo      repository.RoleRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hasher        PasswordHasher
	notifier      Notifier
	adminUsername string
}

// NewUserService returns a new instance of UserService. adminUsername marks
// the seeded account as protected in responses.
func NewUserService(
	repo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hasher PasswordHasher,
	notifier Notifier,
	adminUsername string,
) UserService {
	return &userService{
		repo:          repo,
		roleRepo:      roleRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hasher:        hasher,
		notifier:      notifierOrNoop(notifier),
		adminUsername: adminUsername,
	}
}

func (s *userService) mapToResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		RoleID:      user.RoleID,
		IsProtected: user.Name == s.adminUsername,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}
	if user.Role != nil {
		resp.RoleName = user.Role.Name
	}
	return resp
}

func (s *userService) CreateUser(ctx context.Context, actor *Actor, req CreateUserRequest) (*UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" || req.RoleID == 0 {
		return nil, apperror.NewValidation("Name, email, password and roleId are required")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	user := &model.User{Name: name, Email: email, Password: hashed, RoleID: req.RoleID}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.findRole(txCtx, req.RoleID)
		if err != nil {
			return err
		}
		if err := s.ensureUnique(txCtx, 0, name, email); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.NewConflict(msgEmailExists)
			}
			return err
		}
		user.Role = role
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionCreateUser, user.ID, user.Name, map[string]any{"email": email, "roleId": req.RoleID})
	})
	if err != nil {
		return nil, wrapUnexpected("create user", err)
	}

	s.notifier.Publish(EventUserCreated, user.ID)
	return s.mapToResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, internalError("get user", err)
	}
	return s.mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, params repository.ListParams) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, internalError("list users", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *s.mapToResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor *Actor, id uint, req UpdateUserRequest) (*UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.RoleID == 0 {
		return nil, apperror.NewValidation("Name, email and roleId are required")
	}

	var hashed string
	if req.Password != "" {
		var err error
		if hashed, err = s.hasher.Hash(req.Password); err != nil {
			return nil, internalError("hash password", err)
		}
	}

	var user *model.User
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			if isNotFound(err) {
				return errUserNotFound
			}
			return err
		}
		role, err := s.findRole(txCtx, req.RoleID)
		if err != nil {
			return err
		}
		if err := s.ensureUnique(txCtx, id, name, email); err != nil {
			return err
		}

		user.Name = name
		user.Email = email
		user.RoleID = role.ID
		user.Role = role
		if hashed != "" {
			user.Password = hashed
		}
		if err := s.repo.Update(txCtx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.NewConflict(msgEmailExists)
			}
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionUpdateUser, user.ID, user.Name, map[string]any{
			"email":           email,
			"roleId":          role.ID,
			"passwordChanged": hashed != "",
		})
	})
	if err != nil {
		return nil, wrapUnexpected("update user", err)
	}

	s.notifier.Publish(EventUserUpdated, user.ID)
	return s.mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *Actor, id uint) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if isNotFound(err) {
				return errUserNotFound
			}
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionDeleteUser, user.ID, user.Name, nil)
	})
	if err != nil {
		return wrapUnexpected("delete user", err)
	}

	s.notifier.Publish(EventUserDeleted, id)
	return nil
}

func (s *userService) findRole(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NewValidation("Role does not exist")
		}
		return nil, err
	}
	return role, nil
}

// ensureUnique rejects a name or email held by a user other than selfID.
func (s *userService) ensureUnique(ctx context.Context, selfID uint, name, email string) error {
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil {
		if existing.ID != selfID {
			return apperror.NewConflict(msgEmailExists)
		}
	} else if !isNotFound(err) {
		return err
	}

	if existing, err := s.repo.GetByName(ctx, name); err == nil {
		if existing.ID != selfID {
			return apperror.NewConflict(msgUsernameExists)
		}
	} else if !isNotFound(err) {
		return err
	}
	return nil
}
