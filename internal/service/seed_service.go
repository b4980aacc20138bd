package service

import (
	"context"
	"fmt"
	"strings"

	"staffadmin/internal/model"
	"staffadmin/internal/permission"
	"staffadmin/internal/repository"

	"gorm.io/datatypes"
)

// SeedResult reports what a bootstrap run changed.
type SeedResult struct {
	RoleID      uint `json:"roleId"`
	RoleCreated bool `json:"roleCreated"`
	UserID      uint `json:"userId"`
	UserCreated bool `json:"userCreated"`
}

type SeedService interface {
	// Seed makes sure the Administrator role carries the full document and
	// that the admin user exists with the given password. Safe to rerun.
	Seed(ctx context.Context, username, password string) (*SeedResult, error)
}

type seedService struct {
	roles     repository.RoleRepository
	users     repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hasher    PasswordHasher
}

func NewSeedService(roles repository.RoleRepository, users repository.UserRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, hasher PasswordHasher) SeedService {
	return &seedService{roles: roles, users: users, auditRepo: auditRepo, txManager: txManager, hasher: hasher}
}

func (s *seedService) Seed(ctx context.Context, username, password string) (*SeedResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("seed: admin username and password are required")
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password: %w", err)
	}

	result := &SeedResult{}
	full := datatypes.JSON(permission.FullAccess().MustJSON())

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.roles.FindByName(txCtx, permission.SuperRoleName)
		switch {
		case isNotFound(err):
			role = &model.Role{
				Name:        permission.SuperRoleName,
				Description: "Full access to every module",
				Color:       "#dc2626",
				Status:      model.RoleStatusActive,
				Permissions: full,
			}
			if err := s.roles.Create(txCtx, role); err != nil {
				return fmt.Errorf("create administrator role: %w", err)
			}
			result.RoleCreated = true
		case err != nil:
			return fmt.Errorf("find administrator role: %w", err)
		default:
			role.Permissions = full
			role.Status = model.RoleStatusActive
			if err := s.roles.Update(txCtx, role); err != nil {
				return fmt.Errorf("update administrator role: %w", err)
			}
		}
		result.RoleID = role.ID

		user, err := s.users.GetByName(txCtx, username)
		switch {
		case isNotFound(err):
			user = &model.User{
				Name:     username,
				Email:    strings.ToLower(username) + "@staffadmin.local",
				Password: hashed,
				RoleID:   role.ID,
			}
			if err := s.users.Create(txCtx, user); err != nil {
				return fmt.Errorf("create admin user: %w", err)
			}
			result.UserCreated = true
		case err != nil:
			return fmt.Errorf("find admin user: %w", err)
		default:
			user.Password = hashed
			user.RoleID = role.ID
			user.Role = nil
			if err := s.users.Update(txCtx, user); err != nil {
				return fmt.Errorf("update admin user: %w", err)
			}
		}
		result.UserID = user.ID

		return writeAudit(txCtx, s.auditRepo, nil, model.ActionSeed, user.ID, user.Name, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
