package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"staffadmin/internal/model"
	"staffadmin/internal/permission"
	"staffadmin/internal/repository"
	"staffadmin/pkg/apperror"

	"gorm.io/datatypes"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Color       string          `json:"color"`
	Status      string          `json:"status"`
	Permissions json.RawMessage `json:"permissions" binding:"required"`
}

// UpdateRoleRequest is partial: nil fields are left unchanged.
type UpdateRoleRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Color       *string         `json:"color"`
	Status      *string         `json:"status"`
	Permissions json.RawMessage `json:"permissions"`
}

type UpdateRolePermissionsRequest struct {
	Permissions json.RawMessage `json:"permissions" binding:"required"`
}

type RoleResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Status      string          `json:"status"`
	Permissions json.RawMessage `json:"permissions"`
	UserCount   int64           `json:"userCount"`
	IsProtected bool            `json:"isProtected"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

const msgRoleNameExists = "Role name already exists"

var errRoleNotFound = apperror.NewNotFound("Role not found")

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id uint) (*RoleResponse, error)
	CreateRole(ctx context.Context, actor *Actor, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, actor *Actor, id uint, req UpdateRoleRequest) (*RoleResponse, error)
	UpdateRolePermissions(ctx context.Context, actor *Actor, id uint, req UpdateRolePermissionsRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, actor *Actor, id uint) error
}

type roleService struct {
	repo      repository.RoleRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	notifier  Notifier
}

func NewRoleService(repo repository.RoleRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, notifier Notifier) RoleService {
	return &roleService{repo: repo, auditRepo: auditRepo, txManager: txManager, notifier: notifierOrNoop(notifier)}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, internalError("list roles", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		res = append(res, toRoleResponse(&roles[i]))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id uint) (*RoleResponse, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errRoleNotFound
		}
		return nil, internalError("get role", err)
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) CreateRole(ctx context.Context, actor *Actor, req CreateRoleRequest) (*RoleResponse, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" || len(bytes.TrimSpace(req.Permissions)) == 0 {
		return nil, apperror.NewValidation("Name, description and permissions are required")
	}
	doc, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}

	role := model.Role{
		Name:        name,
		Description: description,
		Color:       strings.TrimSpace(req.Color),
		Status:      status,
		Permissions: datatypes.JSON(doc.MustJSON()),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindByName(txCtx, name); err == nil {
			return apperror.NewConflict(msgRoleNameExists)
		} else if !isNotFound(err) {
			return err
		}

		if err := s.repo.Create(txCtx, &role); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.NewConflict(msgRoleNameExists)
			}
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionCreateRole, role.ID, role.Name, map[string]string{"description": role.Description})
	})
	if err != nil {
		return nil, wrapUnexpected("create role", err)
	}

	s.notifier.Publish(EventRoleCreated, role.ID)
	resp := toRoleResponse(&role)
	return &resp, nil
}

func (s *roleService) UpdateRole(ctx context.Context, actor *Actor, id uint, req UpdateRoleRequest) (*RoleResponse, error) {
	var role *model.Role
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		role, err = s.repo.FindByID(txCtx, id)
		if err != nil {
			if isNotFound(err) {
				return errRoleNotFound
			}
			return err
		}

		changes := map[string]any{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperror.NewValidation("Role name cannot be empty")
			}
			if name != role.Name {
				existing, err := s.repo.FindByName(txCtx, name)
				if err == nil && existing.ID != role.ID {
					return apperror.NewValidation(msgRoleNameExists)
				} else if err != nil && !isNotFound(err) {
					return err
				}
				changes["name"] = map[string]string{"from": role.Name, "to": name}
				role.Name = name
			}
		}
		if req.Description != nil {
			description := strings.TrimSpace(*req.Description)
			if description == "" {
				return apperror.NewValidation("Role description cannot be empty")
			}
			role.Description = description
			changes["description"] = role.Description
		}
		if req.Color != nil {
			role.Color = strings.TrimSpace(*req.Color)
			changes["color"] = role.Color
		}
		if req.Status != nil {
			status, err := normalizeStatus(*req.Status)
			if err != nil {
				return err
			}
			role.Status = status
			changes["status"] = status
		}
		if len(req.Permissions) > 0 {
			doc, err := parsePermissions(req.Permissions)
			if err != nil {
				return err
			}
			role.Permissions = datatypes.JSON(doc.MustJSON())
			changes["permissions"] = true
		}

		if err := s.repo.Update(txCtx, role); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.NewValidation(msgRoleNameExists)
			}
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionUpdateRole, role.ID, role.Name, changes)
	})
	if err != nil {
		return nil, wrapUnexpected("update role", err)
	}

	s.notifier.Publish(EventRoleUpdated, role.ID)
	resp := toRoleResponse(role)
	return &resp, nil
}

// UpdateRolePermissions replaces the whole permissions document.
func (s *roleService) UpdateRolePermissions(ctx context.Context, actor *Actor, id uint, req UpdateRolePermissionsRequest) (*RoleResponse, error) {
	doc, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	var role *model.Role
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		role, err = s.repo.FindByID(txCtx, id)
		if err != nil {
			if isNotFound(err) {
				return errRoleNotFound
			}
			return err
		}
		role.Permissions = datatypes.JSON(doc.MustJSON())
		if err := s.repo.Update(txCtx, role); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionUpdateRolePermissions, role.ID, role.Name, nil)
	})
	if err != nil {
		return nil, wrapUnexpected("update role permissions", err)
	}

	s.notifier.Publish(EventRoleUpdated, role.ID)
	resp := toRoleResponse(role)
	return &resp, nil
}

// DeleteRole refuses while any user still references the role.
func (s *roleService) DeleteRole(ctx context.Context, actor *Actor, id uint) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			if isNotFound(err) {
				return errRoleNotFound
			}
			return err
		}
		if role.UserCount > 0 {
			return apperror.NewValidation("Cannot delete role with %d user(s) assigned. Reassign them before deleting.", role.UserCount)
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionDeleteRole, role.ID, role.Name, nil)
	})
	if err != nil {
		return wrapUnexpected("delete role", err)
	}

	s.notifier.Publish(EventRoleDeleted, id)
	return nil
}

// --- helpers ---

// parsePermissions accepts any JSON object; entries of unknown shape are kept
// as they are and resolve to deny.
func parsePermissions(raw json.RawMessage) (*permission.Document, error) {
	doc, err := permission.Parse(raw)
	if err != nil || doc == nil {
		return nil, apperror.NewValidation("Permissions must be a JSON object")
	}
	return doc, nil
}

func normalizeStatus(status string) (string, error) {
	switch strings.TrimSpace(status) {
	case "", model.RoleStatusActive:
		return model.RoleStatusActive, nil
	case model.RoleStatusInactive:
		return model.RoleStatusInactive, nil
	}
	return "", apperror.NewValidation("Status must be Active or Inactive")
}

// wrapUnexpected passes AppErrors through and hides everything else behind a 500.
func wrapUnexpected(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return internalError(op, err)
}

func toRoleResponse(r *model.Role) RoleResponse {
	perms := json.RawMessage(r.Permissions)
	if len(perms) == 0 {
		perms = json.RawMessage("null")
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Status:      r.Status,
		Permissions: perms,
		UserCount:   r.UserCount,
		IsProtected: permission.IsSuperRole(r.Name),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}
