package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"staffadmin/internal/model"
	"staffadmin/internal/repository"

	"gorm.io/datatypes"
)

type AuditLogResponse struct {
	ID         uint            `json:"id"`
	UserID     *uint           `json:"userId"`
	Username   string          `json:"username"`
	Action     string          `json:"action"`
	EntityID   string          `json:"entityId"`
	EntityName string          `json:"entityName"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  string          `json:"createdAt"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, params repository.ListParams) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs lists entries newest first; params.Search filters by action.
func (s *auditService) GetAuditLogs(ctx context.Context, params repository.ListParams) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, internalError("list audit logs", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		if l.User != nil {
			username = l.User.Name
		}
		res = append(res, AuditLogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    json.RawMessage(l.Details),
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, total, nil
}

// writeAudit records one entry with ctx, joining the caller's transaction.
func writeAudit(ctx context.Context, repo repository.AuditRepository, actor *Actor, action string, entityID uint, entityName string, details any) error {
	entry := &model.AuditLog{
		UserID:     actor.userID(),
		Action:     action,
		EntityID:   strconv.FormatUint(uint64(entityID), 10),
		EntityName: entityName,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
		entry.Details = datatypes.JSON(raw)
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
