package repository

import (
	"context"

	"staffadmin/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, params ListParams) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Omit("User").Create(entry).Error
}

// List returns newest first; Search matches the action name exactly.
func (r *auditRepository) List(ctx context.Context, params ListParams) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	query := GetDB(ctx, r.db).Model(&model.AuditLog{})
	if params.Search != "" {
		query = query.Where("action = ?", params.Search)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query, params).Preload("User").Order("created_at desc, id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
