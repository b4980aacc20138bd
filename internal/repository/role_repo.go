package repository

import (
	"context"

	"staffadmin/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	// ListAll returns every role with UserCount filled in.
	ListAll(ctx context.Context) ([]model.Role, error)
	CountUsers(ctx context.Context, roleID uint) (int64, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return translate(GetDB(ctx, r.db).Create(role).Error)
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return translate(GetDB(ctx, r.db).Save(role).Error)
}

func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Role{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).First(&role, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	count, err := r.CountUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	role.UserCount = count
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

type roleCount struct {
	RoleID uint
	Total  int64
}

func (r *roleRepository) ListAll(ctx context.Context) ([]model.Role, error) {
	db := GetDB(ctx, r.db)

	var roles []model.Role
	if err := db.Order("id asc").Find(&roles).Error; err != nil {
		return nil, err
	}

	var counts []roleCount
	if err := db.Model(&model.User{}).
		Select("role_id, COUNT(*) AS total").
		Group("role_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byRole := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byRole[c.RoleID] = c.Total
	}
	for i := range roles {
		roles[i].UserCount = byRole[roles[i].ID]
	}
	return roles, nil
}

func (r *roleRepository) CountUsers(ctx context.Context, roleID uint) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Where("role_id = ?", roleID).Count(&total).Error
	return total, err
}
