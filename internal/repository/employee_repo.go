package repository

import (
	"context"
	"strings"

	"staffadmin/internal/model"

	"gorm.io/gorm"
)

// EmployeeFilter narrows employee listings. CreatedByID restricts results to
// records created by that user; nil means every record.
type EmployeeFilter struct {
	ListParams
	CreatedByID *uint
	Position    string
}

// EmployeeRepository is implemented by the gorm store and the in-memory store.
type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	GetByID(ctx context.Context, id uint) (*model.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error)
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id uint) error
	// DeleteMany removes the given ids and reports how many existed.
	DeleteMany(ctx context.Context, ids []uint) (int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *model.Employee) error {
	return translate(GetDB(ctx, r.db).Create(e).Error)
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*model.Employee, error) {
	var e model.Employee
	if err := GetDB(ctx, r.db).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Employee{})
	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}
	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter.ListParams).Order("id asc").Find(&employees).Error; err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// Update overwrites the editable columns; ownership and creation time are kept.
func (r *employeeRepository) Update(ctx context.Context, e *model.Employee) error {
	res := GetDB(ctx, r.db).Model(&model.Employee{ID: e.ID}).
		Select("name", "join_date", "position", "gender", "dob", "phone", "nrc", "address").
		Updates(e)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := GetDB(ctx, r.db).Where("id IN ?", ids).Delete(&model.Employee{})
	return res.RowsAffected, res.Error
}
