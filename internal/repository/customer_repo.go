package repository

import (
	"context"

	"gorm.io/gorm"

	"noah/backend/internal/model"
)

// CustomerListFilters 客户列表过滤条件
type CustomerListFilters struct {
	Keyword         string
	IncludeInactive bool
}

// CustomerRepository 客户数据访问接口
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, companyID, id string) (*model.Customer, error)
	GetByName(ctx context.Context, companyID, name string) (*model.Customer, error)
	List(ctx context.Context, companyID string, filters *CustomerListFilters, offset, limit int) ([]model.Customer, int64, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, companyID, id string, deletedBy string) error
}

// customerRepo CustomerRepository 的 GORM 实现
type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepo 创建 CustomerRepository 实例
func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepo) GetByID(ctx context.Context, companyID, id string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND customer_id = ?", companyID, id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) GetByName(ctx context.Context, companyID, name string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND LOWER(name) = LOWER(?)", companyID, name).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) List(ctx context.Context, companyID string, filters *CustomerListFilters, offset, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("company_id = ?", companyID)

	if filters != nil {
		if filters.Keyword != "" {
			kw := "%" + escapeLike(filters.Keyword) + "%"
			db = db.Where("name ILIKE ? OR address ILIKE ? OR phone ILIKE ?", kw, kw, kw)
		}
		if !filters.IncludeInactive {
			db = db.Where("is_active = TRUE")
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepo) Delete(ctx context.Context, companyID, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("company_id = ? AND customer_id = ?", companyID, id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
