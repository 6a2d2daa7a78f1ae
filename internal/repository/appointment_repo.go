package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"noah/backend/internal/model"
	pkgerrors "noah/backend/pkg/errors"
)

// AppointmentListFilters 预约列表过滤条件
type AppointmentListFilters struct {
	CustomerID     string
	ProfessionalID string
	Status         string
	From           *time.Time
	To             *time.Time
}

// AppointmentRepository 预约数据访问接口
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	BatchCreate(ctx context.Context, appointments []model.Appointment) error
	GetByID(ctx context.Context, companyID, id string) (*model.Appointment, error)
	ListWithFilters(ctx context.Context, companyID string, filters *AppointmentListFilters, offset, limit int) ([]model.Appointment, int64, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	Delete(ctx context.Context, companyID, id string, deletedBy string) error
}

// appointmentRepo AppointmentRepository 的 GORM 实现
type appointmentRepo struct {
	db *gorm.DB
}

// NewAppointmentRepo 创建 AppointmentRepository 实例
func NewAppointmentRepo(db *gorm.DB) AppointmentRepository {
	return &appointmentRepo{db: db}
}

func (r *appointmentRepo) Create(ctx context.Context, appointment *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepo) BatchCreate(ctx context.Context, appointments []model.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(appointments, 100).Error
}

func (r *appointmentRepo) GetByID(ctx context.Context, companyID, id string) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Team").
		Where("company_id = ? AND appointment_id = ?", companyID, id).
		First(&appointment).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepo) ListWithFilters(ctx context.Context, companyID string, filters *AppointmentListFilters, offset, limit int) ([]model.Appointment, int64, error) {
	var appointments []model.Appointment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("company_id = ?", companyID)

	if filters != nil {
		if filters.CustomerID != "" {
			db = db.Where("customer_id = ?", filters.CustomerID)
		}
		if filters.ProfessionalID != "" {
			db = db.Where("professional_id = ?", filters.ProfessionalID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.From != nil {
			db = db.Where("scheduled_at >= ?", *filters.From)
		}
		if filters.To != nil {
			db = db.Where("scheduled_at < ?", *filters.To)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Customer").
		Offset(offset).Limit(limit).
		Order("scheduled_at DESC").
		Find(&appointments).Error; err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

// Update 乐观锁条件更新：version 不匹配时返回 ErrOptimisticLock
func (r *appointmentRepo) Update(ctx context.Context, appointment *model.Appointment) error {
	oldVersion := appointment.Version
	result := r.db.WithContext(ctx).
		Model(appointment).
		Where("appointment_id = ? AND version = ?", appointment.AppointmentID, oldVersion).
		Updates(map[string]interface{}{
			"customer_id":      appointment.CustomerID,
			"professional_id":  appointment.ProfessionalID,
			"team_id":          appointment.TeamID,
			"service_type":     appointment.ServiceType,
			"address":          appointment.Address,
			"scheduled_at":     appointment.ScheduledAt,
			"duration_minutes": appointment.DurationMinutes,
			"status":           appointment.Status,
			"notes":            appointment.Notes,
			"updated_by":       appointment.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	appointment.Version = oldVersion + 1
	return nil
}

func (r *appointmentRepo) Delete(ctx context.Context, companyID, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("company_id = ? AND appointment_id = ?", companyID, id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
