package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"noah/backend/internal/model"
	pkgerrors "noah/backend/pkg/errors"
)

// CheckRecordFilters 打卡记录列表过滤条件
// 与 dto.CheckRecordListRequest 对应；Status 为空或 "all" 时不过滤
type CheckRecordFilters struct {
	Search         string
	Status         string
	ServiceType    string
	ProfessionalID string
	From           *time.Time
	To             *time.Time
}

// CheckRecordRepository 打卡记录数据访问接口
type CheckRecordRepository interface {
	Create(ctx context.Context, record *model.CheckRecord) error
	GetByID(ctx context.Context, id string) (*model.CheckRecord, error)
	GetByAppointment(ctx context.Context, appointmentID string) (*model.CheckRecord, error)
	GetOpenByProfessional(ctx context.Context, professionalID string) (*model.CheckRecord, error)
	ListPendingByProfessional(ctx context.Context, professionalID string, day time.Time) ([]model.CheckRecord, error)
	ListWithFilters(ctx context.Context, companyID string, filters *CheckRecordFilters, offset, limit int) ([]model.CheckRecord, int64, error)
	ListByCompany(ctx context.Context, companyID string) ([]model.CheckRecord, error)
	Update(ctx context.Context, record *model.CheckRecord) error
	Delete(ctx context.Context, companyID, id string, deletedBy string) error
}

// checkRecordRepo CheckRecordRepository 的 GORM 实现
type checkRecordRepo struct {
	db *gorm.DB
}

// NewCheckRecordRepo 创建 CheckRecordRepository 实例
func NewCheckRecordRepo(db *gorm.DB) CheckRecordRepository {
	return &checkRecordRepo{db: db}
}

func (r *checkRecordRepo) Create(ctx context.Context, record *model.CheckRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *checkRecordRepo) GetByID(ctx context.Context, id string) (*model.CheckRecord, error) {
	var record model.CheckRecord
	err := r.db.WithContext(ctx).
		Where("check_record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *checkRecordRepo) GetByAppointment(ctx context.Context, appointmentID string) (*model.CheckRecord, error) {
	var record model.CheckRecord
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetOpenByProfessional 查找保洁员进行中的记录（已签到、未签退、未取消）
func (r *checkRecordRepo) GetOpenByProfessional(ctx context.Context, professionalID string) (*model.CheckRecord, error) {
	var record model.CheckRecord
	err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Where("check_in_time IS NOT NULL AND check_out_time IS NULL AND cancelled_at IS NULL").
		Order("check_in_time DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListPendingByProfessional 列出保洁员某日尚未签到的记录
// 按对应预约的 scheduled_at 圈定当日范围
func (r *checkRecordRepo) ListPendingByProfessional(ctx context.Context, professionalID string, day time.Time) ([]model.CheckRecord, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var records []model.CheckRecord
	err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Where("check_in_time IS NULL AND cancelled_at IS NULL").
		Where("appointment_id IN (?)", r.db.Model(&model.Appointment{}).
			Select("appointment_id").
			Where("scheduled_at >= ? AND scheduled_at < ?", dayStart, dayEnd)).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// applyStatusFilter 将派生状态映射为时间戳谓词
// 状态不落库，过滤谓词与 model.CheckRecord.Status 的派生规则一一对应
func applyStatusFilter(db *gorm.DB, status string) *gorm.DB {
	switch status {
	case model.CheckStatusPending:
		return db.Where("check_in_time IS NULL AND cancelled_at IS NULL")
	case model.CheckStatusCheckedIn:
		return db.Where("check_in_time IS NOT NULL AND check_out_time IS NULL AND cancelled_at IS NULL")
	case model.CheckStatusCompleted:
		return db.Where("check_in_time IS NOT NULL AND check_out_time IS NOT NULL AND cancelled_at IS NULL")
	case model.CheckStatusCancelled:
		return db.Where("cancelled_at IS NOT NULL")
	default: // "" | "all"
		return db
	}
}

func (r *checkRecordRepo) ListWithFilters(ctx context.Context, companyID string, filters *CheckRecordFilters, offset, limit int) ([]model.CheckRecord, int64, error) {
	var records []model.CheckRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CheckRecord{}).
		Where("check_records.company_id = ?", companyID)

	if filters != nil {
		if filters.Search != "" {
			kw := "%" + escapeLike(filters.Search) + "%"
			db = db.Where("customer_name ILIKE ? OR address ILIKE ? OR service_type ILIKE ?", kw, kw, kw)
		}
		db = applyStatusFilter(db, filters.Status)
		if filters.ServiceType != "" {
			db = db.Where("service_type = ?", filters.ServiceType)
		}
		if filters.ProfessionalID != "" {
			db = db.Where("professional_id = ?", filters.ProfessionalID)
		}
		// 日期范围：已签到按签到时间，未签到回退到预约时间
		if filters.From != nil || filters.To != nil {
			db = db.Joins("LEFT JOIN appointments ON appointments.appointment_id = check_records.appointment_id")
			if filters.From != nil {
				db = db.Where("COALESCE(check_in_time, appointments.scheduled_at) >= ?", *filters.From)
			}
			if filters.To != nil {
				db = db.Where("COALESCE(check_in_time, appointments.scheduled_at) < ?", *filters.To)
			}
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("check_records.created_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListByCompany 拉取公司全量打卡记录（供导出等内存过滤场景）
// 预加载预约以便未签到记录能按计划时间参与日期过滤
func (r *checkRecordRepo) ListByCompany(ctx context.Context, companyID string) ([]model.CheckRecord, error) {
	var records []model.CheckRecord
	err := r.db.WithContext(ctx).
		Preload("Appointment").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Update 乐观锁条件更新：version 不匹配时返回 ErrOptimisticLock
// 签到/签退/取消/公司修正共用此路径，双击竞态的第二个写入者在此被拒绝
func (r *checkRecordRepo) Update(ctx context.Context, record *model.CheckRecord) error {
	oldVersion := record.Version
	result := r.db.WithContext(ctx).
		Model(record).
		Where("check_record_id = ? AND version = ?", record.CheckRecordID, oldVersion).
		Updates(map[string]interface{}{
			"check_in_time":        record.CheckInTime,
			"check_out_time":       record.CheckOutTime,
			"check_in_notes":       record.CheckInNotes,
			"check_out_notes":      record.CheckOutNotes,
			"service_completed":    record.ServiceCompleted,
			"cancelled_at":         record.CancelledAt,
			"cancelled_by":         record.CancelledBy,
			"check_in_photo_hash":  record.CheckInPhotoHash,
			"check_out_photo_hash": record.CheckOutPhotoHash,
			"updated_by":           record.UpdatedBy,
			"version":              oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version = oldVersion + 1
	return nil
}

func (r *checkRecordRepo) Delete(ctx context.Context, companyID, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.CheckRecord{}).
		Where("company_id = ? AND check_record_id = ?", companyID, id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
