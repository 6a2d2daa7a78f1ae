package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"noah/backend/config"
	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

// ── 打卡模块业务错误 ──
// 业务规则拒绝、并发冲突与基础设施故障三类错误彼此可区分：
// 前两类为下列哨兵（及 pkg/errors.ErrOptimisticLock），其余为基础设施故障。

var (
	ErrCheckRecordNotFound  = errors.New("打卡记录不存在")
	ErrCheckRecordExists    = errors.New("该预约已有打卡记录")
	ErrAlreadyCheckedIn     = errors.New("已签到，不能重复签到")
	ErrNotCheckedIn         = errors.New("尚未签到，不能签退")
	ErrAlreadyCheckedOut    = errors.New("已签退，不能重复签退")
	ErrCheckRecordCancelled = errors.New("记录已取消")
	ErrCheckRecordTerminal  = errors.New("记录已处于终态")
	ErrNotRecordOwner       = errors.New("只有被分派的保洁员可以执行打卡")
	ErrInvalidCheckTimes    = errors.New("签退时间必须晚于签到时间且不能脱离签到单独存在")
	ErrPhotoNotFound        = errors.New("照片不存在")
	ErrPhotoInvalid         = errors.New("照片数据无效")
	ErrPhotoTooLarge        = errors.New("照片超过大小限制")
)

// CheckService 打卡记录业务接口
// 保洁员侧：签到/签退/当前状态/我的历史；
// 公司侧：列表、手工建档、任意字段修正、取消、删除
type CheckService interface {
	CheckIn(ctx context.Context, companyID, professionalID string, req *dto.CheckInRequest) (*dto.CheckRecordResponse, error)
	CheckOut(ctx context.Context, companyID, professionalID, id string, req *dto.CheckOutRequest) (*dto.CheckRecordResponse, error)
	GetCurrent(ctx context.Context, professionalID string) (*dto.CurrentStatusResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*dto.CheckRecordResponse, error)
	List(ctx context.Context, companyID string, req *dto.CheckRecordListRequest) ([]dto.CheckRecordResponse, int64, error)
	ListMy(ctx context.Context, companyID, professionalID string, req *dto.CheckRecordListRequest) ([]dto.CheckRecordResponse, int64, error)
	Create(ctx context.Context, companyID string, req *dto.CreateCheckRecordRequest, callerID string) (*dto.CheckRecordResponse, error)
	Update(ctx context.Context, companyID, id string, req *dto.UpdateCheckRecordRequest, callerID string) (*dto.CheckRecordResponse, error)
	Cancel(ctx context.Context, companyID, id string, callerID string) (*dto.CheckRecordResponse, error)
	Delete(ctx context.Context, companyID, id string, callerID string) error
	GetPhoto(ctx context.Context, companyID, hash string) (*model.Photo, error)
}

type checkService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 测试注入
}

// NewCheckService 创建 CheckService 实例
func NewCheckService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CheckService {
	return &checkService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── CheckIn ──────────────────────

// CheckIn 保洁员签到
// 记录不存在时由预约快照隐式建档；写入走乐观锁，
// 越过本地校验的并发双击由 version 条件更新兜底拒绝。
// 任何失败路径都不产生部分落库：照片先于状态写入，记录更新失败时照片引用不挂接。
func (s *checkService) CheckIn(ctx context.Context, companyID, professionalID string, req *dto.CheckInRequest) (*dto.CheckRecordResponse, error) {
	record, err := s.repo.CheckRecord.GetByAppointment(ctx, req.AppointmentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询打卡记录失败", zap.String("appointment_id", req.AppointmentID), zap.Error(err))
			return nil, err
		}
		record, err = s.createFromAppointment(ctx, companyID, req.AppointmentID, professionalID)
		if err != nil {
			return nil, err
		}
	}

	if record.ProfessionalID != professionalID {
		return nil, ErrNotRecordOwner
	}
	if !record.CanCheckIn() {
		if record.CancelledAt != nil {
			return nil, ErrCheckRecordCancelled
		}
		return nil, ErrAlreadyCheckedIn
	}

	photoHash, err := s.storePhoto(ctx, companyID, req.PhotoBase64)
	if err != nil {
		return nil, err
	}

	checkInTime := s.now()
	record.CheckInTime = &checkInTime
	record.CheckInNotes = req.Notes
	record.CheckInPhotoHash = photoHash
	record.UpdatedBy = &professionalID

	if err := s.repo.CheckRecord.Update(ctx, record); err != nil {
		s.logger.Warn("签到写入失败", zap.String("id", record.CheckRecordID), zap.Error(err))
		return nil, err
	}

	return dto.NewCheckRecordResponse(record), nil
}

// ────────────────────── CheckOut ──────────────────────

// CheckOut 保洁员签退
func (s *checkService) CheckOut(ctx context.Context, companyID, professionalID, id string, req *dto.CheckOutRequest) (*dto.CheckRecordResponse, error) {
	record, err := s.getScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if record.ProfessionalID != professionalID {
		return nil, ErrNotRecordOwner
	}
	if !record.CanCheckOut() {
		switch {
		case record.CancelledAt != nil:
			return nil, ErrCheckRecordCancelled
		case record.CheckInTime == nil:
			return nil, ErrNotCheckedIn
		default:
			return nil, ErrAlreadyCheckedOut
		}
	}

	photoHash, err := s.storePhoto(ctx, companyID, req.PhotoBase64)
	if err != nil {
		return nil, err
	}

	checkOutTime := s.now()
	record.CheckOutTime = &checkOutTime
	record.CheckOutNotes = req.Notes
	record.ServiceCompleted = req.ServiceCompleted
	record.CheckOutPhotoHash = photoHash
	record.UpdatedBy = &professionalID

	if err := s.repo.CheckRecord.Update(ctx, record); err != nil {
		s.logger.Warn("签退写入失败", zap.String("id", record.CheckRecordID), zap.Error(err))
		return nil, err
	}

	return dto.NewCheckRecordResponse(record), nil
}

// ────────────────────── GetCurrent ──────────────────────

// GetCurrent 保洁员当前状态视图：进行中的记录 + 当日待签到记录
func (s *checkService) GetCurrent(ctx context.Context, professionalID string) (*dto.CurrentStatusResponse, error) {
	resp := &dto.CurrentStatusResponse{Pending: []dto.CheckRecordResponse{}}

	open, err := s.repo.CheckRecord.GetOpenByProfessional(ctx, professionalID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中记录失败", zap.String("professional_id", professionalID), zap.Error(err))
		return nil, err
	}
	if open != nil {
		resp.Current = dto.NewCheckRecordResponse(open)
	}

	pending, err := s.repo.CheckRecord.ListPendingByProfessional(ctx, professionalID, s.now())
	if err != nil {
		s.logger.Error("查询待签到记录失败", zap.String("professional_id", professionalID), zap.Error(err))
		return nil, err
	}
	for _, r := range pending {
		resp.Pending = append(resp.Pending, *dto.NewCheckRecordResponse(&r))
	}

	return resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *checkService) GetByID(ctx context.Context, companyID, id string) (*dto.CheckRecordResponse, error) {
	record, err := s.getScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCheckRecordResponse(record), nil
}

func (s *checkService) List(ctx context.Context, companyID string, req *dto.CheckRecordListRequest) ([]dto.CheckRecordResponse, int64, error) {
	filters := toCheckRecordFilters(req)

	records, total, err := s.repo.CheckRecord.ListWithFilters(ctx, companyID, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出打卡记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CheckRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, *dto.NewCheckRecordResponse(&r))
	}
	return result, total, nil
}

// ListMy 保洁员查看自己的打卡历史（支持同样的搜索/状态/日期过滤）
func (s *checkService) ListMy(ctx context.Context, companyID, professionalID string, req *dto.CheckRecordListRequest) ([]dto.CheckRecordResponse, int64, error) {
	scoped := *req
	scoped.ProfessionalID = professionalID
	return s.List(ctx, companyID, &scoped)
}

// ────────────────────── 公司侧维护 ──────────────────────

// Create 公司手工为预约建档（pending 状态）
func (s *checkService) Create(ctx context.Context, companyID string, req *dto.CreateCheckRecordRequest, callerID string) (*dto.CheckRecordResponse, error) {
	if _, err := s.repo.CheckRecord.GetByAppointment(ctx, req.AppointmentID); err == nil {
		return nil, ErrCheckRecordExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	appointment, err := s.repo.Appointment.GetByID(ctx, companyID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appointment.ProfessionalID == nil {
		return nil, ErrProfessionalInvalid
	}

	record, err := s.buildRecord(ctx, appointment, *appointment.ProfessionalID, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CheckRecord.Create(ctx, record); err != nil {
		s.logger.Error("创建打卡记录失败", zap.Error(err))
		return nil, err
	}

	return dto.NewCheckRecordResponse(record), nil
}

// Update 公司任意字段修正，不经过转换校验
// req.Version 为客户端持有的版本号（If-Match 语义），过期写直接 409
func (s *checkService) Update(ctx context.Context, companyID, id string, req *dto.UpdateCheckRecordRequest, callerID string) (*dto.CheckRecordResponse, error) {
	record, err := s.getScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	// 应用更新字段（仅更新非 nil 字段）
	if req.CheckInTime != nil {
		record.CheckInTime = req.CheckInTime
	}
	if req.CheckOutTime != nil {
		record.CheckOutTime = req.CheckOutTime
	}
	if req.CheckInNotes != nil {
		record.CheckInNotes = *req.CheckInNotes
	}
	if req.CheckOutNotes != nil {
		record.CheckOutNotes = *req.CheckOutNotes
	}
	if req.ServiceCompleted != nil {
		record.ServiceCompleted = req.ServiceCompleted
	}

	// 派生不变式：有签退必有签到，且签退不早于签到
	if record.CheckOutTime != nil {
		if record.CheckInTime == nil || record.CheckOutTime.Before(*record.CheckInTime) {
			return nil, ErrInvalidCheckTimes
		}
	}

	record.Version = req.Version
	record.UpdatedBy = &callerID

	if err := s.repo.CheckRecord.Update(ctx, record); err != nil {
		s.logger.Warn("修正打卡记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return dto.NewCheckRecordResponse(record), nil
}

// Cancel 公司取消记录；终态记录拒绝取消
func (s *checkService) Cancel(ctx context.Context, companyID, id string, callerID string) (*dto.CheckRecordResponse, error) {
	record, err := s.getScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if record.IsTerminal() {
		return nil, ErrCheckRecordTerminal
	}

	cancelledAt := s.now()
	record.CancelledAt = &cancelledAt
	record.CancelledBy = &callerID
	record.UpdatedBy = &callerID

	if err := s.repo.CheckRecord.Update(ctx, record); err != nil {
		s.logger.Warn("取消打卡记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return dto.NewCheckRecordResponse(record), nil
}

func (s *checkService) Delete(ctx context.Context, companyID, id string, callerID string) error {
	if _, err := s.getScoped(ctx, companyID, id); err != nil {
		return err
	}

	if err := s.repo.CheckRecord.Delete(ctx, companyID, id, callerID); err != nil {
		s.logger.Error("删除打卡记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 照片 ──────────────────────

func (s *checkService) GetPhoto(ctx context.Context, companyID, hash string) (*model.Photo, error) {
	photo, err := s.repo.Photo.GetByHash(ctx, companyID, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		s.logger.Error("查询照片失败", zap.String("hash", hash), zap.Error(err))
		return nil, err
	}
	return photo, nil
}

// storePhoto 解码并按内容寻址存储照片，返回 sha256 引用
// 空 payload 返回 (nil, nil)；同内容重复上传只存一份
func (s *checkService) storePhoto(ctx context.Context, companyID, photoBase64 string) (*string, error) {
	if photoBase64 == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(photoBase64)
	if err != nil || len(data) == 0 {
		return nil, ErrPhotoInvalid
	}
	if int64(len(data)) > s.cfg.Upload.MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	photo := &model.Photo{
		PhotoHash: hash,
		CompanyID: companyID,
		MimeType:  http.DetectContentType(data),
		SizeBytes: int64(len(data)),
		Data:      data,
	}
	if err := s.repo.Photo.Save(ctx, photo); err != nil {
		s.logger.Error("保存照片失败", zap.String("hash", hash), zap.Error(err))
		return nil, err
	}

	return &hash, nil
}

// ────────────────────── 内部辅助 ──────────────────────

// getScoped 按租户加载打卡记录
func (s *checkService) getScoped(ctx context.Context, companyID, id string) (*model.CheckRecord, error) {
	record, err := s.repo.CheckRecord.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckRecordNotFound
		}
		s.logger.Error("查询打卡记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if record.CompanyID != companyID {
		return nil, ErrCheckRecordNotFound
	}
	return record, nil
}

// createFromAppointment 签到时的隐式建档：由预约快照生成 pending 记录
func (s *checkService) createFromAppointment(ctx context.Context, companyID, appointmentID, professionalID string) (*model.CheckRecord, error) {
	appointment, err := s.repo.Appointment.GetByID(ctx, companyID, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return nil, ErrAppointmentCancelled
	}
	if appointment.ProfessionalID == nil || *appointment.ProfessionalID != professionalID {
		return nil, ErrNotRecordOwner
	}

	record, err := s.buildRecord(ctx, appointment, professionalID, professionalID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CheckRecord.Create(ctx, record); err != nil {
		s.logger.Error("创建打卡记录失败", zap.String("appointment_id", appointmentID), zap.Error(err))
		return nil, err
	}
	return record, nil
}

// buildRecord 由预约组装打卡记录快照字段
func (s *checkService) buildRecord(ctx context.Context, appointment *model.Appointment, professionalID, callerID string) (*model.CheckRecord, error) {
	professional, err := s.repo.User.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfessionalInvalid
		}
		return nil, err
	}

	customerName := ""
	if appointment.Customer != nil {
		customerName = appointment.Customer.Name
	}
	var teamName *string
	if appointment.Team != nil {
		teamName = &appointment.Team.Name
	}

	return &model.CheckRecord{
		CompanyID:        appointment.CompanyID,
		AppointmentID:    appointment.AppointmentID,
		ProfessionalID:   professionalID,
		CustomerID:       appointment.CustomerID,
		TeamID:           appointment.TeamID,
		ProfessionalName: professional.Name,
		CustomerName:     customerName,
		TeamName:         teamName,
		Address:          appointment.Address,
		ServiceType:      appointment.ServiceType,
		VersionedModel:   model.VersionedModel{SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}}},
	}, nil
}

// toCheckRecordFilters DTO → Repository 过滤条件
func toCheckRecordFilters(req *dto.CheckRecordListRequest) *repository.CheckRecordFilters {
	status := req.Status
	if status == "all" {
		status = ""
	}
	return &repository.CheckRecordFilters{
		Search:         req.Search,
		Status:         status,
		ServiceType:    req.ServiceType,
		ProfessionalID: req.ProfessionalID,
		From:           parseDateLower(req.From),
		To:             parseDateUpper(req.To),
	}
}
