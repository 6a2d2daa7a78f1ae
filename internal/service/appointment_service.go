package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

var (
	ErrAppointmentNotFound  = errors.New("预约不存在")
	ErrAppointmentCancelled = errors.New("预约已取消")
	ErrProfessionalInvalid  = errors.New("保洁员不存在或不属于本公司")
)

const defaultDurationMinutes = 120

// AppointmentService 预约业务接口
type AppointmentService interface {
	Create(ctx context.Context, companyID string, req *dto.CreateAppointmentRequest, callerID string) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*dto.AppointmentResponse, error)
	List(ctx context.Context, companyID string, req *dto.AppointmentListRequest) ([]dto.AppointmentResponse, int64, error)
	ListMy(ctx context.Context, companyID, professionalID string, req *dto.AppointmentListRequest) ([]dto.AppointmentResponse, int64, error)
	Update(ctx context.Context, companyID, id string, req *dto.UpdateAppointmentRequest, callerID string) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, companyID, id string, callerID string) error
	Delete(ctx context.Context, companyID, id string, callerID string) error
	ImportICS(ctx context.Context, companyID string, req *dto.ImportAppointmentsRequest, callerID string) (*dto.ImportAppointmentsResponse, error)
}

type appointmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAppointmentService 创建 AppointmentService 实例
func NewAppointmentService(repo *repository.Repository, logger *zap.Logger) AppointmentService {
	return &appointmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *appointmentService) Create(ctx context.Context, companyID string, req *dto.CreateAppointmentRequest, callerID string) (*dto.AppointmentResponse, error) {
	customer, err := s.repo.Customer.GetByID(ctx, companyID, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	if req.ProfessionalID != nil {
		if err := s.checkProfessional(ctx, companyID, *req.ProfessionalID); err != nil {
			return nil, err
		}
	}
	if req.TeamID != nil {
		if _, err := s.repo.Team.GetByID(ctx, companyID, *req.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
	}

	// 地址缺省取客户档案地址
	address := req.Address
	if address == "" {
		address = customer.Address
	}
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	appointment := &model.Appointment{
		CompanyID:       companyID,
		CustomerID:      req.CustomerID,
		ProfessionalID:  req.ProfessionalID,
		TeamID:          req.TeamID,
		ServiceType:     req.ServiceType,
		Address:         address,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: duration,
		Status:          model.AppointmentStatusScheduled,
		Notes:           req.Notes,
		VersionedModel:  model.VersionedModel{SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}}},
	}

	if err := s.repo.Appointment.Create(ctx, appointment); err != nil {
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, err
	}

	appointment.Customer = customer
	return toAppointmentResponse(appointment), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *appointmentService) GetByID(ctx context.Context, companyID, id string) (*dto.AppointmentResponse, error) {
	appointment, err := s.repo.Appointment.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("查询预约失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// ────────────────────── List ──────────────────────

func (s *appointmentService) List(ctx context.Context, companyID string, req *dto.AppointmentListRequest) ([]dto.AppointmentResponse, int64, error) {
	filters := &repository.AppointmentListFilters{
		CustomerID:     req.CustomerID,
		ProfessionalID: req.ProfessionalID,
		Status:         req.Status,
		From:           parseDateLower(req.From),
		To:             parseDateUpper(req.To),
	}

	appointments, total, err := s.repo.Appointment.ListWithFilters(ctx, companyID, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出预约失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, *toAppointmentResponse(&a))
	}
	return result, total, nil
}

// ListMy 保洁员查看分派给自己的预约
func (s *appointmentService) ListMy(ctx context.Context, companyID, professionalID string, req *dto.AppointmentListRequest) ([]dto.AppointmentResponse, int64, error) {
	scoped := *req
	scoped.ProfessionalID = professionalID
	return s.List(ctx, companyID, &scoped)
}

// ────────────────────── Update ──────────────────────

func (s *appointmentService) Update(ctx context.Context, companyID, id string, req *dto.UpdateAppointmentRequest, callerID string) (*dto.AppointmentResponse, error) {
	appointment, err := s.repo.Appointment.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("查询预约失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return nil, ErrAppointmentCancelled
	}

	// 应用更新字段（仅更新非 nil 字段）
	if req.CustomerID != nil {
		if _, err := s.repo.Customer.GetByID(ctx, companyID, *req.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
		appointment.CustomerID = *req.CustomerID
	}
	if req.ProfessionalID != nil {
		if err := s.checkProfessional(ctx, companyID, *req.ProfessionalID); err != nil {
			return nil, err
		}
		appointment.ProfessionalID = req.ProfessionalID
	}
	if req.TeamID != nil {
		if _, err := s.repo.Team.GetByID(ctx, companyID, *req.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
		appointment.TeamID = req.TeamID
	}
	if req.ServiceType != nil {
		appointment.ServiceType = *req.ServiceType
	}
	if req.Address != nil {
		appointment.Address = *req.Address
	}
	if req.ScheduledAt != nil {
		appointment.ScheduledAt = *req.ScheduledAt
	}
	if req.DurationMinutes != nil {
		appointment.DurationMinutes = *req.DurationMinutes
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	appointment.UpdatedBy = &callerID

	if err := s.repo.Appointment.Update(ctx, appointment); err != nil {
		s.logger.Error("更新预约失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Appointment.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponse(updated), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *appointmentService) Cancel(ctx context.Context, companyID, id string, callerID string) error {
	appointment, err := s.repo.Appointment.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("查询预约失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if appointment.Status == model.AppointmentStatusCancelled {
		return ErrAppointmentCancelled
	}

	appointment.Status = model.AppointmentStatusCancelled
	appointment.UpdatedBy = &callerID

	if err := s.repo.Appointment.Update(ctx, appointment); err != nil {
		s.logger.Error("取消预约失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *appointmentService) Delete(ctx context.Context, companyID, id string, callerID string) error {
	if _, err := s.repo.Appointment.GetByID(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("查询预约失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Appointment.Delete(ctx, companyID, id, callerID); err != nil {
		s.logger.Error("删除预约失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ImportICS ──────────────────────

// ImportICS 从 iCalendar 内容批量导入预约
// SUMMARY 按客户名称匹配档案，匹配不到的事件逐条报错、不中断整批
func (s *appointmentService) ImportICS(ctx context.Context, companyID string, req *dto.ImportAppointmentsRequest, callerID string) (*dto.ImportAppointmentsResponse, error) {
	if req.ProfessionalID != nil {
		if err := s.checkProfessional(ctx, companyID, *req.ProfessionalID); err != nil {
			return nil, err
		}
	}
	if req.TeamID != nil {
		if _, err := s.repo.Team.GetByID(ctx, companyID, *req.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
	}

	events, err := ParseAppointmentICS(req.ICS)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportAppointmentsResponse{Total: len(events)}
	var batch []model.Appointment

	for _, evt := range events {
		customer, err := s.repo.Customer.GetByName(ctx, companyID, evt.Summary)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				resp.Failed++
				resp.Errors = append(resp.Errors, dto.ImportAppointmentError{
					Summary: evt.Summary,
					Reason:  "客户不存在",
				})
				continue
			}
			return nil, err
		}

		address := evt.Location
		if address == "" {
			address = customer.Address
		}
		serviceType := evt.Description
		if serviceType == "" {
			serviceType = req.DefaultService
		}
		if serviceType == "" {
			serviceType = "标准保洁"
		}

		duration := req.DurationMinutes
		if evt.End != nil {
			duration = int(evt.End.Sub(evt.Start).Minutes())
		}
		if duration <= 0 {
			duration = defaultDurationMinutes
		}

		batch = append(batch, model.Appointment{
			CompanyID:       companyID,
			CustomerID:      customer.CustomerID,
			ProfessionalID:  req.ProfessionalID,
			TeamID:          req.TeamID,
			ServiceType:     serviceType,
			Address:         address,
			ScheduledAt:     evt.Start,
			DurationMinutes: duration,
			Status:          model.AppointmentStatusScheduled,
			VersionedModel:  model.VersionedModel{SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}}},
		})
		resp.Success++
	}

	if err := s.repo.Appointment.BatchCreate(ctx, batch); err != nil {
		s.logger.Error("批量创建预约失败", zap.Error(err))
		return nil, err
	}

	return resp, nil
}

// checkProfessional 校验保洁员存在且属于本公司
func (s *appointmentService) checkProfessional(ctx context.Context, companyID, professionalID string) error {
	user, err := s.repo.User.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessionalInvalid
		}
		return err
	}
	if user.Role != model.RoleProfessional || user.CompanyID == nil || *user.CompanyID != companyID {
		return ErrProfessionalInvalid
	}
	return nil
}

// toAppointmentResponse 预约响应
func toAppointmentResponse(a *model.Appointment) *dto.AppointmentResponse {
	resp := &dto.AppointmentResponse{
		ID:              a.AppointmentID,
		CustomerID:      a.CustomerID,
		ProfessionalID:  a.ProfessionalID,
		TeamID:          a.TeamID,
		ServiceType:     a.ServiceType,
		Address:         a.Address,
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Notes:           a.Notes,
	}
	if a.Customer != nil {
		resp.CustomerName = a.Customer.Name
	}
	return resp
}

// ── 日期参数解析 ──

// parseDateLower 解析 YYYY-MM-DD 为当日零点；空串返回 nil
func parseDateLower(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// parseDateUpper 解析 YYYY-MM-DD 为次日零点（闭区间转半开区间）；空串返回 nil
func parseDateUpper(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	next := t.Add(24 * time.Hour)
	return &next
}
