package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

var (
	ErrCompanyNotFound = errors.New("公司不存在")
	ErrEmailExists     = errors.New("邮箱已被使用")
)

// CompanyService 公司（租户）业务接口 — 平台管理员专用
type CompanyService interface {
	Create(ctx context.Context, req *dto.CreateCompanyRequest, callerID string) (*dto.CreateCompanyResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error)
	List(ctx context.Context, req *dto.CompanyListRequest) ([]dto.CompanyResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCompanyRequest, callerID string) (*dto.CompanyResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type companyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCompanyService 创建 CompanyService 实例
func NewCompanyService(repo *repository.Repository, logger *zap.Logger) CompanyService {
	return &companyService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 创建公司及其管理账号，返回管理账号临时密码
func (s *companyService) Create(ctx context.Context, req *dto.CreateCompanyRequest, callerID string) (*dto.CreateCompanyResponse, error) {
	// 管理账号邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.AdminEmail); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company := &model.Company{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		IsActive:        true,
		SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
	}
	if err := s.repo.Company.Create(ctx, company); err != nil {
		s.logger.Error("创建公司失败", zap.Error(err))
		return nil, err
	}

	tempPassword, err := generateTempPassword(8)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	admin := &model.User{
		Name:               req.AdminName,
		Email:              req.AdminEmail,
		PasswordHash:       string(hash),
		Role:               model.RoleCompany,
		CompanyID:          &company.CompanyID,
		MustChangePassword: true,
		VersionedModel:     model.VersionedModel{SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}}},
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		s.logger.Error("创建公司管理账号失败", zap.Error(err))
		return nil, err
	}

	return &dto.CreateCompanyResponse{
		Company: toCompanyResponse(company),
		AdminUser: &dto.UserResponse{
			ID:                 admin.UserID,
			Name:               admin.Name,
			Email:              admin.Email,
			Role:               admin.Role,
			MustChangePassword: true,
		},
		TempPassword: tempPassword,
	}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *companyService) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := s.repo.Company.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("查询公司失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// ────────────────────── List ──────────────────────

func (s *companyService) List(ctx context.Context, req *dto.CompanyListRequest) ([]dto.CompanyResponse, int64, error) {
	filters := &repository.CompanyListFilters{
		Keyword:         req.Keyword,
		IncludeInactive: req.IncludeInactive,
	}

	companies, total, err := s.repo.Company.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出公司失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		result = append(result, *toCompanyResponse(&c))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *companyService) Update(ctx context.Context, id string, req *dto.UpdateCompanyRequest, callerID string) (*dto.CompanyResponse, error) {
	company, err := s.repo.Company.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("查询公司失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 应用更新字段（仅更新非 nil 字段）
	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	company.UpdatedBy = &callerID

	if err := s.repo.Company.Update(ctx, company); err != nil {
		s.logger.Error("更新公司失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toCompanyResponse(company), nil
}

// ────────────────────── Delete ──────────────────────

func (s *companyService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Company.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		s.logger.Error("查询公司失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Company.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除公司失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// toCompanyResponse 公司完整响应
func toCompanyResponse(c *model.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:       c.CompanyID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		IsActive: c.IsActive,
	}
}
