package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/repository"
)

var ErrCustomerNotFound = errors.New("客户不存在")

// CustomerService 客户业务接口 — 公司（租户）作用域
type CustomerService interface {
	Create(ctx context.Context, companyID string, req *dto.CreateCustomerRequest, callerID string) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error)
	List(ctx context.Context, companyID string, req *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error)
	Update(ctx context.Context, companyID, id string, req *dto.UpdateCustomerRequest, callerID string) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, companyID, id string, callerID string) error
}

type customerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCustomerService 创建 CustomerService 实例
func NewCustomerService(repo *repository.Repository, logger *zap.Logger) CustomerService {
	return &customerService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *customerService) Create(ctx context.Context, companyID string, req *dto.CreateCustomerRequest, callerID string) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		CompanyID:       companyID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Notes:           req.Notes,
		IsActive:        true,
		SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
	}

	if err := s.repo.Customer.Create(ctx, customer); err != nil {
		s.logger.Error("创建客户失败", zap.Error(err))
		return nil, err
	}

	return toCustomerResponse(customer), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *customerService) GetByID(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := s.repo.Customer.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("查询客户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// ────────────────────── List ──────────────────────

func (s *customerService) List(ctx context.Context, companyID string, req *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error) {
	filters := &repository.CustomerListFilters{
		Keyword:         req.Keyword,
		IncludeInactive: req.IncludeInactive,
	}

	customers, total, err := s.repo.Customer.List(ctx, companyID, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出客户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, *toCustomerResponse(&c))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *customerService) Update(ctx context.Context, companyID, id string, req *dto.UpdateCustomerRequest, callerID string) (*dto.CustomerResponse, error) {
	customer, err := s.repo.Customer.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("查询客户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 应用更新字段（仅更新非 nil 字段）
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	customer.UpdatedBy = &callerID

	if err := s.repo.Customer.Update(ctx, customer); err != nil {
		s.logger.Error("更新客户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toCustomerResponse(customer), nil
}

// ────────────────────── Delete ──────────────────────

func (s *customerService) Delete(ctx context.Context, companyID, id string, callerID string) error {
	if _, err := s.repo.Customer.GetByID(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		s.logger.Error("查询客户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Customer.Delete(ctx, companyID, id, callerID); err != nil {
		s.logger.Error("删除客户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// toCustomerResponse 客户响应
func toCustomerResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:       c.CustomerID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		Notes:    c.Notes,
		IsActive: c.IsActive,
	}
}
