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

var (
	ErrTeamNotFound      = errors.New("团队不存在")
	ErrMemberNotEligible = errors.New("成员必须是本公司的保洁员")
)

// TeamService 团队业务接口 — 公司（租户）作用域
type TeamService interface {
	Create(ctx context.Context, companyID string, req *dto.CreateTeamRequest, callerID string) (*dto.TeamResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*dto.TeamResponse, error)
	List(ctx context.Context, companyID string, req *dto.TeamListRequest) ([]dto.TeamResponse, int64, error)
	Update(ctx context.Context, companyID, id string, req *dto.UpdateTeamRequest, callerID string) (*dto.TeamResponse, error)
	SetMembers(ctx context.Context, companyID, id string, req *dto.SetTeamMembersRequest) (*dto.TeamResponse, error)
	Delete(ctx context.Context, companyID, id string, callerID string) error
}

type teamService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeamService 创建 TeamService 实例
func NewTeamService(repo *repository.Repository, logger *zap.Logger) TeamService {
	return &teamService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *teamService) Create(ctx context.Context, companyID string, req *dto.CreateTeamRequest, callerID string) (*dto.TeamResponse, error) {
	team := &model.Team{
		CompanyID:       companyID,
		Name:            req.Name,
		IsActive:        true,
		SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
	}

	if err := s.repo.Team.Create(ctx, team); err != nil {
		s.logger.Error("创建团队失败", zap.Error(err))
		return nil, err
	}

	return toTeamResponse(team), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *teamService) GetByID(ctx context.Context, companyID, id string) (*dto.TeamResponse, error) {
	team, err := s.repo.Team.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("查询团队失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTeamResponse(team), nil
}

// ────────────────────── List ──────────────────────

func (s *teamService) List(ctx context.Context, companyID string, req *dto.TeamListRequest) ([]dto.TeamResponse, int64, error) {
	teams, total, err := s.repo.Team.List(ctx, companyID, req.IncludeInactive, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出团队失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TeamResponse, 0, len(teams))
	for _, t := range teams {
		result = append(result, *toTeamResponse(&t))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *teamService) Update(ctx context.Context, companyID, id string, req *dto.UpdateTeamRequest, callerID string) (*dto.TeamResponse, error) {
	team, err := s.repo.Team.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("查询团队失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.IsActive != nil {
		team.IsActive = *req.IsActive
	}
	team.UpdatedBy = &callerID

	if err := s.repo.Team.Update(ctx, team); err != nil {
		s.logger.Error("更新团队失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTeamResponse(team), nil
}

// ────────────────────── SetMembers ──────────────────────

// SetMembers 整体替换团队成员；成员必须是本公司保洁员
func (s *teamService) SetMembers(ctx context.Context, companyID, id string, req *dto.SetTeamMembersRequest) (*dto.TeamResponse, error) {
	team, err := s.repo.Team.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		s.logger.Error("查询团队失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	members := make([]model.User, 0, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		user, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMemberNotEligible
			}
			return nil, err
		}
		if user.Role != model.RoleProfessional || user.CompanyID == nil || *user.CompanyID != companyID {
			return nil, ErrMemberNotEligible
		}
		members = append(members, *user)
	}

	if err := s.repo.Team.SetMembers(ctx, team, members); err != nil {
		s.logger.Error("设置团队成员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Team.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toTeamResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *teamService) Delete(ctx context.Context, companyID, id string, callerID string) error {
	if _, err := s.repo.Team.GetByID(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		s.logger.Error("查询团队失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Team.Delete(ctx, companyID, id, callerID); err != nil {
		s.logger.Error("删除团队失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// toTeamResponse 团队响应
func toTeamResponse(t *model.Team) *dto.TeamResponse {
	members := make([]dto.UserResponse, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, *toUserResponse(&m))
	}
	return &dto.TeamResponse{
		ID:       t.TeamID,
		Name:     t.Name,
		IsActive: t.IsActive,
		Members:  members,
	}
}
