package repository

import (
	"context"

	"gorm.io/gorm"

	"noah/backend/internal/model"
)

// TeamRepository 团队数据访问接口
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, companyID, id string) (*model.Team, error)
	List(ctx context.Context, companyID string, includeInactive bool, offset, limit int) ([]model.Team, int64, error)
	Update(ctx context.Context, team *model.Team) error
	SetMembers(ctx context.Context, team *model.Team, members []model.User) error
	Delete(ctx context.Context, companyID, id string, deletedBy string) error
}

// teamRepo TeamRepository 的 GORM 实现
type teamRepo struct {
	db *gorm.DB
}

// NewTeamRepo 创建 TeamRepository 实例
func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db: db}
}

func (r *teamRepo) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepo) GetByID(ctx context.Context, companyID, id string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("company_id = ? AND team_id = ?", companyID, id).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) List(ctx context.Context, companyID string, includeInactive bool, offset, limit int) ([]model.Team, int64, error) {
	var teams []model.Team
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Team{}).
		Where("company_id = ?", companyID)
	if !includeInactive {
		db = db.Where("is_active = TRUE")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Members").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&teams).Error; err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

func (r *teamRepo) Update(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *teamRepo) SetMembers(ctx context.Context, team *model.Team, members []model.User) error {
	return r.db.WithContext(ctx).Model(team).Association("Members").Replace(members)
}

func (r *teamRepo) Delete(ctx context.Context, companyID, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Team{}).
		Where("company_id = ? AND team_id = ?", companyID, id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
