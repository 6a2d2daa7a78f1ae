package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"noah/backend/internal/model"
)

// PhotoRepository 打卡照片数据访问接口
type PhotoRepository interface {
	Save(ctx context.Context, photo *model.Photo) error
	GetByHash(ctx context.Context, companyID, hash string) (*model.Photo, error)
}

// photoRepo PhotoRepository 的 GORM 实现
type photoRepo struct {
	db *gorm.DB
}

// NewPhotoRepo 创建 PhotoRepository 实例
func NewPhotoRepo(db *gorm.DB) PhotoRepository {
	return &photoRepo{db: db}
}

// Save 内容寻址写入：同一哈希重复上传视为无操作
func (r *photoRepo) Save(ctx context.Context, photo *model.Photo) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(photo).Error
}

func (r *photoRepo) GetByHash(ctx context.Context, companyID, hash string) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND photo_hash = ?", companyID, hash).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
