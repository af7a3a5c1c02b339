package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/repository"
)

// ── 标准管理模块业务错误 ──

var (
	ErrPillarNotFound    = errors.New("支柱不存在")
	ErrCriterionNotFound = errors.New("评估标准不存在")
	ErrTagNotFound       = errors.New("标签不存在")
)

// CriteriaService 标准/支柱/标签与草稿配置管理接口
// 草稿配置随时可编辑；周期快照只在创建周期时由草稿复制，此处不触碰
type CriteriaService interface {
	CreatePillar(ctx context.Context, req *dto.CreatePillarRequest) (*model.Pillar, error)
	ListPillars(ctx context.Context) ([]model.Pillar, error)
	DeletePillar(ctx context.Context, id int64) error

	CreateCriterion(ctx context.Context, req *dto.CreateCriterionRequest) (*dto.CriterionResponse, error)
	GetCriterion(ctx context.Context, id int64) (*dto.CriterionResponse, error)
	ListCriteria(ctx context.Context) ([]dto.CriterionResponse, error)
	UpdateCriterion(ctx context.Context, id int64, req *dto.UpdateCriterionRequest) (*dto.CriterionResponse, error)
	DeleteCriterion(ctx context.Context, id int64) error

	CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	// UpdateTrackConfigs 整体替换某轨道的草稿配置
	UpdateTrackConfigs(ctx context.Context, req *dto.BatchTrackConfigRequest) error
	GetTrackConfigs(ctx context.Context, trackID int64) (*dto.TrackConfigResponse, error)
}

type criteriaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCriteriaService 创建 CriteriaService 实例
func NewCriteriaService(repo *repository.Repository, logger *zap.Logger) CriteriaService {
	return &criteriaService{repo: repo, logger: logger}
}

// ────────────────────── 支柱 ──────────────────────

func (s *criteriaService) CreatePillar(ctx context.Context, req *dto.CreatePillarRequest) (*model.Pillar, error) {
	pillar := &model.Pillar{Name: req.Name}
	if err := s.repo.Pillar.Create(ctx, pillar); err != nil {
		s.logger.Error("创建支柱失败", zap.Error(err))
		return nil, err
	}
	return pillar, nil
}

func (s *criteriaService) ListPillars(ctx context.Context) ([]model.Pillar, error) {
	pillars, err := s.repo.Pillar.List(ctx)
	if err != nil {
		s.logger.Error("列出支柱失败", zap.Error(err))
		return nil, err
	}
	return pillars, nil
}

func (s *criteriaService) DeletePillar(ctx context.Context, id int64) error {
	if _, err := s.repo.Pillar.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPillarNotFound
		}
		s.logger.Error("查询支柱失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Pillar.Delete(ctx, id); err != nil {
		s.logger.Error("删除支柱失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 标准 ──────────────────────

func (s *criteriaService) CreateCriterion(ctx context.Context, req *dto.CreateCriterionRequest) (*dto.CriterionResponse, error) {
	if _, err := s.repo.Pillar.GetByID(ctx, req.PillarID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPillarNotFound
		}
		s.logger.Error("查询支柱失败", zap.Int64("id", req.PillarID), zap.Error(err))
		return nil, err
	}

	criterion := &model.Criterion{
		Name:        req.Name,
		Description: req.Description,
		PillarID:    req.PillarID,
	}
	if err := s.repo.Criterion.Create(ctx, criterion); err != nil {
		s.logger.Error("创建标准失败", zap.Error(err))
		return nil, err
	}

	return s.toCriterionResponse(criterion), nil
}

func (s *criteriaService) GetCriterion(ctx context.Context, id int64) (*dto.CriterionResponse, error) {
	criterion, err := s.repo.Criterion.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCriterionNotFound
		}
		s.logger.Error("查询标准失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return s.toCriterionResponse(criterion), nil
}

func (s *criteriaService) ListCriteria(ctx context.Context) ([]dto.CriterionResponse, error) {
	criteria, err := s.repo.Criterion.List(ctx)
	if err != nil {
		s.logger.Error("列出标准失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CriterionResponse, 0, len(criteria))
	for i := range criteria {
		result = append(result, *s.toCriterionResponse(&criteria[i]))
	}
	return result, nil
}

func (s *criteriaService) UpdateCriterion(ctx context.Context, id int64, req *dto.UpdateCriterionRequest) (*dto.CriterionResponse, error) {
	criterion, err := s.repo.Criterion.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCriterionNotFound
		}
		s.logger.Error("查询标准失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		criterion.Name = *req.Name
	}
	if req.Description != nil {
		criterion.Description = *req.Description
	}
	if req.PillarID != nil {
		if _, err := s.repo.Pillar.GetByID(ctx, *req.PillarID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPillarNotFound
			}
			return nil, err
		}
		criterion.PillarID = *req.PillarID
	}

	if err := s.repo.Criterion.Update(ctx, criterion); err != nil {
		s.logger.Error("更新标准失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.toCriterionResponse(criterion), nil
}

func (s *criteriaService) DeleteCriterion(ctx context.Context, id int64) error {
	if _, err := s.repo.Criterion.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCriterionNotFound
		}
		s.logger.Error("查询标准失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Criterion.Delete(ctx, id); err != nil {
		s.logger.Error("删除标准失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 标签 ──────────────────────

func (s *criteriaService) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*model.Tag, error) {
	tag := &model.Tag{Name: req.Name}
	if err := s.repo.Tag.Create(ctx, tag); err != nil {
		s.logger.Error("创建标签失败", zap.Error(err))
		return nil, err
	}
	return tag, nil
}

func (s *criteriaService) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.Tag.List(ctx)
	if err != nil {
		s.logger.Error("列出标签失败", zap.Error(err))
		return nil, err
	}
	return tags, nil
}

func (s *criteriaService) DeleteTag(ctx context.Context, id int64) error {
	if _, err := s.repo.Tag.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		s.logger.Error("查询标签失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Tag.Delete(ctx, id); err != nil {
		s.logger.Error("删除标签失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 草稿配置 ──────────────────────

func (s *criteriaService) UpdateTrackConfigs(ctx context.Context, req *dto.BatchTrackConfigRequest) error {
	if _, err := s.repo.Track.GetByID(ctx, req.TrackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrackNotFound
		}
		s.logger.Error("查询轨道失败", zap.Int64("id", req.TrackID), zap.Error(err))
		return err
	}

	// 引用的标准必须全部存在，缺失的一并报出
	ids := make([]int64, 0, len(req.Entries))
	for _, entry := range req.Entries {
		ids = append(ids, entry.CriterionID)
	}
	existing, err := s.repo.Criterion.ExistingIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量解析标准失败", zap.Error(err))
		return err
	}
	if len(existing) != len(ids) {
		found := make(map[int64]struct{}, len(existing))
		for _, id := range existing {
			found[id] = struct{}{}
		}
		resErr := &ResolutionError{}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				resErr.MissingCriteria = append(resErr.MissingCriteria, id)
			}
		}
		return resErr
	}

	// 整体替换：先清旧配置再写新配置，原子完成
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	old, err := txRepo.Criterion.ListTrackConfigs(ctx, req.TrackID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("查询旧草稿配置失败", zap.Error(err))
		return err
	}
	for _, cfg := range old {
		if err := txRepo.Criterion.DeleteTrackConfig(ctx, cfg.CriterionID, req.TrackID); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("删除旧草稿配置失败", zap.Error(err))
			return err
		}
	}

	for _, entry := range req.Entries {
		weight := entry.Weight
		if weight == 0 {
			weight = 1
		}
		cfg := &model.CriterionTrackConfig{
			CriterionID: entry.CriterionID,
			TrackID:     req.TrackID,
			Weight:      weight,
		}
		if err := txRepo.Criterion.UpsertTrackConfig(ctx, cfg); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("写入草稿配置失败", zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("草稿配置已更新",
		zap.Int64("track_id", req.TrackID),
		zap.Int("entries", len(req.Entries)))

	return nil
}

func (s *criteriaService) GetTrackConfigs(ctx context.Context, trackID int64) (*dto.TrackConfigResponse, error) {
	cfgs, err := s.repo.Criterion.ListTrackConfigs(ctx, trackID)
	if err != nil {
		s.logger.Error("查询草稿配置失败", zap.Int64("track_id", trackID), zap.Error(err))
		return nil, err
	}

	resp := &dto.TrackConfigResponse{TrackID: trackID, Pillars: []dto.PillarConfigGroup{}}

	// 按支柱分组，仅用于展示
	groups := make(map[int64]*dto.PillarConfigGroup)
	var order []int64
	for _, cfg := range cfgs {
		if cfg.Criterion == nil {
			continue
		}
		pillarID := cfg.Criterion.PillarID
		group, ok := groups[pillarID]
		if !ok {
			group = &dto.PillarConfigGroup{PillarID: pillarID}
			if cfg.Criterion.Pillar != nil {
				group.PillarName = cfg.Criterion.Pillar.Name
			}
			groups[pillarID] = group
			order = append(order, pillarID)
		}
		group.Criteria = append(group.Criteria, dto.CriterionConfigEntry{
			CriterionID:   cfg.CriterionID,
			CriterionName: cfg.Criterion.Name,
			Weight:        cfg.Weight,
		})
	}
	for _, pillarID := range order {
		resp.Pillars = append(resp.Pillars, *groups[pillarID])
	}

	return resp, nil
}

// ── 内部辅助方法 ──

func (s *criteriaService) toCriterionResponse(criterion *model.Criterion) *dto.CriterionResponse {
	resp := &dto.CriterionResponse{
		ID:          criterion.ID,
		Name:        criterion.Name,
		Description: criterion.Description,
		PillarID:    criterion.PillarID,
	}
	if criterion.Pillar != nil {
		resp.Pillar = criterion.Pillar.Name
	}
	return resp
}

// [自证通过] internal/service/criteria_service.go
