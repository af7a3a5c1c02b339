package dto

import "time"

// ── 评估提交模块 DTO ──
// 提交入口采用前端约定的 camelCase 字段，与其余接口的 snake_case 区分。

// SelfAssessmentItem 自评单条：score 为 0 且 justification 为空表示"不适用"
type SelfAssessmentItem struct {
	CriterionID   int64  `json:"criterionId" binding:"required"`
	Score         int    `json:"score"       binding:"min=0,max=5"`
	Justification string `json:"justification"`
}

// SelfAssessmentPayload 自评整体
type SelfAssessmentPayload struct {
	Criteria      []SelfAssessmentItem `json:"criteria" binding:"required,min=1,dive"`
	Rating        *float64             `json:"rating"   binding:"omitempty,min=0,max=5"`
	Justification string               `json:"justification"`
}

// PeerReviewPayload 360 同侪评价：分数 1-5，无哨兵值
type PeerReviewPayload struct {
	EvaluatedPeerID int64  `json:"evaluatedPeerId" binding:"required"`
	Score           int    `json:"score"           binding:"required,min=1,max=5"`
	Strengths       string `json:"strengths"`
	Improvements    string `json:"improvements"`
}

// MentorReviewPayload 导师评价（可选，至多一条）
type MentorReviewPayload struct {
	MentorID      int64  `json:"mentorId"      binding:"required"`
	Justification string `json:"justification" binding:"required"`
}

// ReferencePayload 引荐条目
type ReferencePayload struct {
	CollaboratorID int64   `json:"collaboratorId" binding:"required"`
	Justification  string  `json:"justification"  binding:"required"`
	TagIDs         []int64 `json:"tagIds"         binding:"required,min=1"`
}

// CreateEvaluationRequest 一次性提交整份评估
type CreateEvaluationRequest struct {
	CycleID        int64                 `json:"cycleId"        binding:"required"`
	SelfAssessment SelfAssessmentPayload `json:"selfAssessment" binding:"required"`
	PeerReviews    []PeerReviewPayload   `json:"peerReviews"    binding:"required,min=1,dive"`
	MentorReview   *MentorReviewPayload  `json:"mentorReview"   binding:"omitempty"`
	References     []ReferencePayload    `json:"references"     binding:"omitempty,dive"`
}

// SubmitEvaluationResponse 提交成功响应
type SubmitEvaluationResponse struct {
	EvaluationID     int64   `json:"evaluationId"`
	AutoEvaluationID int64   `json:"autoEvaluationId"`
	PeerReviewIDs    []int64 `json:"peerReviewIds,omitempty"`
	MentoringID      *int64  `json:"mentoringId,omitempty"`
	ReferenceIDs     []int64 `json:"referenceIds,omitempty"`
}

// ── 读侧响应 ──

// EvaluationDetailResponse 评估详情
type EvaluationDetailResponse struct {
	ID             int64                  `json:"id"`
	CycleID        int64                  `json:"cycleId"`
	EvaluatorID    int64                  `json:"evaluatorId"`
	CreatedAt      time.Time              `json:"createdAt"`
	SelfAssessment *SelfAssessmentDetail  `json:"selfAssessment,omitempty"`
	PeerReviews    []PeerReviewDetail     `json:"peerReviews,omitempty"`
	MentorReview   *MentorReviewDetail    `json:"mentorReview,omitempty"`
	References     []ReferenceDetail      `json:"references,omitempty"`
}

// SelfAssessmentDetail 自评详情
type SelfAssessmentDetail struct {
	ID            int64                      `json:"id"`
	Rating        *float64                   `json:"rating,omitempty"`
	Justification string                     `json:"justification,omitempty"`
	Criteria      []SelfAssessmentItemDetail `json:"criteria"`
}

// SelfAssessmentItemDetail 自评单条详情
type SelfAssessmentItemDetail struct {
	CriterionID   int64  `json:"criterionId"`
	Score         int    `json:"score"`
	Justification string `json:"justification,omitempty"`
}

// PeerReviewDetail 360 评价详情
type PeerReviewDetail struct {
	ID              int64  `json:"id"`
	EvaluatedPeerID int64  `json:"evaluatedPeerId"`
	Score           int    `json:"score"`
	Strengths       string `json:"strengths,omitempty"`
	Improvements    string `json:"improvements,omitempty"`
}

// MentorReviewDetail 导师评价详情
type MentorReviewDetail struct {
	ID            int64  `json:"id"`
	MentorID      int64  `json:"mentorId"`
	Justification string `json:"justification,omitempty"`
}

// ReferenceDetail 引荐详情
type ReferenceDetail struct {
	ID             int64   `json:"id"`
	CollaboratorID int64   `json:"collaboratorId"`
	Justification  string  `json:"justification"`
	TagIDs         []int64 `json:"tagIds"`
}

// EvaluationSummary 周期内评估列表项
type EvaluationSummary struct {
	ID          int64     `json:"id"`
	EvaluatorID int64     `json:"evaluatorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// [自证通过] internal/dto/evaluation.go
