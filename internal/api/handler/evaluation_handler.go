package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/service"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/response"
)

// EvaluationHandler 评估提交模块 HTTP 处理器
type EvaluationHandler struct {
	evalSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evalSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evalSvc: evalSvc}
}

// Submit 一次性提交整份评估（自评 + 同侪评价 + 可选导师评价/引荐）
// POST /api/v1/evaluations
func (h *EvaluationHandler) Submit(c *gin.Context) {
	evaluatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	trackID, ok := MustGetTrackID(c)
	if !ok {
		return
	}

	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.evalSvc.Submit(c.Request.Context(), &req, evaluatorID, trackID)
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}

	response.Created(c, result)
}

// GetMine 查询当前用户在指定周期的评估
// GET /api/v1/evaluations/me?cycle_id=xxx
func (h *EvaluationHandler) GetMine(c *gin.Context) {
	evaluatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cycleID, err := strconv.ParseInt(c.Query("cycle_id"), 10, 64)
	if err != nil || cycleID <= 0 {
		response.BadRequest(c, 10001, "cycle_id 必须为正整数")
		return
	}

	detail, err := h.evalSvc.GetMine(c.Request.Context(), evaluatorID, cycleID)
	if err != nil {
		if errors.Is(err, service.ErrEvaluationNotFound) {
			response.NotFound(c, 16011, "评估不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, detail)
}

// GetEvaluation 查询单份评估详情（委员会/RH）
// GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.evalSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEvaluationNotFound) {
			response.NotFound(c, 16011, "评估不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, detail)
}

// ListByCycle 查询某周期的全部评估摘要（委员会/RH）
// GET /api/v1/evaluations?cycle_id=xxx
func (h *EvaluationHandler) ListByCycle(c *gin.Context) {
	cycleID, err := strconv.ParseInt(c.Query("cycle_id"), 10, 64)
	if err != nil || cycleID <= 0 {
		response.BadRequest(c, 10001, "cycle_id 必须为正整数")
		return
	}

	list, err := h.evalSvc.ListByCycle(c.Request.Context(), cycleID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// handleSubmitError 提交失败时的错误映射
// 身份解析失败与标准集不符时在 details 中列出全部问题项
func (h *EvaluationHandler) handleSubmitError(c *gin.Context, err error) {
	var resErr *service.ResolutionError
	if errors.As(err, &resErr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, 16005, "引用了不存在的身份", resErr.Details())
		return
	}

	var detailed *service.DetailedError
	if errors.As(err, &detailed) {
		switch {
		case errors.Is(err, service.ErrUnauthorizedCriteria):
			response.ErrorWithDetails(c, http.StatusBadRequest, 16006, "提交了未授权的评估标准", detailed.Details)
		case errors.Is(err, service.ErrMissingRequiredCriteria):
			response.ErrorWithDetails(c, http.StatusBadRequest, 16007, "缺少必填的评估标准", detailed.Details)
		default:
			response.ErrorWithDetails(c, http.StatusBadRequest, 16008, "评估内容校验失败", detailed.Details)
		}
		return
	}

	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 16001, "评估周期不存在")
	case errors.Is(err, service.ErrCycleNotStarted):
		response.BadRequest(c, 16002, "评估周期尚未开始")
	case errors.Is(err, service.ErrCycleExpired):
		response.BadRequest(c, 16003, "评估周期已结束")
	case errors.Is(err, service.ErrDuplicateSubmission):
		response.Conflict(c, 16004, "该周期已提交过评估")
	case errors.Is(err, service.ErrNoCriteriaConfigured):
		response.BadRequest(c, 16009, "该轨道在此周期没有配置评估标准")
	case errors.Is(err, service.ErrNoTrackAssigned):
		response.BadRequest(c, 16010, "协作者未分配职业轨道")
	case errors.Is(err, service.ErrPeerReviewsRequired),
		errors.Is(err, service.ErrSelfReview),
		errors.Is(err, service.ErrDuplicatePeer),
		errors.Is(err, service.ErrDuplicateReference),
		errors.Is(err, service.ErrDuplicateCriterion),
		errors.Is(err, service.ErrEmptyTags),
		errors.Is(err, service.ErrScoreOutOfRange),
		errors.Is(err, service.ErrJustificationRequired):
		response.BadRequest(c, 16008, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/evaluation_handler.go
