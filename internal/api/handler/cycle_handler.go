package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/service"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/response"
)

// CycleHandler 评估周期模块 HTTP 处理器
type CycleHandler struct {
	cycleSvc service.CycleService
}

// NewCycleHandler 创建 CycleHandler
func NewCycleHandler(cycleSvc service.CycleService) *CycleHandler {
	return &CycleHandler{cycleSvc: cycleSvc}
}

// CreateCycle 创建周期（冻结当前草稿配置为快照）
// POST /api/v1/cycles
func (h *CycleHandler) CreateCycle(c *gin.Context) {
	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cycle, err := h.cycleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.Created(c, cycle)
}

// GetCycle 查询单个周期
// GET /api/v1/cycles/:id
func (h *CycleHandler) GetCycle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cycle, err := h.cycleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// GetCurrentCycle 查询当前周期
// GET /api/v1/cycles/current
func (h *CycleHandler) GetCurrentCycle(c *gin.Context) {
	cycle, err := h.cycleSvc.GetCurrent(c.Request.Context())
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// ListCycles 周期列表
// GET /api/v1/cycles
func (h *CycleHandler) ListCycles(c *gin.Context) {
	cycles, err := h.cycleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, cycles)
}

// UpdateCycle 更新周期信息
// PUT /api/v1/cycles/:id
func (h *CycleHandler) UpdateCycle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cycle, err := h.cycleSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// ExtendCycle 延长周期结束日期
// PUT /api/v1/cycles/:id/extend
func (h *CycleHandler) ExtendCycle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ExtendCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cycle, err := h.cycleSvc.Extend(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// FinalizeCycle 结束周期（此后拒绝一切提交）
// PUT /api/v1/cycles/:id/finalize
func (h *CycleHandler) FinalizeCycle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cycleSvc.Finalize(c.Request.Context(), id); err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ActivateCycle 将周期设为当前周期
// PUT /api/v1/cycles/:id/activate
func (h *CycleHandler) ActivateCycle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cycleSvc.Activate(c.Request.Context(), id); err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, nil)
}

// CancelCycle 作废周期（连带删除该周期全部评估）
// DELETE /api/v1/cycles/:id
func (h *CycleHandler) CancelCycle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cycleSvc.Cancel(c.Request.Context(), id); err != nil {
		h.handleCycleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CycleHandler) handleCycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 15001, "评估周期不存在")
	case errors.Is(err, service.ErrCycleNameTaken):
		response.Conflict(c, 15002, "周期名称已存在")
	case errors.Is(err, service.ErrCycleDateInvalid):
		response.BadRequest(c, 15003, "周期结束日期必须晚于开始日期")
	case errors.Is(err, service.ErrCycleAlreadyDone):
		response.BadRequest(c, 15004, "周期已结束，不可修改")
	case errors.Is(err, service.ErrNoDraftConfig):
		response.BadRequest(c, 15005, "没有任何标准-轨道草稿配置，无法创建周期")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/cycle_handler.go
