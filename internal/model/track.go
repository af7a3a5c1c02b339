package model

// Track 职业轨道表 — 对应 tracks
// 轨道决定协作者自评时必须覆盖的标准集合
type Track struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text;not null"         json:"description"`
	BaseModel
}

// TableName 指定表名
func (Track) TableName() string { return "tracks" }

// [自证通过] internal/model/track.go
