package model

// Pillar 支柱表 — 对应 pillars
// 支柱是标准的主题分组，仅用于展示，不参与校验
type Pillar struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Pillar) TableName() string { return "pillars" }

// Criterion 评分标准表 — 对应 criteria
type Criterion struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Description string `gorm:"type:text;not null"         json:"description"`
	PillarID    int64  `gorm:"not null;index"             json:"pillar_id"`
	BaseModel

	// 关联
	Pillar *Pillar `gorm:"foreignKey:PillarID" json:"pillar,omitempty"`
}

// TableName 指定表名
func (Criterion) TableName() string { return "criteria" }

// CriterionTrackConfig 标准-轨道草稿配置 — 对应 criterion_track_configs
// 草稿层可在周期之间自由编辑；创建周期时整体复制为快照
type CriterionTrackConfig struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CriterionID int64   `gorm:"not null;uniqueIndex:uq_ctc_criterion_track" json:"criterion_id"`
	TrackID     int64   `gorm:"not null;uniqueIndex:uq_ctc_criterion_track" json:"track_id"`
	Weight      float64 `gorm:"not null;default:1" json:"weight"`
	BaseModel

	// 关联
	Criterion *Criterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
}

// TableName 指定表名
func (CriterionTrackConfig) TableName() string { return "criterion_track_configs" }

// CriterionTrackCycleConfig 标准-轨道周期快照 — 对应 criterion_track_cycle_configs
// 周期创建时由草稿复制；周期存续期间不可修改，
// 保证授权标准集合在周期生命周期内稳定
type CriterionTrackCycleConfig struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CycleID     int64   `gorm:"not null;uniqueIndex:uq_ctcc_cycle_criterion_track" json:"cycle_id"`
	CriterionID int64   `gorm:"not null;uniqueIndex:uq_ctcc_cycle_criterion_track" json:"criterion_id"`
	TrackID     int64   `gorm:"not null;uniqueIndex:uq_ctcc_cycle_criterion_track" json:"track_id"`
	Weight      float64 `gorm:"not null;default:1" json:"weight"`
	BaseModel

	// 关联
	Criterion *Criterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
}

// TableName 指定表名
func (CriterionTrackCycleConfig) TableName() string { return "criterion_track_cycle_configs" }

// [自证通过] internal/model/criterion.go
