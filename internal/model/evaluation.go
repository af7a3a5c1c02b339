package model

// Evaluation 评估信封表 — 对应 evaluations
// 聚合根：一个协作者在一个周期内的全部评估内容挂在同一信封下；
// (evaluator_id, cycle_id) 的唯一约束保证每周期至多一份提交
type Evaluation struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CycleID     int64 `gorm:"not null;uniqueIndex:uq_evaluations_evaluator_cycle,priority:2" json:"cycle_id"`
	EvaluatorID int64 `gorm:"not null;uniqueIndex:uq_evaluations_evaluator_cycle,priority:1" json:"evaluator_id"`
	BaseModel

	// 关联
	AutoEvaluation *AutoEvaluation       `gorm:"foreignKey:EvaluationID" json:"auto_evaluation,omitempty"`
	Evaluation360s []Evaluation360       `gorm:"foreignKey:EvaluationID" json:"evaluation360s,omitempty"`
	Mentoring      *MentoringEvaluation  `gorm:"foreignKey:EvaluationID" json:"mentoring,omitempty"`
	References     []Reference           `gorm:"foreignKey:EvaluationID" json:"references,omitempty"`
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// AutoEvaluation 自评表 — 对应 auto_evaluations（每信封一条）
type AutoEvaluation struct {
	ID            int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EvaluationID  int64    `gorm:"not null;uniqueIndex"     json:"evaluation_id"`
	Rating        *float64 `json:"rating,omitempty"`
	Justification string   `gorm:"type:text;not null"       json:"justification"`
	BaseModel

	// 关联
	Assignments []AutoEvaluationAssignment `gorm:"foreignKey:AutoEvaluationID" json:"assignments,omitempty"`
}

// TableName 指定表名
func (AutoEvaluation) TableName() string { return "auto_evaluations" }

// AutoEvaluationAssignment 自评单项打分 — 对应 auto_evaluation_assignments
// score=0 且 justification 为空表示「不适用」哨兵值；非 0 分必须有说明
type AutoEvaluationAssignment struct {
	ID               int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AutoEvaluationID int64  `gorm:"not null;index"           json:"auto_evaluation_id"`
	CriterionID      int64  `gorm:"not null"                 json:"criterion_id"`
	Score            int    `gorm:"not null"                 json:"score"`
	Justification    string `gorm:"type:text;not null"       json:"justification"`
	BaseModel

	// 关联
	Criterion *Criterion `gorm:"foreignKey:CriterionID" json:"criterion,omitempty"`
}

// TableName 指定表名
func (AutoEvaluationAssignment) TableName() string { return "auto_evaluation_assignments" }

// Evaluation360 360° 同事评估 — 对应 evaluation360s（每信封 N 条）
type Evaluation360 struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	EvaluationID int64  `gorm:"not null;index"           json:"evaluation_id"`
	EvaluatedID  int64  `gorm:"not null"                 json:"evaluated_id"`
	Score        int    `gorm:"not null"                 json:"score"`
	Strengths    string `gorm:"type:text;not null"       json:"strengths"`
	Improvements string `gorm:"type:text;not null"       json:"improvements"`
	BaseModel
}

// TableName 指定表名
func (Evaluation360) TableName() string { return "evaluation360s" }

// MentoringEvaluation 导师评估 — 对应 mentoring_evaluations（每信封 0-1 条）
type MentoringEvaluation struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	EvaluationID  int64  `gorm:"not null;uniqueIndex"     json:"evaluation_id"`
	MentorID      int64  `gorm:"not null"                 json:"mentor_id"`
	Justification string `gorm:"type:text;not null"       json:"justification"`
	BaseModel
}

// TableName 指定表名
func (MentoringEvaluation) TableName() string { return "mentoring_evaluations" }

// Reference 引用（背书）— 对应 evaluation_references（每信封 N 条）
type Reference struct {
	ID            int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EvaluationID  int64    `gorm:"not null;index"           json:"evaluation_id"`
	EvaluatedID   int64    `gorm:"not null"                 json:"evaluated_id"`
	Justification string   `gorm:"type:text;not null"       json:"justification"`
	TagIDs        IntArray `gorm:"type:int[];not null"      json:"tag_ids"`
	BaseModel
}

// TableName 指定表名
func (Reference) TableName() string { return "evaluation_references" }

// [自证通过] internal/model/evaluation.go
