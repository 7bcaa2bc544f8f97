package model

// DepartmentLimit 部门预算限额 — 对应 department_limits
// (task_id, department_id) 唯一；任务更新时整体替换，不单独版本化
type DepartmentLimit struct {
	LimitID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"limit_id"`
	TaskID       string  `gorm:"type:uuid;not null;uniqueIndex:uniq_task_department" json:"task_id"`
	DepartmentID string  `gorm:"type:uuid;not null;uniqueIndex:uniq_task_department" json:"department_id"`
	LimitAmount  float64 `gorm:"type:numeric(18,2);not null;default:0"               json:"limit_amount"`
}

// TableName 指定表名
func (DepartmentLimit) TableName() string { return "department_limits" }
