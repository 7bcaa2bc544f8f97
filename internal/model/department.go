package model

// Department 部门表 — 对应 departments
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Code         string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	Timestamps
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
