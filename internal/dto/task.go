package dto

import (
	"time"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
)

// LimitInput 部门限额输入
type LimitInput struct {
	DepartmentID string  `json:"department_id" binding:"required,uuid"`
	LimitAmount  float64 `json:"limit_amount"  binding:"gte=0"`
}

// RuleInput 校验规则输入
// condition 可选；constraint 与 failure_message 描述规则本体
type RuleInput struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	Kind               string `json:"kind" binding:"required"`
	ConditionField     string `json:"condition_field"`
	ConditionOperator  string `json:"condition_operator"`
	ConditionValue     string `json:"condition_value"`
	ConstraintField    string `json:"constraint_field"`
	ConstraintOperator string `json:"constraint_operator"`
	ConstraintValue    string `json:"constraint_value"`
	FailureMessage     string `json:"failure_message" binding:"required"`
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Deadline    *time.Time   `json:"deadline" binding:"required"`
	Limits      []LimitInput `json:"limits"`
	Rules       []RuleInput  `json:"rules"`
}

// UpdateTaskRequest 更新任务请求
// 未提供的字段保持不变；limits/rules 提供时整体替换
type UpdateTaskRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Deadline    *time.Time    `json:"deadline"`
	Limits      *[]LimitInput `json:"limits"`
	Rules       *[]RuleInput  `json:"rules"`
}

// TaskListRequest 任务列表查询参数
type TaskListRequest struct {
	Status string `form:"status"`
}

// TaskDetailResponse 任务详情（含限额与当前活跃规则）
type TaskDetailResponse struct {
	Task   model.Task              `json:"task"`
	Limits []model.DepartmentLimit `json:"limits"`
	Rules  []model.Rule            `json:"rules"`
}
