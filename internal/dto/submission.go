package dto

import "github.com/BachaBajceps/HackNation2025-sub000/internal/model"

// ValidationResult 批量发送校验结果
// errors 非空即不通过；warnings 仅提示，不阻断发送
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// SendResponse 批量发送结果
// 校验失败时 success=false 且不产生任何副作用，完整错误清单一次性返回
type SendResponse struct {
	Success  bool                   `json:"success"`
	Batch    *model.SubmissionBatch `json:"batch,omitempty"`
	Errors   []string               `json:"errors"`
	Warnings []string               `json:"warnings"`
}

// DepartmentMonitoring 单个部门的发送进度
type DepartmentMonitoring struct {
	Department         model.Department       `json:"department"`
	LimitAmount        float64                `json:"limit_amount"`
	Batch              *model.SubmissionBatch `json:"batch,omitempty"`
	DraftCount         int64                  `json:"draft_count"`
	DraftSumRok1       float64                `json:"draft_sum_rok_1"`
	Sent               bool                   `json:"sent"`
	RequiresCorrection bool                   `json:"requires_correction"`
}

// MonitoringStatistics 任务维度的发送统计
type MonitoringStatistics struct {
	TotalDepartments   int `json:"total_departments"`
	Sent               int `json:"sent"`
	Pending            int `json:"pending"`
	RequiresCorrection int `json:"requires_correction"`
	PercentComplete    int `json:"percent_complete"`
}

// MonitoringResponse 任务监控视图（仅统计限额大于 0 的部门）
type MonitoringResponse struct {
	Task        model.Task             `json:"task"`
	Departments []DepartmentMonitoring `json:"departments"`
	Statistics  MonitoringStatistics   `json:"statistics"`
	Warnings    []string               `json:"warnings,omitempty"`
}
