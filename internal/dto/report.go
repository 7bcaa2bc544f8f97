package dto

import "github.com/BachaBajceps/HackNation2025-sub000/internal/model"

// DepartmentReportRow 汇总报表中单个部门的已提交数据
type DepartmentReportRow struct {
	DepartmentID       string  `json:"department_id"`
	DepartmentName     string  `json:"department_name"`
	LineCount          int     `json:"line_count"`
	SumRok1            float64 `json:"sum_rok_1"`
	LimitAmount        float64 `json:"limit_amount"`
	UtilizationPercent int     `json:"utilization_percent"`
}

// ReportSummary 全任务口径的合计
type ReportSummary struct {
	LineCount int     `json:"line_count"`
	SumRok1   float64 `json:"sum_rok_1"`
	SumRok2   float64 `json:"sum_rok_2"`
	SumRok3   float64 `json:"sum_rok_3"`
	SumRok4   float64 `json:"sum_rok_4"`
}

// SummaryReport 任务汇总报表（仅统计 submitted 行）
type SummaryReport struct {
	Task          model.Task            `json:"task"`
	Lines         []model.DraftLine     `json:"lines"`
	PerDepartment []DepartmentReportRow `json:"per_department"`
	Summary       ReportSummary         `json:"summary"`
}
