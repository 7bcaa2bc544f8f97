package model

import (
	"fmt"
	"time"
)

// BatchStatus 批量发送状态（闭合枚举）
type BatchStatus string

const (
	BatchStatusPending            BatchStatus = "pending"
	BatchStatusSent               BatchStatus = "sent"
	BatchStatusRequiresCorrection BatchStatus = "requires_correction" // 任务改版触发
)

// ParseBatchStatus 解析批次状态，非法值返回错误
func ParseBatchStatus(s string) (BatchStatus, error) {
	switch BatchStatus(s) {
	case BatchStatusPending, BatchStatusSent, BatchStatusRequiresCorrection:
		return BatchStatus(s), nil
	}
	return "", fmt.Errorf("非法的批次状态: %q", s)
}

// SubmissionBatch 部门批量发送记录 — 对应 submission_batches
// (task_id, department_id, task_version) 唯一：每个任务版本每个部门至多一个批次，
// 并发重复发送依赖该唯一索引在数据库层拦截
type SubmissionBatch struct {
	BatchID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"batch_id"`
	TaskID       string      `gorm:"type:uuid;not null;uniqueIndex:uniq_batch_version" json:"task_id"`
	DepartmentID string      `gorm:"type:uuid;not null;uniqueIndex:uniq_batch_version" json:"department_id"`
	TaskVersion  int         `gorm:"not null;uniqueIndex:uniq_batch_version"           json:"task_version"`
	Status       BatchStatus `gorm:"type:varchar(20);not null;default:'pending'"       json:"status"`
	LineCount    int         `gorm:"not null;default:0"                                json:"line_count"`
	SumaRok1     float64     `gorm:"column:suma_rok_1;type:numeric(18,2);not null;default:0" json:"suma_rok_1"`
	SumaRok2     float64     `gorm:"column:suma_rok_2;type:numeric(18,2);not null;default:0" json:"suma_rok_2"`
	SumaRok3     float64     `gorm:"column:suma_rok_3;type:numeric(18,2);not null;default:0" json:"suma_rok_3"`
	SumaRok4     float64     `gorm:"column:suma_rok_4;type:numeric(18,2);not null;default:0" json:"suma_rok_4"`
	SentAt       *time.Time  `json:"sent_at,omitempty"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (SubmissionBatch) TableName() string { return "submission_batches" }
