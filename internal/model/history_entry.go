package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChangeType 任务变更类型
type ChangeType string

const (
	ChangeTypeCreation ChangeType = "creation"
	ChangeTypeUpdate   ChangeType = "update"
	ChangeTypeClosure  ChangeType = "closure"
)

// HistoryEntry 任务变更历史 — 对应 task_history（追加式审计日志）
// 每次任务创建/更新/关闭各追加一条，快照为变更前后的任务全量 JSON
type HistoryEntry struct {
	HistoryID      string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	TaskID         string         `gorm:"type:uuid;not null;index"                       json:"task_id"`
	Version        int            `gorm:"not null"                                       json:"version"`
	ChangeType     ChangeType     `gorm:"type:varchar(20);not null"                      json:"change_type"`
	Description    string         `gorm:"type:text"                                      json:"description,omitempty"`
	BeforeSnapshot datatypes.JSON `gorm:"type:jsonb"                                     json:"before_snapshot,omitempty"`
	AfterSnapshot  datatypes.JSON `gorm:"type:jsonb"                                     json:"after_snapshot,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (HistoryEntry) TableName() string { return "task_history" }
