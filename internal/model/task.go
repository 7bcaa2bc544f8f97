package model

import (
	"fmt"
	"time"
)

// TaskStatus 任务状态（闭合枚举，构造期校验）
type TaskStatus string

const (
	TaskStatusActive TaskStatus = "active"
	TaskStatusClosed TaskStatus = "closed"
)

// ParseTaskStatus 解析任务状态字符串，非法值返回错误
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusActive, TaskStatusClosed:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("非法的任务状态: %q", s)
}

// Task 预算编制任务 — 对应 tasks
// version 单调递增；限额或规则变更原地更新任务行并追加历史记录
type Task struct {
	TaskID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string     `gorm:"type:text"                                      json:"description,omitempty"`
	Deadline    time.Time  `gorm:"not null"                                       json:"deadline"`
	Version     int        `gorm:"not null;default:1"                             json:"version"`
	Status      TaskStatus `gorm:"type:varchar(10);not null;default:'active'"     json:"status"`
	Timestamps
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// IsActive 任务是否处于可编辑状态
func (t *Task) IsActive() bool { return t.Status == TaskStatusActive }
