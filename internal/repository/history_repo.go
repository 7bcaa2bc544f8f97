package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
)

// HistoryRepository 任务历史数据访问接口（追加式，不提供更新/删除）
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.HistoryEntry) error
	ListByTask(ctx context.Context, taskID string) ([]model.HistoryEntry, error)
}

// historyRepo HistoryRepository 的 GORM 实现
type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepo 创建 HistoryRepository 实例
func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Append(ctx context.Context, entry *model.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *historyRepo) ListByTask(ctx context.Context, taskID string) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
