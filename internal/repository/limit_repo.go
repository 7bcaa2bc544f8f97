package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
)

// LimitRepository 部门限额数据访问接口
type LimitRepository interface {
	CreateMany(ctx context.Context, limits []model.DepartmentLimit) error
	ListByTask(ctx context.Context, taskID string) ([]model.DepartmentLimit, error)
	GetAmount(ctx context.Context, taskID, departmentID string) (float64, error)
	// ReplaceForTask 整体替换任务的限额集合（先删后插）
	ReplaceForTask(ctx context.Context, taskID string, limits []model.DepartmentLimit) error
}

// limitRepo LimitRepository 的 GORM 实现
type limitRepo struct {
	db *gorm.DB
}

// NewLimitRepo 创建 LimitRepository 实例
func NewLimitRepo(db *gorm.DB) LimitRepository {
	return &limitRepo{db: db}
}

func (r *limitRepo) CreateMany(ctx context.Context, limits []model.DepartmentLimit) error {
	if len(limits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&limits).Error
}

func (r *limitRepo) ListByTask(ctx context.Context, taskID string) ([]model.DepartmentLimit, error) {
	var limits []model.DepartmentLimit
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Find(&limits).Error
	return limits, err
}

// GetAmount 未配置限额的部门按 0 处理
func (r *limitRepo) GetAmount(ctx context.Context, taskID, departmentID string) (float64, error) {
	var limit model.DepartmentLimit
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND department_id = ?", taskID, departmentID).
		First(&limit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return limit.LimitAmount, nil
}

func (r *limitRepo) ReplaceForTask(ctx context.Context, taskID string, limits []model.DepartmentLimit) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&model.DepartmentLimit{}).Error; err != nil {
		return err
	}
	if len(limits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&limits).Error
}
