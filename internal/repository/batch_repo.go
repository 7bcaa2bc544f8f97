package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
)

// BatchRepository 批量发送记录数据访问接口
type BatchRepository interface {
	Create(ctx context.Context, batch *model.SubmissionBatch) error
	// GetAtVersion 指定任务版本下某部门的批次；不存在返回 (nil, nil)
	GetAtVersion(ctx context.Context, taskID, departmentID string, version int) (*model.SubmissionBatch, error)
	ListByTask(ctx context.Context, taskID string) ([]model.SubmissionBatch, error)
	// ListSentByTask 任务当前所有 status=sent 的批次（改版级联的作用对象）
	ListSentByTask(ctx context.Context, taskID string) ([]model.SubmissionBatch, error)
	// MarkRequiresCorrection 将指定批次从 sent 置为 requires_correction
	MarkRequiresCorrection(ctx context.Context, batchID string) error
}

// batchRepo BatchRepository 的 GORM 实现
type batchRepo struct {
	db *gorm.DB
}

// NewBatchRepo 创建 BatchRepository 实例
func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) Create(ctx context.Context, batch *model.SubmissionBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepo) GetAtVersion(ctx context.Context, taskID, departmentID string, version int) (*model.SubmissionBatch, error) {
	var batch model.SubmissionBatch
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND department_id = ? AND task_version = ?", taskID, departmentID, version).
		First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) ListByTask(ctx context.Context, taskID string) ([]model.SubmissionBatch, error) {
	var batches []model.SubmissionBatch
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ListSentByTask(ctx context.Context, taskID string) ([]model.SubmissionBatch, error) {
	var batches []model.SubmissionBatch
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND status = ?", taskID, model.BatchStatusSent).
		Order("created_at ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) MarkRequiresCorrection(ctx context.Context, batchID string) error {
	return r.db.WithContext(ctx).
		Model(&model.SubmissionBatch{}).
		Where("batch_id = ? AND status = ?", batchID, model.BatchStatusSent).
		Update("status", model.BatchStatusRequiresCorrection).Error
}
