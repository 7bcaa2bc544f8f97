package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/redis"
)

// ── 发送模块业务错误 ──

var (
	// ErrSubmissionConflict 并发重复发送：同一 (任务, 部门, 版本) 已存在批次
	ErrSubmissionConflict = errors.New("该部门在当前任务版本下已存在发送批次")
)

// SubmissionService 批量发送状态机
//
// 状态流转（按 任务 × 部门 × 版本）：
//
//	无批次 → 存在草稿 → sent（发送成功）→ requires_correction（任务改版触发）
//	       → 新版本下回到草稿态（克隆步骤完成后），循环直至任务关闭
//
// 发送的校验失败不产生任何副作用；全部写操作在单一事务内完成
type SubmissionService interface {
	Send(ctx context.Context, taskID, departmentID string) (*dto.SendResponse, error)
	GetBatchStatus(ctx context.Context, taskID, departmentID string) (*model.SubmissionBatch, error)
	GetMonitoring(ctx context.Context, taskID string) (*dto.MonitoringResponse, error)
}

type submissionService struct {
	repo      *repository.Repository
	tx        repository.TxManager
	validator *BatchValidator
	rdb       *redis.Client
	logger    *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(
	repo *repository.Repository,
	tx repository.TxManager,
	validator *BatchValidator,
	rdb *redis.Client,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{repo: repo, tx: tx, validator: validator, rdb: rdb, logger: logger}
}

// ────────────────────── Send ──────────────────────

func (s *submissionService) Send(ctx context.Context, taskID, departmentID string) (*dto.SendResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}
	if !task.IsActive() {
		return nil, ErrTaskNotActive
	}

	// 发送候选集：任务当前版本下的全部 draft 行
	drafts, err := s.repo.Draft.ListDraftsAtVersion(ctx, taskID, departmentID, task.Version)
	if err != nil {
		return nil, err
	}

	// 校验失败只返回结果，不触碰任何数据
	validation, err := s.validator.ValidateBatch(ctx, taskID, departmentID, drafts)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return &dto.SendResponse{
			Success:  false,
			Errors:   validation.Errors,
			Warnings: validation.Warnings,
		}, nil
	}

	var batch *model.SubmissionBatch
	err = s.tx.Do(ctx, func(r *repository.Repository) error {
		sums, err := r.Draft.SumDraftsAtVersion(ctx, taskID, departmentID, task.Version)
		if err != nil {
			return err
		}

		now := time.Now()
		batch = &model.SubmissionBatch{
			TaskID:       taskID,
			DepartmentID: departmentID,
			TaskVersion:  task.Version,
			Status:       model.BatchStatusSent,
			LineCount:    int(sums.Count),
			SumaRok1:     sums.SumaRok1,
			SumaRok2:     sums.SumaRok2,
			SumaRok3:     sums.SumaRok3,
			SumaRok4:     sums.SumaRok4,
			SentAt:       &now,
		}
		if err := r.Batch.Create(ctx, batch); err != nil {
			return err
		}

		return r.Draft.MarkSubmitted(ctx, taskID, departmentID, task.Version, batch.BatchID, now)
	})
	if err != nil {
		// 唯一索引 (task, department, version) 拦截并发重复发送
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSubmissionConflict
		}
		s.logger.Error("批量发送失败",
			zap.String("task_id", taskID),
			zap.String("department_id", departmentID),
			zap.Error(err))
		return nil, err
	}

	s.invalidateMonitoring(ctx, taskID)

	s.logger.Info("批量发送成功",
		zap.String("task_id", taskID),
		zap.String("department_id", departmentID),
		zap.Int("version", task.Version),
		zap.Int("lines", batch.LineCount))

	return &dto.SendResponse{
		Success:  true,
		Batch:    batch,
		Errors:   []string{},
		Warnings: validation.Warnings,
	}, nil
}

// ────────────────────── GetBatchStatus ──────────────────────

// GetBatchStatus 部门在任务当前版本下的批次；尚未发送时返回 (nil, nil)
func (s *submissionService) GetBatchStatus(ctx context.Context, taskID, departmentID string) (*model.SubmissionBatch, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return s.repo.Batch.GetAtVersion(ctx, taskID, departmentID, task.Version)
}

// ────────────────────── GetMonitoring ──────────────────────

// GetMonitoring 任务监控视图：各部门发送进度与整体统计
// 仅统计限额大于 0 的部门；结果经 Redis 短 TTL 缓存
func (s *submissionService) GetMonitoring(ctx context.Context, taskID string) (*dto.MonitoringResponse, error) {
	if cached := s.cachedMonitoring(ctx, taskID); cached != nil {
		return cached, nil
	}

	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		return nil, err
	}
	limits, err := s.repo.Limit.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	limitMap := make(map[string]float64, len(limits))
	for _, l := range limits {
		limitMap[l.DepartmentID] = l.LimitAmount
	}

	// 每部门取最高版本的批次：改版后 requires_correction 批次留在旧版本，
	// 但仍需在监控中呈现修正状态
	batches, err := s.repo.Batch.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	batchMap := make(map[string]*model.SubmissionBatch, len(batches))
	for i := range batches {
		b := &batches[i]
		if cur, ok := batchMap[b.DepartmentID]; !ok || b.TaskVersion > cur.TaskVersion {
			batchMap[b.DepartmentID] = b
		}
	}

	resp := &dto.MonitoringResponse{Task: *task, Departments: []dto.DepartmentMonitoring{}}
	for _, dept := range depts {
		limit, ok := limitMap[dept.DepartmentID]
		if !ok || limit <= 0 {
			continue // 无限额的部门不参与本任务
		}

		sums, err := s.repo.Draft.SumDraftsAtVersion(ctx, taskID, dept.DepartmentID, task.Version)
		if err != nil {
			return nil, err
		}

		batch := batchMap[dept.DepartmentID]
		entry := dto.DepartmentMonitoring{
			Department:   dept,
			LimitAmount:  limit,
			Batch:        batch,
			DraftCount:   sums.Count,
			DraftSumRok1: sums.SumaRok1,
		}
		if batch != nil {
			entry.Sent = batch.Status == model.BatchStatusSent && batch.TaskVersion == task.Version
			entry.RequiresCorrection = batch.Status == model.BatchStatusRequiresCorrection
		}
		resp.Departments = append(resp.Departments, entry)

		switch {
		case entry.Sent:
			resp.Statistics.Sent++
		case entry.RequiresCorrection:
			resp.Statistics.RequiresCorrection++
			resp.Warnings = append(resp.Warnings,
				fmt.Sprintf("Departament %q wymaga korekty danych", dept.Name))
		default:
			resp.Statistics.Pending++
			resp.Warnings = append(resp.Warnings,
				fmt.Sprintf("Departament %q nie wyslal formularzy", dept.Name))
		}
	}

	resp.Statistics.TotalDepartments = len(resp.Departments)
	if resp.Statistics.TotalDepartments > 0 {
		resp.Statistics.PercentComplete =
			resp.Statistics.Sent * 100 / resp.Statistics.TotalDepartments
	}

	s.cacheMonitoring(ctx, taskID, resp)
	return resp, nil
}

// ── 修正级联（任务改版时由 TaskService 在同一事务内调用）──

// markRequiresCorrection 将 sent 批次置为 requires_correction
func markRequiresCorrection(ctx context.Context, r *repository.Repository, batchID string) error {
	return r.Batch.MarkRequiresCorrection(ctx, batchID)
}

// cloneForCorrection 把部门全部 submitted 行克隆为新版本的 draft 行
// （parent_line_id 指向原行），随后将原行统一转为 historical。
// 保证改版后部门看到的起点就是上次提交的数据：不丢数据、不跨版本混放
func cloneForCorrection(ctx context.Context, r *repository.Repository, taskID, departmentID string, newVersion int) (int, error) {
	submitted, err := r.Draft.ListSubmitted(ctx, taskID, departmentID)
	if err != nil {
		return 0, err
	}
	if len(submitted) == 0 {
		return 0, nil
	}

	clones := make([]model.DraftLine, 0, len(submitted))
	for i := range submitted {
		clones = append(clones, cloneLine(&submitted[i], newVersion))
	}
	if err := r.Draft.CreateMany(ctx, clones); err != nil {
		return 0, err
	}

	if err := r.Draft.MarkSubmittedHistorical(ctx, taskID, departmentID); err != nil {
		return 0, err
	}
	return len(clones), nil
}

// cloneLine 复制业务字段，生命周期字段重置为新版本草稿
func cloneLine(src *model.DraftLine, newVersion int) model.DraftLine {
	clone := *src
	clone.LineID = ""
	clone.BatchID = nil
	clone.Status = model.DraftStatusDraft
	parentID := src.LineID
	clone.ParentLineID = &parentID
	clone.TaskVersion = newVersion
	clone.SubmittedAt = nil
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return clone
}

// ── 监控缓存 ──

func (s *submissionService) cachedMonitoring(ctx context.Context, taskID string) *dto.MonitoringResponse {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.GetMonitoring(ctx, taskID)
	if err != nil {
		s.logger.Warn("读取监控缓存失败", zap.String("task_id", taskID), zap.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}
	var resp dto.MonitoringResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *submissionService) cacheMonitoring(ctx context.Context, taskID string, resp *dto.MonitoringResponse) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.SetMonitoring(ctx, taskID, data); err != nil {
		s.logger.Warn("写入监控缓存失败", zap.String("task_id", taskID), zap.Error(err))
	}
}

func (s *submissionService) invalidateMonitoring(ctx context.Context, taskID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateMonitoring(ctx, taskID); err != nil {
		s.logger.Warn("监控缓存失效失败", zap.String("task_id", taskID), zap.Error(err))
	}
}
