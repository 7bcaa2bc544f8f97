package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/redis"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound   = errors.New("任务不存在")
	ErrTaskNotActive  = errors.New("任务已关闭")
	ErrTaskValidation = errors.New("任务输入校验失败")
	ErrLimitConflict  = errors.New("部门限额重复")
)

// TaskService 任务版本管理（版本号的唯一拥有者）
//
// 核心不变量：
//   - 每次 Update 使 version 严格 +1，并追加一条历史记录
//   - 改版绝不丢失部门已提交的数据：所有 sent 批次转为 requires_correction，
//     其 submitted 行克隆为新版本的 draft（parent 指向原行），原行转 historical
//   - 上述级联与任务字段变更在同一事务内完成，任一步失败整体回滚
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskDetailResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TaskDetailResponse, error)
	List(ctx context.Context, req *dto.TaskListRequest) ([]model.Task, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*dto.TaskDetailResponse, error)
	Close(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetHistory(ctx context.Context, taskID string) ([]model.HistoryEntry, error)
}

type taskService struct {
	repo   *repository.Repository
	tx     repository.TxManager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, tx repository.TxManager, rdb *redis.Client, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, tx: tx, rdb: rdb, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskDetailResponse, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title 不能为空", ErrTaskValidation)
	}
	if req.Deadline == nil {
		return nil, fmt.Errorf("%w: deadline 不能为空", ErrTaskValidation)
	}

	rules, err := buildRules(req.Rules)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    *req.Deadline,
		Version:     1,
		Status:      model.TaskStatusActive,
	}

	err = s.tx.Do(ctx, func(r *repository.Repository) error {
		if err := r.Task.Create(ctx, task); err != nil {
			return err
		}
		if err := r.Limit.CreateMany(ctx, buildLimits(task.TaskID, req.Limits)); err != nil {
			return err
		}
		for i := range rules {
			rules[i].TaskID = task.TaskID
		}
		if err := r.Rule.CreateMany(ctx, rules); err != nil {
			return err
		}

		after, err := taskSnapshot(ctx, r, task.TaskID)
		if err != nil {
			return err
		}
		return r.History.Append(ctx, &model.HistoryEntry{
			TaskID:        task.TaskID,
			Version:       1,
			ChangeType:    model.ChangeTypeCreation,
			Description:   "Utworzono zadanie",
			AfterSnapshot: after,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLimitConflict
		}
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("任务已创建", zap.String("task_id", task.TaskID), zap.String("title", task.Title))
	return s.GetByID(ctx, task.TaskID)
}

// ────────────────────── GetByID / List ──────────────────────

func (s *taskService) GetByID(ctx context.Context, id string) (*dto.TaskDetailResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	limits, err := s.repo.Limit.ListByTask(ctx, id)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.Rule.ListActive(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.TaskDetailResponse{Task: *task, Limits: limits, Rules: rules}, nil
}

func (s *taskService) List(ctx context.Context, req *dto.TaskListRequest) ([]model.Task, error) {
	var status model.TaskStatus
	if req.Status != "" {
		parsed, err := model.ParseTaskStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTaskValidation, err)
		}
		status = parsed
	}
	return s.repo.Task.List(ctx, status)
}

// ────────────────────── Update ──────────────────────
//
// 系统的正确性关键路径：版本 +1、限额/规则替换、对已发送批次的
// 强制重新修正级联必须原子完成

func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*dto.TaskDetailResponse, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	var newRules []model.Rule
	if req.Rules != nil {
		newRules, err = buildRules(*req.Rules)
		if err != nil {
			return nil, err
		}
	}

	newVersion := task.Version + 1

	err = s.tx.Do(ctx, func(r *repository.Repository) error {
		before, err := taskSnapshot(ctx, r, id)
		if err != nil {
			return err
		}

		// 1. 字段补丁 + 版本号递增
		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Deadline != nil {
			task.Deadline = *req.Deadline
		}
		task.Version = newVersion
		if err := r.Task.Update(ctx, task); err != nil {
			return err
		}

		// 2. 限额整体替换
		if req.Limits != nil {
			if err := r.Limit.ReplaceForTask(ctx, id, buildLimits(id, *req.Limits)); err != nil {
				return err
			}
		}

		// 3. 规则停用后重建
		if req.Rules != nil {
			if err := r.Rule.DeactivateAllForTask(ctx, id); err != nil {
				return err
			}
			for i := range newRules {
				newRules[i].TaskID = id
			}
			if err := r.Rule.CreateMany(ctx, newRules); err != nil {
				return err
			}
		}

		// 4. 修正级联：每个 sent 批次转 requires_correction，
		//    已提交行克隆为新版本 draft，原行转 historical
		sentBatches, err := r.Batch.ListSentByTask(ctx, id)
		if err != nil {
			return err
		}
		for i := range sentBatches {
			batch := &sentBatches[i]
			if err := markRequiresCorrection(ctx, r, batch.BatchID); err != nil {
				return err
			}
			cloned, err := cloneForCorrection(ctx, r, id, batch.DepartmentID, newVersion)
			if err != nil {
				return err
			}
			s.logger.Info("部门数据已克隆为新版本草稿",
				zap.String("task_id", id),
				zap.String("department_id", batch.DepartmentID),
				zap.Int("version", newVersion),
				zap.Int("lines", cloned))
		}

		// 5. 历史记录
		after, err := taskSnapshot(ctx, r, id)
		if err != nil {
			return err
		}
		return r.History.Append(ctx, &model.HistoryEntry{
			TaskID:         id,
			Version:        newVersion,
			ChangeType:     model.ChangeTypeUpdate,
			Description:    "Zaktualizowano zadanie - wymagana korekta",
			BeforeSnapshot: before,
			AfterSnapshot:  after,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrLimitConflict
		}
		s.logger.Error("更新任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateMonitoring(ctx, id)

	s.logger.Info("任务已更新", zap.String("task_id", id), zap.Int("version", newVersion))
	return s.GetByID(ctx, id)
}

// ────────────────────── Close / Delete ──────────────────────

// Close 关闭任务；任务不存在或已关闭时返回 false 而不报错
func (s *taskService) Close(ctx context.Context, id string) (bool, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if task.Status == model.TaskStatusClosed {
		return false, nil
	}

	err = s.tx.Do(ctx, func(r *repository.Repository) error {
		task.Status = model.TaskStatusClosed
		if err := r.Task.Update(ctx, task); err != nil {
			return err
		}
		return r.History.Append(ctx, &model.HistoryEntry{
			TaskID:      id,
			Version:     task.Version,
			ChangeType:  model.ChangeTypeClosure,
			Description: "Zamknieto zadanie",
		})
	})
	if err != nil {
		s.logger.Error("关闭任务失败", zap.String("id", id), zap.Error(err))
		return false, err
	}

	s.invalidateMonitoring(ctx, id)
	return true, nil
}

// Delete 物理删除任务；历史记录的外键清理交由数据库约束处理
func (s *taskService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Task.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除任务失败", zap.String("id", id), zap.Error(err))
		return false, err
	}
	return ok, nil
}

// ────────────────────── GetHistory ──────────────────────

func (s *taskService) GetHistory(ctx context.Context, taskID string) ([]model.HistoryEntry, error) {
	if _, err := s.repo.Task.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return s.repo.History.ListByTask(ctx, taskID)
}

// ── 内部辅助方法 ──

func (s *taskService) invalidateMonitoring(ctx context.Context, taskID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateMonitoring(ctx, taskID); err != nil {
		s.logger.Warn("监控缓存失效失败", zap.String("task_id", taskID), zap.Error(err))
	}
}

// taskSnapshot 任务 + 限额 + 活跃规则的全量 JSON 快照（历史记录用）
func taskSnapshot(ctx context.Context, r *repository.Repository, taskID string) (datatypes.JSON, error) {
	task, err := r.Task.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	limits, err := r.Limit.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	rules, err := r.Rule.ListActive(ctx, taskID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(dto.TaskDetailResponse{Task: *task, Limits: limits, Rules: rules})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// buildLimits 限额输入转模型
func buildLimits(taskID string, inputs []dto.LimitInput) []model.DepartmentLimit {
	limits := make([]model.DepartmentLimit, 0, len(inputs))
	for _, in := range inputs {
		limits = append(limits, model.DepartmentLimit{
			TaskID:       taskID,
			DepartmentID: in.DepartmentID,
			LimitAmount:  in.LimitAmount,
		})
	}
	return limits
}

// buildRules 规则输入转模型；kind 在构造期校验，运算符保持原样
// （未知运算符按 fail-open 求值，不在此拦截）
func buildRules(inputs []dto.RuleInput) ([]model.Rule, error) {
	rules := make([]model.Rule, 0, len(inputs))
	for _, in := range inputs {
		kind, err := model.ParseRuleKind(in.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTaskValidation, err)
		}
		rules = append(rules, model.Rule{
			Name:               in.Name,
			Description:        in.Description,
			Kind:               kind,
			ConditionField:     in.ConditionField,
			ConditionOperator:  model.Operator(in.ConditionOperator),
			ConditionValue:     in.ConditionValue,
			ConstraintField:    in.ConstraintField,
			ConstraintOperator: model.Operator(in.ConstraintOperator),
			ConstraintValue:    in.ConstraintValue,
			FailureMessage:     in.FailureMessage,
			Active:             true,
		})
	}
	return rules, nil
}
