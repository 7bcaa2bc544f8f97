package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
)

// ── 测试辅助 ──

func setupTestTaskService() (TaskService, *repository.Repository) {
	repo := newMockRepository()
	tx := &mockTxManager{repo: repo}
	svc := NewTaskService(repo, tx, nil, zap.NewNop())
	return svc, repo
}

func validCreateTaskRequest() *dto.CreateTaskRequest {
	deadline := time.Now().Add(30 * 24 * time.Hour)
	return &dto.CreateTaskRequest{
		Title:    "Budzet 2026",
		Deadline: &deadline,
		Limits: []dto.LimitInput{
			{DepartmentID: "dept-001", LimitAmount: 1000},
		},
		Rules: []dto.RuleInput{
			{
				Name:               "priorytet-wymagany",
				Kind:               "required_field",
				ConstraintField:    "priorytet",
				ConstraintOperator: "IS_NOT_NULL",
				FailureMessage:     "Priorytet jest wymagany",
			},
		},
	}
}

// ── Create 测试 ──

func TestTaskService_Create_Success(t *testing.T) {
	svc, repo := setupTestTaskService()

	detail, err := svc.Create(context.Background(), validCreateTaskRequest())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if detail.Task.Version != 1 {
		t.Errorf("新任务版本应为 1，实际=%d", detail.Task.Version)
	}
	if detail.Task.Status != model.TaskStatusActive {
		t.Errorf("新任务应为 active，实际=%s", detail.Task.Status)
	}
	if len(detail.Limits) != 1 || detail.Limits[0].LimitAmount != 1000 {
		t.Errorf("限额未持久化，实际=%v", detail.Limits)
	}
	if len(detail.Rules) != 1 || !detail.Rules[0].Active {
		t.Errorf("规则未持久化或未激活，实际=%v", detail.Rules)
	}

	entries, _ := repo.History.ListByTask(context.Background(), detail.Task.TaskID)
	if len(entries) != 1 || entries[0].ChangeType != model.ChangeTypeCreation {
		t.Errorf("期望 1 条 creation 历史，实际=%v", entries)
	}
	if len(entries[0].AfterSnapshot) == 0 {
		t.Error("creation 历史应携带 after 快照")
	}
}

func TestTaskService_Create_MissingTitle(t *testing.T) {
	svc, _ := setupTestTaskService()

	req := validCreateTaskRequest()
	req.Title = ""

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrTaskValidation) {
		t.Errorf("期望 ErrTaskValidation，实际: %v", err)
	}
}

func TestTaskService_Create_InvalidRuleKind(t *testing.T) {
	svc, _ := setupTestTaskService()

	req := validCreateTaskRequest()
	req.Rules[0].Kind = "nonsense"

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrTaskValidation) {
		t.Errorf("期望 ErrTaskValidation，实际: %v", err)
	}
}

func TestTaskService_Create_DuplicateLimit_Conflict(t *testing.T) {
	svc, _ := setupTestTaskService()

	req := validCreateTaskRequest()
	req.Limits = append(req.Limits, dto.LimitInput{DepartmentID: "dept-001", LimitAmount: 2000})

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrLimitConflict) {
		t.Errorf("期望 ErrLimitConflict，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestTaskService_Update_VersionIncrement(t *testing.T) {
	svc, repo := setupTestTaskService()

	detail, err := svc.Create(context.Background(), validCreateTaskRequest())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	taskID := detail.Task.TaskID

	newTitle := "Budzet 2026 v2"
	updated, err := svc.Update(context.Background(), taskID, &dto.UpdateTaskRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Task.Version != 2 {
		t.Errorf("版本应递增至 2，实际=%d", updated.Task.Version)
	}
	if updated.Task.Title != newTitle {
		t.Errorf("标题应更新，实际=%s", updated.Task.Title)
	}

	entries, _ := repo.History.ListByTask(context.Background(), taskID)
	if len(entries) != 2 {
		t.Fatalf("期望 2 条历史，实际=%d", len(entries))
	}
	// 倒序：最新在前
	if entries[0].ChangeType != model.ChangeTypeUpdate || entries[0].Version != 2 {
		t.Errorf("最新历史应为 v2 update，实际=%+v", entries[0])
	}
	if len(entries[0].BeforeSnapshot) == 0 || len(entries[0].AfterSnapshot) == 0 {
		t.Error("update 历史应携带前后快照")
	}
}

func TestTaskService_Update_ReplacesRules(t *testing.T) {
	svc, repo := setupTestTaskService()

	detail, _ := svc.Create(context.Background(), validCreateTaskRequest())
	taskID := detail.Task.TaskID

	newRules := []dto.RuleInput{{
		Name:               "nowa-regula",
		Kind:               "value_range",
		ConstraintField:    "rok_1",
		ConstraintOperator: "<=",
		ConstraintValue:    "500",
		FailureMessage:     "za duzo",
	}}
	updated, err := svc.Update(context.Background(), taskID, &dto.UpdateTaskRequest{Rules: &newRules})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if len(updated.Rules) != 1 || updated.Rules[0].Name != "nowa-regula" {
		t.Errorf("规则应被整体替换，实际=%v", updated.Rules)
	}

	active, _ := repo.Rule.ListActive(context.Background(), taskID)
	if len(active) != 1 {
		t.Errorf("旧规则应被停用，活跃规则数=%d", len(active))
	}
}

func TestTaskService_Update_CorrectionCascade(t *testing.T) {
	svc, repo := setupTestTaskService()

	detail, _ := svc.Create(context.Background(), validCreateTaskRequest())
	taskID := detail.Task.TaskID

	// 部门已在 v1 发送一批：1 条 submitted 行 + sent 批次
	submittedAt := time.Now()
	batch := &model.SubmissionBatch{
		TaskID:       taskID,
		DepartmentID: "dept-001",
		TaskVersion:  1,
		Status:       model.BatchStatusSent,
		LineCount:    1,
		SumaRok1:     500,
		SentAt:       &submittedAt,
	}
	if err := repo.Batch.Create(context.Background(), batch); err != nil {
		t.Fatalf("批次种子失败: %v", err)
	}
	line := &model.DraftLine{
		TaskID:       taskID,
		DepartmentID: "dept-001",
		TaskVersion:  1,
		Status:       model.DraftStatusSubmitted,
		BatchID:      &batch.BatchID,
		NazwaZadania: "Remont",
		Rok1:         f(500),
		SubmittedAt:  &submittedAt,
	}
	_ = repo.Draft.Create(context.Background(), line)

	newTitle := "Budzet 2026 - korekta"
	if _, err := svc.Update(context.Background(), taskID, &dto.UpdateTaskRequest{Title: &newTitle}); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	// 批次转 requires_correction
	got, _ := repo.Batch.GetAtVersion(context.Background(), taskID, "dept-001", 1)
	if got == nil || got.Status != model.BatchStatusRequiresCorrection {
		t.Errorf("批次应转为 requires_correction，实际=%+v", got)
	}

	// submitted 行克隆为 v2 draft，parent 指向原行
	clones, _ := repo.Draft.ListDraftsAtVersion(context.Background(), taskID, "dept-001", 2)
	if len(clones) != 1 {
		t.Fatalf("期望 1 条 v2 克隆草稿，实际=%d", len(clones))
	}
	clone := clones[0]
	if clone.ParentLineID == nil || *clone.ParentLineID != line.LineID {
		t.Errorf("克隆行 parent 应指向原行 %s，实际=%v", line.LineID, clone.ParentLineID)
	}
	if clone.YearAmount(1) != 500 || clone.NazwaZadania != "Remont" {
		t.Errorf("克隆行应保留业务字段，实际=%+v", clone)
	}
	if clone.BatchID != nil || clone.SubmittedAt != nil {
		t.Error("克隆行的批次关联与提交时间应重置")
	}

	// 原行转 historical
	original, _ := repo.Draft.GetByID(context.Background(), line.LineID)
	if original.Status != model.DraftStatusHistorical {
		t.Errorf("原行应转为 historical，实际=%s", original.Status)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestTaskService()

	newTitle := "x"
	_, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateTaskRequest{Title: &newTitle})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望 ErrTaskNotFound，实际: %v", err)
	}
}

// ── Close / Delete 测试 ──

func TestTaskService_Close(t *testing.T) {
	svc, repo := setupTestTaskService()

	detail, _ := svc.Create(context.Background(), validCreateTaskRequest())
	taskID := detail.Task.TaskID

	closed, err := svc.Close(context.Background(), taskID)
	if err != nil || !closed {
		t.Fatalf("首次 Close 应返回 true: closed=%v err=%v", closed, err)
	}

	task, _ := repo.Task.GetByID(context.Background(), taskID)
	if task.Status != model.TaskStatusClosed {
		t.Errorf("任务应为 closed，实际=%s", task.Status)
	}

	// 重复关闭与不存在均返回 false 且无错误
	closed, err = svc.Close(context.Background(), taskID)
	if err != nil || closed {
		t.Errorf("重复 Close 应返回 false: closed=%v err=%v", closed, err)
	}
	closed, err = svc.Close(context.Background(), "nonexistent")
	if err != nil || closed {
		t.Errorf("不存在任务的 Close 应返回 false: closed=%v err=%v", closed, err)
	}

	entries, _ := repo.History.ListByTask(context.Background(), taskID)
	if len(entries) != 2 || entries[0].ChangeType != model.ChangeTypeClosure {
		t.Errorf("期望最新历史为 closure，实际=%v", entries)
	}
}

func TestTaskService_Delete(t *testing.T) {
	svc, _ := setupTestTaskService()

	detail, _ := svc.Create(context.Background(), validCreateTaskRequest())

	deleted, err := svc.Delete(context.Background(), detail.Task.TaskID)
	if err != nil || !deleted {
		t.Fatalf("Delete 应返回 true: deleted=%v err=%v", deleted, err)
	}
	deleted, err = svc.Delete(context.Background(), detail.Task.TaskID)
	if err != nil || deleted {
		t.Errorf("重复 Delete 应返回 false: deleted=%v err=%v", deleted, err)
	}
}

// ── GetHistory 测试 ──

func TestTaskService_GetHistory_NotFound(t *testing.T) {
	svc, _ := setupTestTaskService()

	_, err := svc.GetHistory(context.Background(), "nonexistent")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望 ErrTaskNotFound，实际: %v", err)
	}
}
