package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
)

// ── Mock TxManager ──

// mockTxManager 直接在同一聚合上执行事务体（无真实事务语义）
type mockTxManager struct {
	repo *repository.Repository
	// failWith 非 nil 时事务体执行前直接失败（模拟回滚路径）
	failWith error
}

func (m *mockTxManager) Do(_ context.Context, fn repository.TxFunc) error {
	if m.failWith != nil {
		return m.failWith
	}
	return fn(m.repo)
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	departments map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{departments: map[string]*model.Department{
		"dept-001": {DepartmentID: "dept-001", Name: "Departament Budzetu", Code: "DB"},
		"dept-002": {DepartmentID: "dept-002", Name: "Departament Prawny", Code: "DP"},
	}}
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
	seq   int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		m.seq++
		task.TaskID = fmt.Sprintf("task-%03d", m.seq)
	}
	copied := *task
	m.tasks[task.TaskID] = &copied
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context, status model.TaskStatus) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		if status != "" && t.Status != status {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	copied := *task
	m.tasks[task.TaskID] = &copied
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

// ── Mock LimitRepository ──

type mockLimitRepo struct {
	limits []model.DepartmentLimit
}

func newMockLimitRepo() *mockLimitRepo {
	return &mockLimitRepo{}
}

func (m *mockLimitRepo) CreateMany(_ context.Context, limits []model.DepartmentLimit) error {
	for _, in := range limits {
		for _, l := range m.limits {
			if l.TaskID == in.TaskID && l.DepartmentID == in.DepartmentID {
				return gorm.ErrDuplicatedKey
			}
		}
		m.limits = append(m.limits, in)
	}
	return nil
}

func (m *mockLimitRepo) ListByTask(_ context.Context, taskID string) ([]model.DepartmentLimit, error) {
	var result []model.DepartmentLimit
	for _, l := range m.limits {
		if l.TaskID == taskID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLimitRepo) GetAmount(_ context.Context, taskID, departmentID string) (float64, error) {
	for _, l := range m.limits {
		if l.TaskID == taskID && l.DepartmentID == departmentID {
			return l.LimitAmount, nil
		}
	}
	return 0, nil
}

func (m *mockLimitRepo) ReplaceForTask(_ context.Context, taskID string, limits []model.DepartmentLimit) error {
	kept := m.limits[:0]
	for _, l := range m.limits {
		if l.TaskID != taskID {
			kept = append(kept, l)
		}
	}
	m.limits = append(kept, limits...)
	return nil
}

// ── Mock RuleRepository ──

type mockRuleRepo struct {
	rules []model.Rule
	seq   int
}

func newMockRuleRepo() *mockRuleRepo {
	return &mockRuleRepo{}
}

func (m *mockRuleRepo) CreateMany(_ context.Context, rules []model.Rule) error {
	for _, r := range rules {
		if r.RuleID == "" {
			m.seq++
			r.RuleID = fmt.Sprintf("rule-%03d", m.seq)
		}
		m.rules = append(m.rules, r)
	}
	return nil
}

func (m *mockRuleRepo) ListActive(_ context.Context, taskID string) ([]model.Rule, error) {
	var result []model.Rule
	for _, r := range m.rules {
		if r.TaskID == taskID && r.Active {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRuleRepo) DeactivateAllForTask(_ context.Context, taskID string) error {
	for i := range m.rules {
		if m.rules[i].TaskID == taskID {
			m.rules[i].Active = false
		}
	}
	return nil
}

// ── Mock DraftRepository ──

type mockDraftRepo struct {
	lines map[string]*model.DraftLine
	seq   int
}

func newMockDraftRepo() *mockDraftRepo {
	return &mockDraftRepo{lines: make(map[string]*model.DraftLine)}
}

func (m *mockDraftRepo) Create(_ context.Context, line *model.DraftLine) error {
	if line.LineID == "" {
		m.seq++
		line.LineID = fmt.Sprintf("line-%03d", m.seq)
	}
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now()
	}
	copied := *line
	m.lines[line.LineID] = &copied
	return nil
}

func (m *mockDraftRepo) CreateMany(ctx context.Context, lines []model.DraftLine) error {
	for i := range lines {
		if err := m.Create(ctx, &lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockDraftRepo) GetByID(_ context.Context, id string) (*model.DraftLine, error) {
	if l, ok := m.lines[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDraftRepo) List(_ context.Context, filters *repository.DraftListFilters) ([]model.DraftLine, error) {
	var result []model.DraftLine
	for _, l := range m.lines {
		if filters != nil {
			if filters.TaskID != "" && l.TaskID != filters.TaskID {
				continue
			}
			if filters.DepartmentID != "" && l.DepartmentID != filters.DepartmentID {
				continue
			}
			if filters.Status != "" && l.Status != filters.Status {
				continue
			}
			if filters.Kategoria != "" && l.Kategoria != filters.Kategoria {
				continue
			}
			if filters.Priorytet != "" && l.Priorytet != filters.Priorytet {
				continue
			}
			if filters.KodRozdzialu != "" && l.KodRozdzialu != filters.KodRozdzialu {
				continue
			}
		}
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockDraftRepo) ListForDepartment(_ context.Context, taskID, departmentID string, status model.DraftStatus) ([]model.DraftLine, error) {
	var result []model.DraftLine
	for _, l := range m.lines {
		if l.TaskID != taskID || l.DepartmentID != departmentID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockDraftRepo) ListDraftsAtVersion(_ context.Context, taskID, departmentID string, version int) ([]model.DraftLine, error) {
	var result []model.DraftLine
	for _, l := range m.lines {
		if l.TaskID == taskID && l.DepartmentID == departmentID &&
			l.Status == model.DraftStatusDraft && l.TaskVersion == version {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockDraftRepo) ListSubmitted(_ context.Context, taskID, departmentID string) ([]model.DraftLine, error) {
	var result []model.DraftLine
	for _, l := range m.lines {
		if l.TaskID == taskID && l.DepartmentID == departmentID && l.Status == model.DraftStatusSubmitted {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockDraftRepo) SumDraftsAtVersion(ctx context.Context, taskID, departmentID string, version int) (*repository.DraftSums, error) {
	lines, _ := m.ListDraftsAtVersion(ctx, taskID, departmentID, version)
	sums := &repository.DraftSums{}
	for i := range lines {
		sums.Count++
		sums.SumaRok1 += lines[i].YearAmount(1)
		sums.SumaRok2 += lines[i].YearAmount(2)
		sums.SumaRok3 += lines[i].YearAmount(3)
		sums.SumaRok4 += lines[i].YearAmount(4)
	}
	return sums, nil
}

func (m *mockDraftRepo) Update(_ context.Context, line *model.DraftLine) error {
	copied := *line
	m.lines[line.LineID] = &copied
	return nil
}

func (m *mockDraftRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.lines[id]; !ok {
		return false, nil
	}
	delete(m.lines, id)
	return true, nil
}

func (m *mockDraftRepo) MarkSubmitted(_ context.Context, taskID, departmentID string, version int, batchID string, at time.Time) error {
	for _, l := range m.lines {
		if l.TaskID == taskID && l.DepartmentID == departmentID &&
			l.Status == model.DraftStatusDraft && l.TaskVersion == version {
			l.Status = model.DraftStatusSubmitted
			l.BatchID = &batchID
			submittedAt := at
			l.SubmittedAt = &submittedAt
		}
	}
	return nil
}

func (m *mockDraftRepo) MarkSubmittedHistorical(_ context.Context, taskID, departmentID string) error {
	for _, l := range m.lines {
		if l.TaskID == taskID && l.DepartmentID == departmentID && l.Status == model.DraftStatusSubmitted {
			l.Status = model.DraftStatusHistorical
		}
	}
	return nil
}

// ── Mock BatchRepository ──

type mockBatchRepo struct {
	batches map[string]*model.SubmissionBatch
	seq     int
}

func newMockBatchRepo() *mockBatchRepo {
	return &mockBatchRepo{batches: make(map[string]*model.SubmissionBatch)}
}

// Create 模拟 (task_id, department_id, task_version) 唯一索引冲突
func (m *mockBatchRepo) Create(_ context.Context, batch *model.SubmissionBatch) error {
	for _, b := range m.batches {
		if b.TaskID == batch.TaskID && b.DepartmentID == batch.DepartmentID && b.TaskVersion == batch.TaskVersion {
			return gorm.ErrDuplicatedKey
		}
	}
	if batch.BatchID == "" {
		m.seq++
		batch.BatchID = fmt.Sprintf("batch-%03d", m.seq)
	}
	copied := *batch
	m.batches[batch.BatchID] = &copied
	return nil
}

func (m *mockBatchRepo) GetAtVersion(_ context.Context, taskID, departmentID string, version int) (*model.SubmissionBatch, error) {
	for _, b := range m.batches {
		if b.TaskID == taskID && b.DepartmentID == departmentID && b.TaskVersion == version {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockBatchRepo) ListByTask(_ context.Context, taskID string) ([]model.SubmissionBatch, error) {
	var result []model.SubmissionBatch
	for _, b := range m.batches {
		if b.TaskID == taskID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBatchRepo) ListSentByTask(_ context.Context, taskID string) ([]model.SubmissionBatch, error) {
	var result []model.SubmissionBatch
	for _, b := range m.batches {
		if b.TaskID == taskID && b.Status == model.BatchStatusSent {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockBatchRepo) MarkRequiresCorrection(_ context.Context, batchID string) error {
	if b, ok := m.batches[batchID]; ok && b.Status == model.BatchStatusSent {
		b.Status = model.BatchStatusRequiresCorrection
	}
	return nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	entries []model.HistoryEntry
	seq     int
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{}
}

func (m *mockHistoryRepo) Append(_ context.Context, entry *model.HistoryEntry) error {
	if entry.HistoryID == "" {
		m.seq++
		entry.HistoryID = fmt.Sprintf("hist-%03d", m.seq)
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockHistoryRepo) ListByTask(_ context.Context, taskID string) ([]model.HistoryEntry, error) {
	var result []model.HistoryEntry
	for _, e := range m.entries {
		if e.TaskID == taskID {
			result = append(result, e)
		}
	}
	// 倒序：最新在前
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

// ── 聚合构造 ──

// newMockRepository 全部仓储均为内存实现的聚合
func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Department: newMockDeptRepo(),
		Task:       newMockTaskRepo(),
		Limit:      newMockLimitRepo(),
		Rule:       newMockRuleRepo(),
		Draft:      newMockDraftRepo(),
		Batch:      newMockBatchRepo(),
		History:    newMockHistoryRepo(),
	}
}
