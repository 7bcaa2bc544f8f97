package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
)

// DraftListFilters 表单行列表筛选条件（零值字段不参与过滤）
type DraftListFilters struct {
	TaskID             string
	DepartmentID       string
	Status             model.DraftStatus
	KodRozdzialu       string
	KodParagrafu       string
	KodDzialania       string
	Kategoria          string
	Priorytet          string
	TypWydatku         string
	ZrodloFinansowania string
}

// DraftSums 部门草稿聚合：行数与四个年度的金额合计
type DraftSums struct {
	Count    int64
	SumaRok1 float64
	SumaRok2 float64
	SumaRok3 float64
	SumaRok4 float64
}

// DraftRepository 预算表单行数据访问接口
type DraftRepository interface {
	Create(ctx context.Context, line *model.DraftLine) error
	CreateMany(ctx context.Context, lines []model.DraftLine) error
	GetByID(ctx context.Context, id string) (*model.DraftLine, error)
	List(ctx context.Context, filters *DraftListFilters) ([]model.DraftLine, error)
	ListForDepartment(ctx context.Context, taskID, departmentID string, status model.DraftStatus) ([]model.DraftLine, error)
	// ListDraftsAtVersion 指定任务版本下的全部 draft 行（发送候选集）
	ListDraftsAtVersion(ctx context.Context, taskID, departmentID string, version int) ([]model.DraftLine, error)
	// ListSubmitted 部门全部 submitted 行，最近提交在前（改版克隆的来源集）
	ListSubmitted(ctx context.Context, taskID, departmentID string) ([]model.DraftLine, error)
	SumDraftsAtVersion(ctx context.Context, taskID, departmentID string, version int) (*DraftSums, error)
	Update(ctx context.Context, line *model.DraftLine) error
	Delete(ctx context.Context, id string) (bool, error)
	// MarkSubmitted 将指定版本下的全部 draft 行置为 submitted 并关联批次
	MarkSubmitted(ctx context.Context, taskID, departmentID string, version int, batchID string, at time.Time) error
	// MarkSubmittedHistorical 改版克隆完成后，原 submitted 行统一转为 historical
	MarkSubmittedHistorical(ctx context.Context, taskID, departmentID string) error
}

// draftRepo DraftRepository 的 GORM 实现
type draftRepo struct {
	db *gorm.DB
}

// NewDraftRepo 创建 DraftRepository 实例
func NewDraftRepo(db *gorm.DB) DraftRepository {
	return &draftRepo{db: db}
}

func (r *draftRepo) Create(ctx context.Context, line *model.DraftLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *draftRepo) CreateMany(ctx context.Context, lines []model.DraftLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *draftRepo) GetByID(ctx context.Context, id string) (*model.DraftLine, error) {
	var line model.DraftLine
	err := r.db.WithContext(ctx).
		Where("line_id = ?", id).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *draftRepo) List(ctx context.Context, filters *DraftListFilters) ([]model.DraftLine, error) {
	q := r.db.WithContext(ctx)
	if filters != nil {
		if filters.TaskID != "" {
			q = q.Where("task_id = ?", filters.TaskID)
		}
		if filters.DepartmentID != "" {
			q = q.Where("department_id = ?", filters.DepartmentID)
		}
		if filters.Status != "" {
			q = q.Where("status = ?", filters.Status)
		}
		if filters.KodRozdzialu != "" {
			q = q.Where("kod_rozdzialu = ?", filters.KodRozdzialu)
		}
		if filters.KodParagrafu != "" {
			q = q.Where("kod_paragrafu = ?", filters.KodParagrafu)
		}
		if filters.KodDzialania != "" {
			q = q.Where("kod_dzialania = ?", filters.KodDzialania)
		}
		if filters.Kategoria != "" {
			q = q.Where("kategoria = ?", filters.Kategoria)
		}
		if filters.Priorytet != "" {
			q = q.Where("priorytet = ?", filters.Priorytet)
		}
		if filters.TypWydatku != "" {
			q = q.Where("typ_wydatku = ?", filters.TypWydatku)
		}
		if filters.ZrodloFinansowania != "" {
			q = q.Where("zrodlo_finansowania = ?", filters.ZrodloFinansowania)
		}
	}

	var lines []model.DraftLine
	err := q.Order("created_at DESC").Find(&lines).Error
	return lines, err
}

func (r *draftRepo) ListForDepartment(ctx context.Context, taskID, departmentID string, status model.DraftStatus) ([]model.DraftLine, error) {
	q := r.db.WithContext(ctx).
		Where("task_id = ? AND department_id = ?", taskID, departmentID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var lines []model.DraftLine
	err := q.Order("created_at DESC").Find(&lines).Error
	return lines, err
}

func (r *draftRepo) ListDraftsAtVersion(ctx context.Context, taskID, departmentID string, version int) ([]model.DraftLine, error) {
	var lines []model.DraftLine
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND department_id = ? AND status = ? AND task_version = ?",
			taskID, departmentID, model.DraftStatusDraft, version).
		Order("created_at DESC").
		Find(&lines).Error
	return lines, err
}

func (r *draftRepo) ListSubmitted(ctx context.Context, taskID, departmentID string) ([]model.DraftLine, error) {
	var lines []model.DraftLine
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND department_id = ? AND status = ?",
			taskID, departmentID, model.DraftStatusSubmitted).
		Order("submitted_at DESC").
		Find(&lines).Error
	return lines, err
}

func (r *draftRepo) SumDraftsAtVersion(ctx context.Context, taskID, departmentID string, version int) (*DraftSums, error) {
	var sums DraftSums
	err := r.db.WithContext(ctx).
		Model(&model.DraftLine{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(rok_1), 0) AS suma_rok_1,
			COALESCE(SUM(rok_2), 0) AS suma_rok_2,
			COALESCE(SUM(rok_3), 0) AS suma_rok_3,
			COALESCE(SUM(rok_4), 0) AS suma_rok_4`).
		Where("task_id = ? AND department_id = ? AND status = ? AND task_version = ?",
			taskID, departmentID, model.DraftStatusDraft, version).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
}

func (r *draftRepo) Update(ctx context.Context, line *model.DraftLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *draftRepo) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("line_id = ?", id).
		Delete(&model.DraftLine{})
	return result.RowsAffected > 0, result.Error
}

func (r *draftRepo) MarkSubmitted(ctx context.Context, taskID, departmentID string, version int, batchID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.DraftLine{}).
		Where("task_id = ? AND department_id = ? AND status = ? AND task_version = ?",
			taskID, departmentID, model.DraftStatusDraft, version).
		Updates(map[string]interface{}{
			"status":       model.DraftStatusSubmitted,
			"batch_id":     batchID,
			"submitted_at": at,
		}).Error
}

func (r *draftRepo) MarkSubmittedHistorical(ctx context.Context, taskID, departmentID string) error {
	return r.db.WithContext(ctx).
		Model(&model.DraftLine{}).
		Where("task_id = ? AND department_id = ? AND status = ?",
			taskID, departmentID, model.DraftStatusSubmitted).
		Update("status", model.DraftStatusHistorical).Error
}
