package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
)

// ExportService 任务汇总报表与 XLSX 导出
// 报表只统计 submitted 状态的行（draft 未提交、historical 已被新版本替代）
type ExportService interface {
	GetSummaryReport(ctx context.Context, taskID string) (*dto.SummaryReport, error)
	ExportXLSX(ctx context.Context, taskID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── GetSummaryReport ──────────────────────

func (s *exportService) GetSummaryReport(ctx context.Context, taskID string) (*dto.SummaryReport, error) {
	task, err := s.repo.Task.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}

	lines, err := s.repo.Draft.List(ctx, &repository.DraftListFilters{
		TaskID: taskID,
		Status: model.DraftStatusSubmitted,
	})
	if err != nil {
		return nil, err
	}

	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		return nil, err
	}
	deptNames := make(map[string]string, len(depts))
	for _, d := range depts {
		deptNames[d.DepartmentID] = d.Name
	}

	limits, err := s.repo.Limit.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	limitMap := make(map[string]float64, len(limits))
	for _, l := range limits {
		limitMap[l.DepartmentID] = l.LimitAmount
	}

	report := &dto.SummaryReport{Task: *task, Lines: lines, PerDepartment: []dto.DepartmentReportRow{}}

	perDept := make(map[string]*dto.DepartmentReportRow)
	order := []string{}
	for i := range lines {
		line := &lines[i]
		row, ok := perDept[line.DepartmentID]
		if !ok {
			row = &dto.DepartmentReportRow{
				DepartmentID:   line.DepartmentID,
				DepartmentName: deptNames[line.DepartmentID],
				LimitAmount:    limitMap[line.DepartmentID],
			}
			perDept[line.DepartmentID] = row
			order = append(order, line.DepartmentID)
		}
		row.LineCount++
		row.SumRok1 += line.YearAmount(1)

		report.Summary.LineCount++
		report.Summary.SumRok1 += line.YearAmount(1)
		report.Summary.SumRok2 += line.YearAmount(2)
		report.Summary.SumRok3 += line.YearAmount(3)
		report.Summary.SumRok4 += line.YearAmount(4)
	}

	for _, id := range order {
		row := perDept[id]
		if row.LimitAmount > 0 {
			row.UtilizationPercent = int(row.SumRok1 * 100 / row.LimitAmount)
		}
		report.PerDepartment = append(report.PerDepartment, *row)
	}

	return report, nil
}

// ────────────────────── ExportXLSX ──────────────────────

// xlsx 明细表头（波兰语列名与接口字段保持一致）
var xlsxHeaders = []string{
	"Departament", "Kod rozdzialu", "Kod paragrafu", "Kod dzialania",
	"Nazwa zadania", "Kategoria", "Priorytet",
	"Rok 1", "Rok 2", "Rok 3", "Rok 4",
	"Typ wydatku", "Zrodlo finansowania", "Osoba odpowiedzialna",
}

// ExportXLSX 生成任务汇总工作簿：明细 sheet + 部门汇总 sheet
// 返回 (文件内容, 文件名, error)
func (s *exportService) ExportXLSX(ctx context.Context, taskID string) ([]byte, string, error) {
	report, err := s.GetSummaryReport(ctx, taskID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const detailSheet = "Formularze"
	const summarySheet = "Podsumowanie"

	f.SetSheetName("Sheet1", detailSheet)
	for col, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(detailSheet, cell, h)
	}

	deptNames := make(map[string]string, len(report.PerDepartment))
	for _, row := range report.PerDepartment {
		deptNames[row.DepartmentID] = row.DepartmentName
	}

	for i := range report.Lines {
		line := &report.Lines[i]
		values := []interface{}{
			deptNames[line.DepartmentID],
			line.KodRozdzialu, line.KodParagrafu, line.KodDzialania,
			line.NazwaZadania, line.Kategoria, line.Priorytet,
			line.YearAmount(1), line.YearAmount(2), line.YearAmount(3), line.YearAmount(4),
			line.TypWydatku, line.ZrodloFinansowania, line.OsobaOdpowiedzialna,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(detailSheet, cell, v)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", err
	}
	summaryHeaders := []string{"Departament", "Liczba formularzy", "Suma rok 1", "Limit", "Wykorzystanie (%)"}
	for col, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(summarySheet, cell, h)
	}
	for i, row := range report.PerDepartment {
		values := []interface{}{
			row.DepartmentName, row.LineCount, row.SumRok1, row.LimitAmount, row.UtilizationPercent,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("生成 XLSX 失败", zap.String("task_id", taskID), zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("raport_%s_%s.xlsx", taskID, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}
