package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())
	return svc, repo
}

func seedSubmittedLine(repo *repository.Repository, taskID, deptID string, rok1 float64) {
	_ = repo.Draft.Create(context.Background(), &model.DraftLine{
		TaskID:       taskID,
		DepartmentID: deptID,
		TaskVersion:  1,
		Status:       model.DraftStatusSubmitted,
		NazwaZadania: "Zadanie testowe",
		Rok1:         f(rok1),
		Rok2:         f(rok1 / 2),
	})
}

// ── GetSummaryReport 测试 ──

func TestExportService_GetSummaryReport(t *testing.T) {
	svc, repo := setupTestExportService()
	task := seedActiveTask(repo, 1)
	seedLimit(repo, task.TaskID, "dept-001", 1000)
	seedLimit(repo, task.TaskID, "dept-002", 2000)
	seedSubmittedLine(repo, task.TaskID, "dept-001", 400)
	seedSubmittedLine(repo, task.TaskID, "dept-001", 100)
	seedSubmittedLine(repo, task.TaskID, "dept-002", 600)

	// draft 行不参与报表
	seedDraft(repo, task.TaskID, "dept-001", 1, 9999)

	report, err := svc.GetSummaryReport(context.Background(), task.TaskID)
	if err != nil {
		t.Fatalf("GetSummaryReport 应成功: %v", err)
	}

	if report.Summary.LineCount != 3 {
		t.Errorf("期望 3 条 submitted 行，实际=%d", report.Summary.LineCount)
	}
	if report.Summary.SumRok1 != 1100 {
		t.Errorf("rok_1 合计应为 1100，实际=%v", report.Summary.SumRok1)
	}
	if report.Summary.SumRok2 != 550 {
		t.Errorf("rok_2 合计应为 550，实际=%v", report.Summary.SumRok2)
	}

	if len(report.PerDepartment) != 2 {
		t.Fatalf("期望 2 个部门行，实际=%d", len(report.PerDepartment))
	}
	for _, row := range report.PerDepartment {
		switch row.DepartmentID {
		case "dept-001":
			if row.LineCount != 2 || row.SumRok1 != 500 || row.UtilizationPercent != 50 {
				t.Errorf("dept-001 汇总不正确: %+v", row)
			}
		case "dept-002":
			if row.LineCount != 1 || row.SumRok1 != 600 || row.UtilizationPercent != 30 {
				t.Errorf("dept-002 汇总不正确: %+v", row)
			}
		}
	}
}

func TestExportService_GetSummaryReport_TaskNotFound(t *testing.T) {
	svc, _ := setupTestExportService()

	_, err := svc.GetSummaryReport(context.Background(), "nonexistent")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("期望 ErrTaskNotFound，实际: %v", err)
	}
}

// ── ExportXLSX 测试 ──

func TestExportService_ExportXLSX(t *testing.T) {
	svc, repo := setupTestExportService()
	task := seedActiveTask(repo, 1)
	seedLimit(repo, task.TaskID, "dept-001", 1000)
	seedSubmittedLine(repo, task.TaskID, "dept-001", 400)

	data, filename, err := svc.ExportXLSX(context.Background(), task.TaskID)
	if err != nil {
		t.Fatalf("ExportXLSX 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际=%q", filename)
	}

	// 生成的工作簿可回读且含两个 sheet
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("生成的文件应可解析: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Formularze" || sheets[1] != "Podsumowanie" {
		t.Errorf("期望 [Formularze Podsumowanie]，实际=%v", sheets)
	}

	// 明细首行是表头，第二行是数据
	name, err := f.GetCellValue("Formularze", "E2")
	if err != nil {
		t.Fatalf("读取单元格失败: %v", err)
	}
	if name != "Zadanie testowe" {
		t.Errorf("期望任务名写入明细，实际=%q", name)
	}
}
