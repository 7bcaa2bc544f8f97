package handler

import "github.com/BachaBajceps/HackNation2025-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Task       *TaskHandler
	Draft      *DraftHandler
	Submission *SubmissionHandler
	Department *DepartmentHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Task:       NewTaskHandler(svc.Task),
		Draft:      NewDraftHandler(svc.Draft),
		Submission: NewSubmissionHandler(svc.Submission),
		Department: NewDepartmentHandler(svc.Department),
		Export:     NewExportHandler(svc.Export),
	}
}
