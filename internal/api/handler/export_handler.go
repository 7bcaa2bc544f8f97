package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/service"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 报表与导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// GetSummaryReport 获取任务汇总报表（仅统计 submitted 行）
// GET /api/v1/tasks/:id/report
func (h *ExportHandler) GetSummaryReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	report, err := h.exportSvc.GetSummaryReport(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.OK(c, report)
}

// ExportReportXLSX 导出任务汇总工作簿
// GET /api/v1/tasks/:id/report/xlsx
func (h *ExportHandler) ExportReportXLSX(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	data, filename, err := h.exportSvc.ExportXLSX(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 11001, "任务不存在")
	default:
		response.InternalError(c)
	}
}
