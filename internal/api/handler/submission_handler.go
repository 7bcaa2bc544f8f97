package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/service"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/response"
)

// SubmissionHandler 批量发送模块 HTTP 处理器
type SubmissionHandler struct {
	subSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(subSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{subSvc: subSvc}
}

// sendRequest 批量发送请求体
type sendRequest struct {
	TaskID       string `json:"task_id" binding:"required,uuid"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// Send 部门批量发送当前版本下的全部草稿
// 校验失败时返回 200 + success=false 与完整错误清单（业务结果，不是协议错误）
// POST /api/v1/submissions/send
func (h *SubmissionHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.subSvc.Send(c.Request.Context(), req.TaskID, req.DepartmentID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, result)
}

// GetBatchStatus 查询部门在任务当前版本下的发送批次
// GET /api/v1/submissions/status?task_id=xxx&department_id=xxx
func (h *SubmissionHandler) GetBatchStatus(c *gin.Context) {
	taskID := c.Query("task_id")
	departmentID := c.Query("department_id")
	if taskID == "" || departmentID == "" {
		response.BadRequest(c, 10001, "task_id 与 department_id 不能为空")
		return
	}

	batch, err := h.subSvc.GetBatchStatus(c.Request.Context(), taskID, departmentID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, gin.H{"batch": batch})
}

// GetMonitoring 任务监控视图（各部门进度 + 统计 + 告警）
// GET /api/v1/tasks/:id/monitoring
func (h *SubmissionHandler) GetMonitoring(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	monitoring, err := h.subSvc.GetMonitoring(c.Request.Context(), id)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, monitoring)
}

// handleSubmissionError 统一处理发送模块业务错误
func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 11001, "任务不存在")
	case errors.Is(err, service.ErrTaskNotActive):
		response.BadRequest(c, 11002, "任务已关闭")
	case errors.Is(err, service.ErrSubmissionConflict):
		response.Conflict(c, 14001, "该部门在当前任务版本下已存在发送批次")
	default:
		response.InternalError(c)
	}
}
