package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/service"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// CreateTask 创建任务（版本从 1 开始，含部门限额与校验规则）
// POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	detail, err := h.taskSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.Created(c, detail)
}

// GetTask 获取任务详情（含限额与当前活跃规则）
// GET /api/v1/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	detail, err := h.taskSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, detail)
}

// ListTasks 获取任务列表
// GET /api/v1/tasks?status=active
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tasks, err := h.taskSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"list": tasks})
}

// UpdateTask 更新任务（版本 +1，已发送批次进入修正级联）
// PUT /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	detail, err := h.taskSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, detail)
}

// CloseTask 关闭任务
// PUT /api/v1/tasks/:id/close
func (h *TaskHandler) CloseTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	closed, err := h.taskSvc.Close(c.Request.Context(), id)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"closed": closed})
}

// DeleteTask 删除任务
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	deleted, err := h.taskSvc.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": deleted})
}

// GetTaskHistory 获取任务变更历史（倒序）
// GET /api/v1/tasks/:id/history
func (h *TaskHandler) GetTaskHistory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	entries, err := h.taskSvc.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// handleTaskError 统一处理任务模块业务错误
func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 11001, "任务不存在")
	case errors.Is(err, service.ErrTaskNotActive):
		response.BadRequest(c, 11002, "任务已关闭")
	case errors.Is(err, service.ErrTaskValidation):
		response.BadRequest(c, 11003, err.Error())
	case errors.Is(err, service.ErrLimitConflict):
		response.Conflict(c, 11004, "部门限额重复")
	default:
		response.InternalError(c)
	}
}
