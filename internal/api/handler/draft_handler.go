package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/service"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/response"
)

// DraftHandler 预算表单行模块 HTTP 处理器
type DraftHandler struct {
	draftSvc service.DraftService
}

// NewDraftHandler 创建 DraftHandler
func NewDraftHandler(draftSvc service.DraftService) *DraftHandler {
	return &DraftHandler{draftSvc: draftSvc}
}

// CreateDraft 创建表单行（挂在任务当前版本下）
// POST /api/v1/drafts
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var req dto.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	line, err := h.draftSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}

	response.Created(c, line)
}

// GetDraft 获取表单行详情
// GET /api/v1/drafts/:id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "表单ID不能为空")
		return
	}

	line, err := h.draftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}

	response.OK(c, line)
}

// ListDrafts 获取表单行列表（支持按任务/部门/状态/业务字段过滤）
// GET /api/v1/drafts
func (h *DraftHandler) ListDrafts(c *gin.Context) {
	var req dto.DraftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lines, err := h.draftSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": lines})
}

// ListDepartmentDrafts 某任务下指定部门的表单行
// GET /api/v1/tasks/:id/departments/:dept_id/drafts?status=draft
func (h *DraftHandler) ListDepartmentDrafts(c *gin.Context) {
	taskID := c.Param("id")
	departmentID := c.Param("dept_id")
	if taskID == "" || departmentID == "" {
		response.BadRequest(c, 10001, "任务ID与部门ID不能为空")
		return
	}

	lines, err := h.draftSvc.ListForDepartment(c.Request.Context(), taskID, departmentID, c.Query("status"))
	if err != nil {
		h.handleDraftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": lines})
}

// UpdateDraft 更新表单行（仅 draft 状态可更新）
// PUT /api/v1/drafts/:id
func (h *DraftHandler) UpdateDraft(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "表单ID不能为空")
		return
	}

	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	line, err := h.draftSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}

	response.OK(c, line)
}

// DeleteDraft 删除表单行（仅 draft 状态可删除；不存在时返回 deleted=false）
// DELETE /api/v1/drafts/:id
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "表单ID不能为空")
		return
	}

	deleted, err := h.draftSvc.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleDraftError(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": deleted})
}

// handleDraftError 统一处理表单模块业务错误
func (h *DraftHandler) handleDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		response.NotFound(c, 12001, "表单不存在")
	case errors.Is(err, service.ErrDraftNotEditable):
		response.BadRequest(c, 12002, "仅 draft 状态的表单可编辑或删除")
	case errors.Is(err, service.ErrDraftValidation):
		response.BadRequest(c, 12003, err.Error())
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 11001, "任务不存在")
	case errors.Is(err, service.ErrTaskNotActive):
		response.BadRequest(c, 11002, "任务已关闭")
	default:
		response.InternalError(c)
	}
}
