package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/service"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/response"
)

// DepartmentHandler 部门字典 HTTP 处理器（只读，数据来自种子迁移）
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments 获取部门列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// GetDepartment 获取部门详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			response.NotFound(c, 13001, "部门不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, dept)
}
