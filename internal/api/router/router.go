package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BachaBajceps/HackNation2025-sub000/config"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/api/handler"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 任务模块
		tasks := v1.Group("/tasks")
		{
			tasks.POST("", h.Task.CreateTask)
			tasks.GET("", h.Task.ListTasks)
			tasks.GET("/:id", h.Task.GetTask)
			tasks.PUT("/:id", h.Task.UpdateTask)
			tasks.PUT("/:id/close", h.Task.CloseTask)
			tasks.DELETE("/:id", h.Task.DeleteTask)
			tasks.GET("/:id/history", h.Task.GetTaskHistory)
			tasks.GET("/:id/monitoring", h.Submission.GetMonitoring)
			tasks.GET("/:id/departments/:dept_id/drafts", h.Draft.ListDepartmentDrafts)
			tasks.GET("/:id/report", h.Export.GetSummaryReport)
			tasks.GET("/:id/report/xlsx", h.Export.ExportReportXLSX)
		}

		// 表单模块
		drafts := v1.Group("/drafts")
		{
			drafts.POST("", h.Draft.CreateDraft)
			drafts.GET("", h.Draft.ListDrafts)
			drafts.GET("/:id", h.Draft.GetDraft)
			drafts.PUT("/:id", h.Draft.UpdateDraft)
			drafts.DELETE("/:id", h.Draft.DeleteDraft)
		}

		// 发送模块
		submissions := v1.Group("/submissions")
		{
			submissions.POST("/send", h.Submission.Send)
			submissions.GET("/status", h.Submission.GetBatchStatus)
		}

		// 部门字典
		departments := v1.Group("/departments")
		{
			departments.GET("", h.Department.ListDepartments)
			departments.GET("/:id", h.Department.GetDepartment)
		}
	}

	return r
}
