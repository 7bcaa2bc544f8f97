package service

import (
	"go.uber.org/zap"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
	"github.com/BachaBajceps/HackNation2025-sub000/pkg/redis"
)

// Service 业务服务聚合，供 handler 层注入
type Service struct {
	Task       TaskService
	Draft      DraftService
	Submission SubmissionService
	Department DepartmentService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	tx repository.TxManager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	validator := NewBatchValidator(repo, logger)
	return &Service{
		Task:       NewTaskService(repo, tx, rdb, logger),
		Draft:      NewDraftService(repo, logger),
		Submission: NewSubmissionService(repo, tx, validator, rdb, logger),
		Department: NewDepartmentService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
