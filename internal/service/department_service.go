package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound = errors.New("部门不存在")
)

// DepartmentService 部门字典查询接口（部门由种子数据维护，只读）
type DepartmentService interface {
	List(ctx context.Context) ([]model.Department, error)
	GetByID(ctx context.Context, id string) (*model.Department, error)
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}
	return depts, nil
}

func (s *departmentService) GetByID(ctx context.Context, id string) (*model.Department, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return dept, nil
}
