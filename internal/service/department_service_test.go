package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestDepartmentService_List_SortedByName(t *testing.T) {
	svc := NewDepartmentService(newMockRepository(), zap.NewNop())

	depts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(depts) != 2 {
		t.Fatalf("期望 2 个部门，实际=%d", len(depts))
	}
	if depts[0].Name > depts[1].Name {
		t.Errorf("部门应按名称排序，实际=%v", depts)
	}
}

func TestDepartmentService_GetByID(t *testing.T) {
	svc := NewDepartmentService(newMockRepository(), zap.NewNop())

	dept, err := svc.GetByID(context.Background(), "dept-001")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if dept.Code != "DB" {
		t.Errorf("期望 Code=DB，实际=%s", dept.Code)
	}

	_, err = svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
}
