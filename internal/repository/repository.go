package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Department DepartmentRepository
	Task       TaskRepository
	Limit      LimitRepository
	Rule       RuleRepository
	Draft      DraftRepository
	Batch      BatchRepository
	History    HistoryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Department: NewDepartmentRepo(db),
		Task:       NewTaskRepo(db),
		Limit:      NewLimitRepo(db),
		Rule:       NewRuleRepo(db),
		Draft:      NewDraftRepo(db),
		Batch:      NewBatchRepo(db),
		History:    NewHistoryRepo(db),
	}
}

// TxFunc 事务体：在同一数据库事务绑定的 Repository 聚合上执行
type TxFunc func(r *Repository) error

// TxManager 多步写操作的事务边界（unit of work）
// 发送与任务改版等复合变更必须经由 Do 执行：任一步失败整体回滚，
// 外部不可观察到半发送/半迁移的中间状态
type TxManager interface {
	Do(ctx context.Context, fn TxFunc) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager 创建基于 GORM 事务的 TxManager
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn TxFunc) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
