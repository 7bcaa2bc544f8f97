package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
)

// RuleRepository 校验规则数据访问接口
type RuleRepository interface {
	CreateMany(ctx context.Context, rules []model.Rule) error
	// ListActive 仅返回 active=true 的规则（参与校验的集合）
	ListActive(ctx context.Context, taskID string) ([]model.Rule, error)
	// DeactivateAllForTask 停用任务的全部规则（任务更新时调用，保留审计痕迹）
	DeactivateAllForTask(ctx context.Context, taskID string) error
}

// ruleRepo RuleRepository 的 GORM 实现
type ruleRepo struct {
	db *gorm.DB
}

// NewRuleRepo 创建 RuleRepository 实例
func NewRuleRepo(db *gorm.DB) RuleRepository {
	return &ruleRepo{db: db}
}

func (r *ruleRepo) CreateMany(ctx context.Context, rules []model.Rule) error {
	if len(rules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rules).Error
}

func (r *ruleRepo) ListActive(ctx context.Context, taskID string) ([]model.Rule, error) {
	var rules []model.Rule
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND active = ?", taskID, true).
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *ruleRepo) DeactivateAllForTask(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Rule{}).
		Where("task_id = ?", taskID).
		Update("active", false).Error
}
