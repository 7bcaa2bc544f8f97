package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
)

// 部门限额预警阈值：一年期合计达到限额 90%（含）时给出非阻断警告
const limitWarningRatio = 0.9

// BatchValidator 批量发送校验器
// 错误按 单行规则 → 字段求和规则 → 部门限额 的顺序累积，
// 一次性返回完整清单，warnings 不阻断发送
type BatchValidator struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBatchValidator 创建 BatchValidator 实例
func NewBatchValidator(repo *repository.Repository, logger *zap.Logger) *BatchValidator {
	return &BatchValidator{repo: repo, logger: logger}
}

// ValidateBatch 校验部门整批草稿是否满足任务规则与限额
func (v *BatchValidator) ValidateBatch(ctx context.Context, taskID, departmentID string, drafts []model.DraftLine) (*dto.ValidationResult, error) {
	result := &dto.ValidationResult{Errors: []string{}, Warnings: []string{}}

	if len(drafts) == 0 {
		result.Errors = append(result.Errors, "Brak formularzy do wyslania")
		return result, nil
	}

	rules, err := v.repo.Rule.ListActive(ctx, taskID)
	if err != nil {
		v.logger.Error("查询任务规则失败", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}

	// 1. 逐行求值单行规则
	for i := range drafts {
		for j := range rules {
			rule := &rules[j]
			switch rule.Kind {
			case model.RuleKindFieldValue, model.RuleKindRequiredField, model.RuleKindValueRange:
				if res := EvaluateRule(rule, &drafts[i]); !res.Satisfied && res.Message != "" {
					result.Errors = append(result.Errors, fmt.Sprintf("[%s] %s", rule.Name, res.Message))
				}
			}
		}
	}

	// 2. 字段求和规则（整批求和后比较；仅支持 <= 与 <，其余运算符不求值）
	for j := range rules {
		rule := &rules[j]
		if rule.Kind != model.RuleKindFieldSum || rule.ConstraintField == "" {
			continue
		}

		var sum float64
		for i := range drafts {
			if n, ok := drafts[i].FieldValue(rule.ConstraintField).(float64); ok {
				sum += n
			}
		}

		limit := toNumber(rule.ConstraintValue)
		violated := (rule.ConstraintOperator == model.OpLte && sum > limit) ||
			(rule.ConstraintOperator == model.OpLt && sum >= limit)
		if violated {
			result.Errors = append(result.Errors, fmt.Sprintf("[%s] %s (suma: %s, limit: %s)",
				rule.Name, rule.FailureMessage, formatAmount(sum), formatAmount(limit)))
		}
	}

	// 3. 部门限额（一年期合计）
	limit, err := v.repo.Limit.GetAmount(ctx, taskID, departmentID)
	if err != nil {
		v.logger.Error("查询部门限额失败",
			zap.String("task_id", taskID),
			zap.String("department_id", departmentID),
			zap.Error(err))
		return nil, err
	}

	var sumRok1 float64
	for i := range drafts {
		sumRok1 += drafts[i].YearAmount(1)
	}

	if limit > 0 && sumRok1 > limit {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"Suma budzetu (%s) przekracza limit departamentu (%s)",
			formatAmount(sumRok1), formatAmount(limit)))
	}
	if limit > 0 && sumRok1 >= limit*limitWarningRatio && sumRok1 <= limit {
		result.Warnings = append(result.Warnings, "Wykorzystano ponad 90% limitu budzetu departamentu")
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// formatAmount 金额的消息展示形态（不带多余小数位）
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
