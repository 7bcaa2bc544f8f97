package service

import (
	"strconv"
	"strings"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
)

// EvalResult 单条规则对单行记录的求值结果
type EvalResult struct {
	Satisfied bool
	Message   string
}

// EvaluateRule 对单行记录求值一条规则（纯函数，无副作用）
//
// 求值顺序：
//  1. 规则带条件时先求条件；条件不成立则约束不适用，规则视为满足
//  2. 求约束子句；不满足时返回规则配置的失败消息
//
// 未配置约束的规则视为满足。suma_pola（field_sum）类规则不在此处求值，
// 由批量校验器对整批记录求和后统一处理
func EvaluateRule(rule *model.Rule, line *model.DraftLine) EvalResult {
	if cond := rule.Condition(); cond != nil {
		if !evalClause(line.FieldValue(cond.Field), cond.Operator, cond.Value) {
			return EvalResult{Satisfied: true}
		}
	}

	constraint := rule.Constraint()
	if constraint == nil {
		return EvalResult{Satisfied: true}
	}

	if !evalClause(line.FieldValue(constraint.Field), constraint.Operator, constraint.Value) {
		return EvalResult{Satisfied: false, Message: rule.FailureMessage}
	}

	return EvalResult{Satisfied: true}
}

// evalClause 按运算符比较字段值与期望值
// 未识别的运算符返回 true（fail-open）：规则配置损坏时不拦截发送
func evalClause(value interface{}, op model.Operator, expected string) bool {
	switch op {
	case model.OpEq:
		return stringify(value) == expected
	case model.OpNeq:
		return stringify(value) != expected
	case model.OpGt:
		return toNumber(value) > toNumber(expected)
	case model.OpLt:
		return toNumber(value) < toNumber(expected)
	case model.OpGte:
		return toNumber(value) >= toNumber(expected)
	case model.OpLte:
		return toNumber(value) <= toNumber(expected)
	case model.OpIn:
		if expected == "" {
			return false
		}
		return inList(stringify(value), expected)
	case model.OpNotIn:
		if expected == "" {
			return true
		}
		return !inList(stringify(value), expected)
	case model.OpIsNull:
		return isEmpty(value)
	case model.OpIsNotNull, model.OpNotNull:
		return !isEmpty(value)
	default:
		// fail-open：未知运算符不产生校验错误（是否应改为 fail-closed 待产品确认）
		return true
	}
}

// stringify 字段值的字符串形态（数值不带多余小数位）
func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

// toNumber 数值比较前的强制转换；无法解析的值按 0 处理
func toNumber(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// inList 期望值为逗号分隔列表时的成员判断
func inList(value, expected string) bool {
	for _, item := range strings.Split(expected, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}

// isEmpty null/未填写/空串均视为空
func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
