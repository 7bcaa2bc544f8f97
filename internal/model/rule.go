package model

import (
	"fmt"
	"time"
)

// RuleKind 规则类型（闭合枚举）
type RuleKind string

const (
	RuleKindFieldValue    RuleKind = "field_value"    // 单行字段值约束
	RuleKindFieldSum      RuleKind = "field_sum"      // 部门内字段求和约束（发送时整批评估）
	RuleKindRequiredField RuleKind = "required_field" // 条件必填
	RuleKindValueRange    RuleKind = "value_range"    // 取值范围
	RuleKindCustom        RuleKind = "custom"         // 预留
)

// ParseRuleKind 解析规则类型，非法值返回错误
func ParseRuleKind(s string) (RuleKind, error) {
	switch RuleKind(s) {
	case RuleKindFieldValue, RuleKindFieldSum, RuleKindRequiredField, RuleKindValueRange, RuleKindCustom:
		return RuleKind(s), nil
	}
	return "", fmt.Errorf("非法的规则类型: %q", s)
}

// Operator 条件/约束运算符（闭合枚举）
// 未识别的运算符在求值时显式走 fail-open 分支，不会拦截发送
type Operator string

const (
	OpEq        Operator = "="
	OpNeq       Operator = "!="
	OpGt        Operator = ">"
	OpLt        Operator = "<"
	OpGte       Operator = ">="
	OpLte       Operator = "<="
	OpIn        Operator = "IN"
	OpNotIn     Operator = "NOT_IN"
	OpIsNull    Operator = "IS_NULL"
	OpIsNotNull Operator = "IS_NOT_NULL"
	OpNotNull   Operator = "NOT_NULL" // IS_NOT_NULL 的历史别名
)

// Known 运算符是否在已知集合内
func (o Operator) Known() bool {
	switch o {
	case OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte, OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpNotNull:
		return true
	}
	return false
}

// RuleClause 规则的条件或约束：字段 + 运算符 + 期望值
type RuleClause struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Rule 任务校验规则 — 对应 task_rules
// 任务更新时不物理删除，统一停用后插入新规则集，保留审计痕迹；
// 仅 active=true 的规则参与校验
type Rule struct {
	RuleID             string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	TaskID             string   `gorm:"type:uuid;not null;index"                       json:"task_id"`
	Name               string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Description        string   `gorm:"type:text"                                      json:"description,omitempty"`
	Kind               RuleKind `gorm:"type:varchar(20);not null"                      json:"kind"`
	ConditionField     string   `gorm:"type:varchar(50)"  json:"condition_field,omitempty"`
	ConditionOperator  Operator `gorm:"type:varchar(12)"  json:"condition_operator,omitempty"`
	ConditionValue     string   `gorm:"type:text"         json:"condition_value,omitempty"`
	ConstraintField    string   `gorm:"type:varchar(50)"  json:"constraint_field,omitempty"`
	ConstraintOperator Operator `gorm:"type:varchar(12)"  json:"constraint_operator,omitempty"`
	ConstraintValue    string   `gorm:"type:text"         json:"constraint_value,omitempty"`
	FailureMessage     string   `gorm:"type:text;not null"                             json:"failure_message"`
	Active             bool     `gorm:"not null;default:true"                          json:"active"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"            json:"created_at"`
}

// TableName 指定表名
func (Rule) TableName() string { return "task_rules" }

// Condition 规则的前置条件；未配置时返回 nil（约束无条件生效）
func (r *Rule) Condition() *RuleClause {
	if r.ConditionField == "" || r.ConditionOperator == "" {
		return nil
	}
	return &RuleClause{Field: r.ConditionField, Operator: r.ConditionOperator, Value: r.ConditionValue}
}

// Constraint 规则的约束子句；未配置时返回 nil（规则视为满足）
func (r *Rule) Constraint() *RuleClause {
	if r.ConstraintField == "" || r.ConstraintOperator == "" {
		return nil
	}
	return &RuleClause{Field: r.ConstraintField, Operator: r.ConstraintOperator, Value: r.ConstraintValue}
}
