package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRuleNodeUnmarshalValid(t *testing.T) {
	raw := `{
		"type": "rule",
		"operator": "and",
		"children": [
			{"type": "group", "group_id": "g-core", "selection_mode": "all_of"},
			{"type": "rule", "operator": "any", "children": [
				{"type": "group", "group_id": "g-a", "selection_mode": "one_of"},
				{"type": "group", "group_id": "g-b", "selection_mode": "min_credit"}
			]},
			{"type": "free_elective", "group_id": "g-free", "min_credits": 6}
		]
	}`

	var node RuleNode
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		t.Fatalf("合法规则树解析失败: %v", err)
	}
	if node.Type != RuleNodeBoolean || node.Operator != OperatorAnd || len(node.Children) != 3 {
		t.Errorf("根节点解析错误: %+v", node)
	}
	if node.Children[2].Type != RuleNodeFreeElective || node.Children[2].MinCredits != 6 {
		t.Errorf("free_elective 节点解析错误: %+v", node.Children[2])
	}
}

// 未知判别值在反序列化阶段即拒绝
func TestRuleNodeUnmarshalRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"未知节点类型", `{"type": "mystery"}`, "节点类型"},
		{"未知 operator", `{"type": "rule", "operator": "xor"}`, "operator"},
		{"未知 selection_mode", `{"type": "group", "group_id": "g-1", "selection_mode": "two_of"}`, "selection_mode"},
		{"group 缺少 group_id", `{"type": "group", "selection_mode": "all_of"}`, "group_id"},
		{"free_elective 缺少 group_id", `{"type": "free_elective"}`, "group_id"},
		{"嵌套子节点非法", `{"type": "rule", "operator": "and", "children": [{"type": "bad"}]}`, "节点类型"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var node RuleNode
			err := json.Unmarshal([]byte(tc.raw), &node)
			if err == nil {
				t.Fatal("期望解析失败")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("错误信息应包含 %q: %v", tc.want, err)
			}
		})
	}
}

// Scan 经过同一校验路径
func TestRuleNodeScan(t *testing.T) {
	var node RuleNode
	if err := node.Scan([]byte(`{"type": "group", "group_id": "g-1", "selection_mode": "one_of"}`)); err != nil {
		t.Fatalf("Scan 合法 JSONB 失败: %v", err)
	}
	if node.GroupID != "g-1" {
		t.Errorf("Scan 结果错误: %+v", node)
	}

	var bad RuleNode
	if err := bad.Scan([]byte(`{"type": "mystery"}`)); err == nil {
		t.Error("Scan 非法节点应失败")
	}

	var null RuleNode
	if err := null.Scan(nil); err != nil {
		t.Errorf("Scan NULL 不应报错: %v", err)
	}
}

func TestRuleNodeValueRoundTrip(t *testing.T) {
	node := RuleNode{Type: RuleNodeGroup, GroupID: "g-1", SelectionMode: SelectionAllOf}

	v, err := node.Value()
	if err != nil {
		t.Fatalf("Value 返回错误: %v", err)
	}
	var back RuleNode
	if err := back.Scan(v); err != nil {
		t.Fatalf("回读失败: %v", err)
	}
	if back.GroupID != "g-1" || back.SelectionMode != SelectionAllOf {
		t.Errorf("回读结果错误: %+v", back)
	}
}
