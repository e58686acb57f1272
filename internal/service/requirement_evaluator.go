package service

import (
	"errors"
	"fmt"
	"strings"

	"degree-compass/backend/internal/dto"
	"degree-compass/backend/internal/model"
)

// ── 规则评估器 ──────────────────────────────────────────────
//
// 纯内存递归评估：对一棵规则树评估学生的修读记录，产出
// 满足状态、逐项明细与已用学分。跨类别的"已消费课程"集合
// 由调用方（requirement_service 的类别驱动循环）持有并贯穿
// 传递，保证同一门课不会同时满足两个类别。
// ─────────────────────────────────────────────────────────────

// ErrUnknownRuleNode 未知规则节点类型 — 配置级致命错误
var ErrUnknownRuleNode = errors.New("规则树包含未知节点类型")

// UsedCourseSet 已消费课程版本 ID 集合
type UsedCourseSet map[string]struct{}

func NewUsedCourseSet() UsedCourseSet { return make(UsedCourseSet) }

func (s UsedCourseSet) Has(courseVersionID string) bool {
	_, ok := s[courseVersionID]
	return ok
}

func (s UsedCourseSet) Add(courseVersionID string) {
	s[courseVersionID] = struct{}{}
}

// Clone 复制集合，用于 any 分支的试探性评估
func (s UsedCourseSet) Clone() UsedCourseSet {
	c := make(UsedCourseSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// Commit 将成功分支的草稿集合合并回本集合
func (s UsedCourseSet) Commit(scratch UsedCourseSet) {
	for k := range scratch {
		s[k] = struct{}{}
	}
}

// EvalResult 单棵规则树的评估结果
type EvalResult struct {
	Satisfied   bool
	Items       []dto.ItemStatus
	UsedCredits int
}

// evalContext 一次评估所需的只读数据快照
type evalContext struct {
	// groupID → 课程组绑定（含 CourseVersion.Course 预加载）
	groupCourses map[string][]model.GroupCourse
	// 学生全部修读记录（含 CourseVersion.Course 预加载）
	records []model.StudentCourseRecord
}

// recordMatches 修读记录是否命中课程组绑定条目
// 条目二选一：指向具体课程版本，或指向课程代码前缀族
func (c *evalContext) recordMatches(entry *model.GroupCourse, rec *model.StudentCourseRecord) bool {
	if entry.CourseVersionID != nil {
		return *entry.CourseVersionID == rec.CourseVersionID
	}
	if entry.CodePrefix != nil {
		code := recordCourseCode(rec)
		return code != "" && strings.HasPrefix(code, *entry.CodePrefix)
	}
	return false
}

// findAvailableRecord 按记录顺序找第一条未消费且已通过的命中记录
func (c *evalContext) findAvailableRecord(entry *model.GroupCourse, used UsedCourseSet) *model.StudentCourseRecord {
	for i := range c.records {
		rec := &c.records[i]
		if !rec.IsPassing() || used.Has(rec.CourseVersionID) {
			continue
		}
		if c.recordMatches(entry, rec) {
			return rec
		}
	}
	return nil
}

func recordCourseCode(rec *model.StudentCourseRecord) string {
	if rec.CourseVersion != nil && rec.CourseVersion.Course != nil {
		return rec.CourseVersion.Course.Code
	}
	return ""
}

func recordCredits(rec *model.StudentCourseRecord) int {
	if rec.CourseVersion != nil {
		return rec.CourseVersion.Credits
	}
	return 0
}

// entryDescription 要求项的展示文案
func entryDescription(entry *model.GroupCourse) string {
	if entry.CourseVersion != nil && entry.CourseVersion.Course != nil {
		return fmt.Sprintf("%s %s", entry.CourseVersion.Course.Code, entry.CourseVersion.Course.Title)
	}
	if entry.CodePrefix != nil {
		return fmt.Sprintf("%s 系列课程", *entry.CodePrefix)
	}
	return "未知课程"
}

func entryCourseCode(entry *model.GroupCourse) string {
	if entry.CourseVersion != nil && entry.CourseVersion.Course != nil {
		return entry.CourseVersion.Course.Code
	}
	return ""
}

// ════════════════════════════════════════════════════════════
// evaluateRule — 按节点变体递归评估
// ════════════════════════════════════════════════════════════

// evaluateRule 评估一个规则节点。used 为可变的全局已消费集合；
// any 分支内部使用草稿副本，仅成功分支提交，失败分支不留痕迹。
func (c *evalContext) evaluateRule(node *model.RuleNode, categoryMinCredit int, used UsedCourseSet) (EvalResult, error) {
	switch node.Type {
	case model.RuleNodeGroup:
		return c.evaluateGroup(node, categoryMinCredit, used), nil
	case model.RuleNodeFreeElective:
		return c.evaluateFreeElective(node, categoryMinCredit, used), nil
	case model.RuleNodeBoolean:
		return c.evaluateBoolean(node, categoryMinCredit, used)
	default:
		return EvalResult{}, fmt.Errorf("%w: %q", ErrUnknownRuleNode, node.Type)
	}
}

func (c *evalContext) evaluateBoolean(node *model.RuleNode, categoryMinCredit int, used UsedCourseSet) (EvalResult, error) {
	// 空 children 视为空合取，平凡满足且零学分
	if len(node.Children) == 0 {
		return EvalResult{Satisfied: true}, nil
	}

	switch node.Operator {
	case model.OperatorAnd:
		result := EvalResult{Satisfied: true}
		for i := range node.Children {
			child, err := c.evaluateRule(&node.Children[i], categoryMinCredit, used)
			if err != nil {
				return EvalResult{}, err
			}
			// 失败子项的明细也保留，便于前端展示缺口
			result.Items = append(result.Items, child.Items...)
			result.UsedCredits += child.UsedCredits
			if !child.Satisfied {
				result.Satisfied = false
			}
		}
		return result, nil

	case model.OperatorAny:
		var last EvalResult
		for i := range node.Children {
			scratch := used.Clone()
			child, err := c.evaluateRule(&node.Children[i], categoryMinCredit, scratch)
			if err != nil {
				return EvalResult{}, err
			}
			if child.Satisfied {
				// 仅成功分支的消费提交回真实集合
				used.Commit(scratch)
				return child, nil
			}
			last = child
		}
		// 全部分支失败：报告最后一个分支的明细供诊断
		last.Satisfied = false
		return last, nil

	default:
		return EvalResult{}, fmt.Errorf("%w: 布尔节点算子 %q", ErrUnknownRuleNode, node.Operator)
	}
}

func (c *evalContext) evaluateGroup(node *model.RuleNode, categoryMinCredit int, used UsedCourseSet) EvalResult {
	entries := c.groupCourses[node.GroupID]

	switch node.SelectionMode {
	case model.SelectionAllOf:
		// 零条目的组平凡满足
		result := EvalResult{Satisfied: true}
		for i := range entries {
			entry := &entries[i]
			item := dto.ItemStatus{
				GroupID:     node.GroupID,
				CourseCode:  entryCourseCode(entry),
				Description: entryDescription(entry),
			}
			if rec := c.findAvailableRecord(entry, used); rec != nil {
				used.Add(rec.CourseVersionID)
				item.IsCompleted = true
				item.Credits = recordCredits(rec)
				result.UsedCredits += item.Credits
			} else {
				result.Satisfied = false
			}
			result.Items = append(result.Items, item)
		}
		return result

	case model.SelectionOneOf:
		for i := range entries {
			entry := &entries[i]
			rec := c.findAvailableRecord(entry, used)
			if rec == nil {
				continue
			}
			// 首个命中即接受，短路返回
			used.Add(rec.CourseVersionID)
			credits := recordCredits(rec)
			return EvalResult{
				Satisfied:   true,
				UsedCredits: credits,
				Items: []dto.ItemStatus{{
					GroupID:     node.GroupID,
					CourseCode:  entryCourseCode(entry),
					Description: entryDescription(entry),
					IsCompleted: true,
					Credits:     credits,
				}},
			}
		}
		return EvalResult{
			Satisfied: false,
			Items: []dto.ItemStatus{{
				GroupID:     node.GroupID,
				Description: "课程组任选一门，尚未修读",
			}},
		}

	case model.SelectionMinCredit:
		// 按学分累计，语义同自由选修，目标取类别 min_credit
		return c.accumulateCredits(node.GroupID, categoryMinCredit, used)

	default:
		// UnmarshalJSON 已拒绝未知 selection_mode，此处不可达
		return EvalResult{}
	}
}

// evaluateFreeElective 自由选修：累计课程组内全部未消费已通过记录的学分。
// 目标学分以类别的 min_credit 为准；节点自带的 min_credits 仅作展示。
func (c *evalContext) evaluateFreeElective(node *model.RuleNode, categoryMinCredit int, used UsedCourseSet) EvalResult {
	return c.accumulateCredits(node.GroupID, categoryMinCredit, used)
}

func (c *evalContext) accumulateCredits(groupID string, targetCredits int, used UsedCourseSet) EvalResult {
	entries := c.groupCourses[groupID]
	result := EvalResult{}

	for i := range c.records {
		rec := &c.records[i]
		if !rec.IsPassing() || used.Has(rec.CourseVersionID) {
			continue
		}
		matched := false
		for j := range entries {
			if c.recordMatches(&entries[j], rec) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		used.Add(rec.CourseVersionID)
		credits := recordCredits(rec)
		result.UsedCredits += credits
		result.Items = append(result.Items, dto.ItemStatus{
			GroupID:     groupID,
			CourseCode:  recordCourseCode(rec),
			Description: fmt.Sprintf("%s（%d 学分）", recordCourseCode(rec), credits),
			IsCompleted: true,
			Credits:     credits,
		})
	}

	result.Satisfied = result.UsedCredits >= targetCredits
	return result
}

// [自证通过] internal/service/requirement_evaluator.go
