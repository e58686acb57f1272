package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"degree-compass/backend/internal/dto"
	"degree-compass/backend/internal/model"
	"degree-compass/backend/internal/repository"
)

// ── 学业进度模块业务错误 ──

var (
	ErrStudentNotFound      = errors.New("学生不存在")
	ErrProgrammeNotAssigned = errors.New("学生未绑定培养方案")
)

// RequirementService 培养方案进度评估接口
type RequirementService interface {
	// 评估学生的全部要求类别完成进度
	EvaluateProgress(ctx context.Context, studentID string) (*dto.ProgressResponse, error)
}

type requirementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRequirementService 创建 RequirementService 实例
func NewRequirementService(repo *repository.Repository, logger *zap.Logger) RequirementService {
	return &requirementService{repo: repo, logger: logger}
}

// categoryEvaluation 单个类别的评估结果
type categoryEvaluation struct {
	category model.Category
	result   EvalResult
}

func (s *requirementService) EvaluateProgress(ctx context.Context, studentID string) (*dto.ProgressResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	if student.ProgrammeID == nil {
		return nil, ErrProgrammeNotAssigned
	}

	categories, ectx, err := loadEvaluationData(ctx, s.repo, studentID, *student.ProgrammeID)
	if err != nil {
		s.logger.Error("加载评估数据失败", zap.Error(err))
		return nil, err
	}

	evals, _, err := evaluateProgramme(categories, ectx)
	if err != nil {
		s.logger.Error("规则评估失败", zap.String("programme_id", *student.ProgrammeID), zap.Error(err))
		return nil, err
	}

	resp := &dto.ProgressResponse{ProgrammeID: *student.ProgrammeID}
	if student.Programme != nil {
		resp.ProgrammeName = student.Programme.Name
	}
	for _, ev := range evals {
		cp := dto.CategoryProgress{
			CategoryID:  ev.category.CategoryID,
			Name:        ev.category.Name,
			Notes:       ev.category.Notes,
			MinCredit:   ev.category.MinCredit,
			Priority:    ev.category.Priority,
			Satisfied:   ev.result.Satisfied,
			UsedCredits: ev.result.UsedCredits,
			Items:       ev.result.Items,
		}
		resp.Categories = append(resp.Categories, cp)
		resp.Summary.TotalCategories++
		if ev.result.Satisfied {
			resp.Summary.SatisfiedCategories++
		}
		resp.Summary.TotalUsedCredits += ev.result.UsedCredits
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// 评估驱动 — 类别按优先级降序消费，已用课程跨类别共享
// ════════════════════════════════════════════════════════════

// loadEvaluationData 加载一次评估所需的数据快照：
// 类别（含规则树）、类别涉及的课程组绑定、学生修读记录。
func loadEvaluationData(ctx context.Context, repo *repository.Repository, studentID, programmeID string) ([]model.Category, *evalContext, error) {
	categories, err := repo.Programme.ListCategories(ctx, programmeID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询要求类别失败: %w", err)
	}

	var groupIDs []string
	for i := range categories {
		if categories[i].Rule != nil {
			groupIDs = append(groupIDs, collectGroupIDs(categories[i].Rule)...)
		}
	}

	groupCourses := make(map[string][]model.GroupCourse)
	if len(groupIDs) > 0 {
		entries, err := repo.Group.ListGroupCourses(ctx, groupIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("查询课程组绑定失败: %w", err)
		}
		for _, e := range entries {
			groupCourses[e.GroupID] = append(groupCourses[e.GroupID], e)
		}
	}

	records, err := repo.StudentRecord.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询修读记录失败: %w", err)
	}

	return categories, &evalContext{groupCourses: groupCourses, records: records}, nil
}

// evaluateProgramme 按优先级降序评估全部类别。
// 已消费课程集合贯穿所有类别：高优先级类别先消费，
// 被消费的课程对低优先级类别不可见（不重复计数）。
// 类别列表由仓储层按 priority DESC 排序返回。
func evaluateProgramme(categories []model.Category, ectx *evalContext) ([]categoryEvaluation, UsedCourseSet, error) {
	used := NewUsedCourseSet()
	evals := make([]categoryEvaluation, 0, len(categories))

	for i := range categories {
		cat := categories[i]
		if cat.Rule == nil {
			// 无规则的类别视为平凡满足
			evals = append(evals, categoryEvaluation{category: cat, result: EvalResult{Satisfied: true}})
			continue
		}
		res, err := ectx.evaluateRule(cat.Rule, cat.MinCredit, used)
		if err != nil {
			return nil, nil, fmt.Errorf("类别 %q 评估失败: %w", cat.Name, err)
		}
		evals = append(evals, categoryEvaluation{category: cat, result: res})
	}
	return evals, used, nil
}

// ════════════════════════════════════════════════════════════
// 未完成课程组定位 — 选修池裁剪用启发式
// ════════════════════════════════════════════════════════════

// completedGroupIDs 推导学生已完成的课程组：对规则树中的每个
// 叶子节点在独立的 used 集上单独求值，满足即视为完成（all_of
// 组必须全部命中，one_of 命中其一即可）。仅作
// findUnfulfilledGroups 的启发式输入，不参与跨类别去重。
func completedGroupIDs(categories []model.Category, ectx *evalContext) map[string]struct{} {
	done := make(map[string]struct{})
	for i := range categories {
		cat := &categories[i]
		if cat.Rule == nil {
			continue
		}
		for _, leaf := range collectLeafNodes(cat.Rule) {
			if _, ok := done[leaf.GroupID]; ok {
				continue
			}
			res, err := ectx.evaluateRule(leaf, cat.MinCredit, NewUsedCourseSet())
			if err == nil && res.Satisfied {
				done[leaf.GroupID] = struct{}{}
			}
		}
	}
	return done
}

// collectLeafNodes 收集规则树中的全部叶子节点（group / free_elective）
func collectLeafNodes(node *model.RuleNode) []*model.RuleNode {
	switch node.Type {
	case model.RuleNodeGroup, model.RuleNodeFreeElective:
		return []*model.RuleNode{node}
	case model.RuleNodeBoolean:
		var out []*model.RuleNode
		for i := range node.Children {
			out = append(out, collectLeafNodes(&node.Children[i])...)
		}
		return out
	}
	return nil
}

// findUnfulfilledGroups 在未满足的规则树中定位仍需课程的课程组。
// and 节点并集所有子树；any 节点只进入与已完成组重叠度最高的
// 一个分支（"离完成最近"的近似，平手取先遇到的分支）。
// 这是裁剪选修候选池的尽力启发式，不保证最优补全路径。
func findUnfulfilledGroups(node *model.RuleNode, completed map[string]struct{}) []string {
	switch node.Type {
	case model.RuleNodeGroup, model.RuleNodeFreeElective:
		if _, ok := completed[node.GroupID]; ok {
			return nil
		}
		return []string{node.GroupID}

	case model.RuleNodeBoolean:
		if len(node.Children) == 0 {
			return nil
		}
		if node.Operator == model.OperatorAny {
			best := 0
			bestOverlap := -1
			for i := range node.Children {
				overlap := 0
				for _, gid := range collectGroupIDs(&node.Children[i]) {
					if _, ok := completed[gid]; ok {
						overlap++
					}
				}
				if overlap > bestOverlap {
					best, bestOverlap = i, overlap
				}
			}
			return findUnfulfilledGroups(&node.Children[best], completed)
		}
		// and：并集全部子树的未完成组
		var out []string
		seen := make(map[string]struct{})
		for i := range node.Children {
			for _, gid := range findUnfulfilledGroups(&node.Children[i], completed) {
				if _, ok := seen[gid]; ok {
					continue
				}
				seen[gid] = struct{}{}
				out = append(out, gid)
			}
		}
		return out
	}
	return nil
}

// collectGroupIDs 收集子树内全部课程组 ID（含自由选修节点）
func collectGroupIDs(node *model.RuleNode) []string {
	switch node.Type {
	case model.RuleNodeGroup, model.RuleNodeFreeElective:
		return []string{node.GroupID}
	case model.RuleNodeBoolean:
		var out []string
		for i := range node.Children {
			out = append(out, collectGroupIDs(&node.Children[i])...)
		}
		return out
	}
	return nil
}

// groupSlotKind 课程组在组合搜索中的槽位类型
type groupSlotKind int

const (
	slotMandatory    groupSlotKind = iota // all_of：每门都必须排入
	slotOptional                          // one_of：组内任选一个班次
	slotFreeElective                      // free_elective / min_credit：按学分累计
)

// collectGroupModes 收集子树内每个课程组的槽位类型
func collectGroupModes(node *model.RuleNode, out map[string]groupSlotKind) {
	switch node.Type {
	case model.RuleNodeGroup:
		switch node.SelectionMode {
		case model.SelectionAllOf:
			out[node.GroupID] = slotMandatory
		case model.SelectionOneOf:
			out[node.GroupID] = slotOptional
		case model.SelectionMinCredit:
			out[node.GroupID] = slotFreeElective
		}
	case model.RuleNodeFreeElective:
		out[node.GroupID] = slotFreeElective
	case model.RuleNodeBoolean:
		for i := range node.Children {
			collectGroupModes(&node.Children[i], out)
		}
	}
}

// [自证通过] internal/service/requirement_service.go
