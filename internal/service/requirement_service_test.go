package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"degree-compass/backend/internal/model"
)

func setupRequirementService() (RequirementService, *testRepos) {
	repos := newTestRepos()
	svc := NewRequirementService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// ruleOf 构造规则树指针，便于 seed 类别
func ruleOf(node model.RuleNode) *model.RuleNode { return &node }

// seedProgressScenario 种子数据：
// 方案 prog-1 含两个类别（高优先级 Core，低优先级 Electives），
// 两个类别的课程组均包含 COMP1001；学生已通过 COMP1001。
func seedProgressScenario(repos *testRepos) {
	repos.student.students["stu-1"] = &model.Student{
		StudentID:   "stu-1",
		StudentNo:   "23001",
		Name:        "测试学生",
		ProgrammeID: strPtr("prog-1"),
		Programme:   &model.Programme{ProgrammeID: "prog-1", Name: "计算机科学"},
	}

	repos.programme.programmes["prog-1"] = &model.Programme{ProgrammeID: "prog-1", Name: "计算机科学"}
	repos.programme.categories["prog-1"] = []model.Category{
		{
			CategoryID: "cat-elec", ProgrammeID: "prog-1", Name: "选修", MinCredit: 3, Priority: 10,
			Rule: ruleOf(groupNode("g-elec", model.SelectionMinCredit)),
		},
		{
			CategoryID: "cat-core", ProgrammeID: "prog-1", Name: "核心", MinCredit: 3, Priority: 100,
			Rule: ruleOf(groupNode("g-core", model.SelectionAllOf)),
		},
	}

	repos.group.groupCourses["g-core"] = []model.GroupCourse{
		versionEntry("g-core", "v-1001", "COMP1001", 3),
	}
	repos.group.groupCourses["g-elec"] = []model.GroupCourse{
		versionEntry("g-elec", "v-1001", "COMP1001", 3),
	}

	repos.studentRecord.records["stu-1"] = []model.StudentCourseRecord{
		passingRecord("v-1001", "COMP1001", 3, "A"),
	}
}

// 跨类别不重复计数：COMP1001 被高优先级类别消费后，
// 低优先级类别不可再用它
func TestEvaluateProgressNoDoubleCounting(t *testing.T) {
	svc, repos := setupRequirementService()
	seedProgressScenario(repos)

	resp, err := svc.EvaluateProgress(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("EvaluateProgress 返回错误: %v", err)
	}

	if len(resp.Categories) != 2 {
		t.Fatalf("期望 2 个类别，实际 %d", len(resp.Categories))
	}
	// 类别按 priority 降序：先核心后选修
	core, elec := resp.Categories[0], resp.Categories[1]
	if core.Name != "核心" {
		t.Fatalf("类别未按优先级降序: %s", core.Name)
	}
	if !core.Satisfied || core.UsedCredits != 3 {
		t.Errorf("核心类别应消费 COMP1001: %+v", core)
	}
	if elec.Satisfied || elec.UsedCredits != 0 {
		t.Errorf("选修类别不应重复计入 COMP1001: %+v", elec)
	}
	if resp.Summary.SatisfiedCategories != 1 || resp.Summary.TotalUsedCredits != 3 {
		t.Errorf("摘要错误: %+v", resp.Summary)
	}
}

func TestEvaluateProgressStudentNotFound(t *testing.T) {
	svc, _ := setupRequirementService()
	_, err := svc.EvaluateProgress(context.Background(), "ghost")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际 %v", err)
	}
}

func TestEvaluateProgressNoProgramme(t *testing.T) {
	svc, repos := setupRequirementService()
	repos.student.students["stu-1"] = &model.Student{StudentID: "stu-1", StudentNo: "23001"}

	_, err := svc.EvaluateProgress(context.Background(), "stu-1")
	if !errors.Is(err, ErrProgrammeNotAssigned) {
		t.Errorf("期望 ErrProgrammeNotAssigned，实际 %v", err)
	}
}

// ── 未完成课程组定位 ──

// and 节点并集全部子树的未完成组，已完成组被排除
func TestFindUnfulfilledGroupsAnd(t *testing.T) {
	node := booleanNode(model.OperatorAnd,
		groupNode("g-1", model.SelectionAllOf),
		groupNode("g-2", model.SelectionAllOf),
		groupNode("g-3", model.SelectionOneOf),
	)
	completed := map[string]struct{}{"g-2": {}}

	got := findUnfulfilledGroups(&node, completed)
	if len(got) != 2 || got[0] != "g-1" || got[1] != "g-3" {
		t.Errorf("期望 [g-1 g-3]，实际 %v", got)
	}
}

// any 节点只进入与已完成组重叠度最高的分支；平手取首个
func TestFindUnfulfilledGroupsAnyPicksClosestBranch(t *testing.T) {
	branchA := booleanNode(model.OperatorAnd,
		groupNode("g-a1", model.SelectionAllOf),
		groupNode("g-a2", model.SelectionAllOf),
	)
	branchB := booleanNode(model.OperatorAnd,
		groupNode("g-b1", model.SelectionAllOf),
		groupNode("g-b2", model.SelectionAllOf),
	)
	node := booleanNode(model.OperatorAny, branchA, branchB)

	// 分支B已完成 1 个组，应被选中
	completed := map[string]struct{}{"g-b1": {}}
	got := findUnfulfilledGroups(&node, completed)
	if len(got) != 1 || got[0] != "g-b2" {
		t.Errorf("期望进入分支B得 [g-b2]，实际 %v", got)
	}

	// 无任何完成记录时平手，取首个分支
	got = findUnfulfilledGroups(&node, map[string]struct{}{})
	if len(got) != 2 || got[0] != "g-a1" || got[1] != "g-a2" {
		t.Errorf("平手应取首个分支，实际 %v", got)
	}
}

// completedGroupIDs: 按选取模式判定——one_of 命中其一即完成，
// all_of 部分命中不算完成
func TestCompletedGroupIDs(t *testing.T) {
	ectx := &evalContext{
		groupCourses: map[string][]model.GroupCourse{
			"g-one": {
				versionEntry("g-one", "v-1", "COMP1001", 3),
				versionEntry("g-one", "v-2", "COMP1002", 3),
			},
			"g-all": {
				versionEntry("g-all", "v-1", "COMP1001", 3),
				versionEntry("g-all", "v-3", "COMP1003", 3),
			},
			"g-pending": {versionEntry("g-pending", "v-4", "COMP1004", 3)},
		},
		records: []model.StudentCourseRecord{
			passingRecord("v-1", "COMP1001", 3, "A"),
		},
	}
	categories := []model.Category{
		{
			CategoryID: "cat-1", MinCredit: 6,
			Rule: ruleOf(booleanNode(model.OperatorAnd,
				groupNode("g-one", model.SelectionOneOf),
				groupNode("g-all", model.SelectionAllOf),
				groupNode("g-pending", model.SelectionOneOf),
			)),
		},
	}

	done := completedGroupIDs(categories, ectx)
	if _, ok := done["g-one"]; !ok {
		t.Error("one_of 命中其一的 g-one 应判定为已完成")
	}
	if _, ok := done["g-all"]; ok {
		t.Error("all_of 部分命中的 g-all 不应判定为已完成")
	}
	if _, ok := done["g-pending"]; ok {
		t.Error("g-pending 不应判定为已完成")
	}
}

// collectGroupModes: 槽位类型按 selection_mode 归类
func TestCollectGroupModes(t *testing.T) {
	node := booleanNode(model.OperatorAnd,
		groupNode("g-m", model.SelectionAllOf),
		groupNode("g-o", model.SelectionOneOf),
		model.RuleNode{Type: model.RuleNodeFreeElective, GroupID: "g-f", MinCredits: 6},
	)

	modes := make(map[string]groupSlotKind)
	collectGroupModes(&node, modes)

	if modes["g-m"] != slotMandatory {
		t.Errorf("all_of 应为必修槽: %v", modes["g-m"])
	}
	if modes["g-o"] != slotOptional {
		t.Errorf("one_of 应为选修槽: %v", modes["g-o"])
	}
	if modes["g-f"] != slotFreeElective {
		t.Errorf("free_elective 应为自由选修槽: %v", modes["g-f"])
	}
}
