package service

import (
	"degree-compass/backend/internal/model"
)

// ── 硬约束过滤器 ──
//
// 生成后、评分外的可选剪枝：剔除某日课程数超限、或同日相邻
// 空档落在 [min_gap, max_gap] 之外的方案。复用生成器的分桶与
// 时间换算原语，纯过滤，不修改方案内容。

// FilterParams 硬约束参数；零值字段不启用对应约束
type FilterParams struct {
	MinGapMinutes     int
	MaxGapMinutes     int
	MaxMeetingsPerDay int
}

// FilterLayouts 按硬约束剔除方案
func FilterLayouts(layouts [][]model.CourseSection, params FilterParams) [][]model.CourseSection {
	if params.MinGapMinutes <= 0 && params.MaxGapMinutes <= 0 && params.MaxMeetingsPerDay <= 0 {
		return layouts
	}

	out := make([][]model.CourseSection, 0, len(layouts))
	for _, layout := range layouts {
		if layoutPassesFilter(layout, params) {
			out = append(out, layout)
		}
	}
	return out
}

func layoutPassesFilter(layout []model.CourseSection, params FilterParams) bool {
	byDay := meetingsByDay(layout)

	for _, meetings := range byDay {
		if params.MaxMeetingsPerDay > 0 && len(meetings) > params.MaxMeetingsPerDay {
			return false
		}
		for i := 0; i+1 < len(meetings); i++ {
			gap := timeToMinutes(meetings[i+1].StartTime) - timeToMinutes(meetings[i].EndTime)
			if gap <= 0 {
				continue
			}
			if params.MinGapMinutes > 0 && gap < params.MinGapMinutes {
				return false
			}
			if params.MaxGapMinutes > 0 && gap > params.MaxGapMinutes {
				return false
			}
		}
	}
	return true
}
