package service

import (
	"fmt"
	"sort"

	"degree-compass/backend/config"
	"degree-compass/backend/internal/model"
)

// ── 方案评分器 ──────────────────────────────────────────────
//
// 纯函数：对一个组合按四个独立维度打分后加权平均。
// 每个维度都是比例制的奖惩函数 f(ratio) = reward·ratio − penalty·(1−ratio)，
// ratio ∈ [0,1]。同一组合与同一配置下评分结果确定。
// ─────────────────────────────────────────────────────────────

// ScoreResult 评分结果：最终分与面向用户的逐项说明
type ScoreResult struct {
	FinalScore float64
	Reasons    []string
}

// assessmentBuckets 考核类别 → 考核桶的归并映射；
// 未列出的类别以自身为桶
var assessmentBuckets = map[string]string{
	"project":       "project",
	"group_project": "project",
	"exam":          "exam",
	"midterm":       "exam",
	"final":         "exam",
}

func bucketOf(category string) string {
	if b, ok := assessmentBuckets[category]; ok {
		return b
	}
	return category
}

// subScore 比例制奖惩函数
func subScore(ratio, reward, penalty float64) float64 {
	return reward*ratio - penalty*(1-ratio)
}

// timeToMinutes "HH:MM" → 当日分钟数；格式非法返回 0
func timeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	h := int(t[0]-'0')*10 + int(t[1]-'0')
	m := int(t[3]-'0')*10 + int(t[4]-'0')
	return h*60 + m
}

// meetingsByDay 组合内全部时段按星期分桶并按开始时间排序
func meetingsByDay(layout []model.CourseSection) map[int][]model.CourseMeeting {
	byDay := make(map[int][]model.CourseMeeting)
	for i := range layout {
		for _, m := range layout[i].Meetings {
			byDay[m.DayOfWeek] = append(byDay[m.DayOfWeek], m)
		}
	}
	for day := range byDay {
		sort.Slice(byDay[day], func(i, j int) bool {
			return byDay[day][i].StartTime < byDay[day][j].StartTime
		})
	}
	return byDay
}

// ════════════════════════════════════════════════════════════
// ScoreLayout — 四维度加权评分
// ════════════════════════════════════════════════════════════

// ScoreLayout 对一个组合评分。cfg 为只读配置，评分不产生副作用。
// 四个权重先钳制为非负再归一化；全部权重 ≤ 0 时最终分为 0。
func ScoreLayout(layout []model.CourseSection, cfg *config.ScoringConfig) ScoreResult {
	byDay := meetingsByDay(layout)

	shape := scoreShape(byDay, &cfg.Shape)
	timePref := scoreTimePreference(byDay, &cfg.TimePreference)
	gap := scoreGaps(byDay, &cfg.Gap)
	assessment := scoreAssessments(layout, &cfg.Assessment)

	weights := []float64{
		cfg.Weights.Shape,
		cfg.Weights.TimePreference,
		cfg.Weights.Gap,
		cfg.Weights.Assessment,
	}
	scores := []float64{shape, timePref, gap, assessment}
	names := []string{"作息形态", "时间偏好", "空档紧凑度", "考核覆盖"}

	var sum float64
	for i, w := range weights {
		if w < 0 {
			weights[i] = 0
		}
		sum += weights[i]
	}
	if sum <= 0 {
		return ScoreResult{
			FinalScore: 0,
			Reasons:    []string{"所有评分权重均为 0，最终分为 0"},
		}
	}

	var final float64
	reasons := make([]string, 0, len(scores)+1)
	for i := range scores {
		norm := weights[i] / sum
		final += scores[i] * norm
		reasons = append(reasons, fmt.Sprintf("%s: %.2f 分（权重 %.0f%%）", names[i], scores[i], norm*100))
	}
	reasons = append(reasons, fmt.Sprintf("加权总分: %.2f", final))

	return ScoreResult{FinalScore: final, Reasons: reasons}
}

// scoreShape 作息形态：四个比例的均值
//   - 空闲日比例（空闲工作日 / 6）
//   - 单节课日比例（当日仅一节课的天数 / 上课天数）
//   - 长日合规比例（首末课跨度未超限的天数 / 上课天数）
//   - 日负载比例（上课天数不超过理想天数得满分，超出按比例扣）
func scoreShape(byDay map[int][]model.CourseMeeting, cfg *config.ShapeConfig) float64 {
	activeDays := len(byDay)

	freeDays := 6 - activeDays
	if freeDays < 0 {
		freeDays = 0
	}
	freeDayRatio := float64(freeDays) / 6

	singleRatio, longDayRatio := 1.0, 1.0
	if activeDays > 0 {
		singleDays, compliantDays := 0, 0
		for _, meetings := range byDay {
			if len(meetings) == 1 {
				singleDays++
			}
			span := timeToMinutes(meetings[len(meetings)-1].EndTime) - timeToMinutes(meetings[0].StartTime)
			if span <= cfg.MaxDayDurationMinutes {
				compliantDays++
			}
		}
		singleRatio = float64(singleDays) / float64(activeDays)
		longDayRatio = float64(compliantDays) / float64(activeDays)
	}

	// 仅超出理想上课天数才按比例扣分，低于理想不加成
	loadRatio := 1.0
	if cfg.IdealActiveDays > 0 && activeDays > cfg.IdealActiveDays {
		loadRatio = float64(cfg.IdealActiveDays) / float64(activeDays)
	}

	ratio := (freeDayRatio + singleRatio + longDayRatio + loadRatio) / 4
	return subScore(ratio, cfg.Reward, cfg.Penalty)
}

// scoreTimePreference 时间偏好：在偏好时窗内（不早于偏好开始、
// 不晚于偏好结束）的时段比例；空组合视为完全合规
func scoreTimePreference(byDay map[int][]model.CourseMeeting, cfg *config.TimePreferenceConfig) float64 {
	total, compliant := 0, 0
	for _, meetings := range byDay {
		for _, m := range meetings {
			total++
			if m.StartTime >= cfg.PreferredStart && m.EndTime <= cfg.PreferredEnd {
				compliant++
			}
		}
	}

	ratio := 1.0
	if total > 0 {
		ratio = float64(compliant) / float64(total)
	}
	return subScore(ratio, cfg.Reward, cfg.Penalty)
}

// scoreGaps 空档紧凑度：同日相邻时段间空档不超过阈值的比例。
// 完全落在忽略时窗（如固定午休）内的空档不计入分母。
func scoreGaps(byDay map[int][]model.CourseMeeting, cfg *config.GapConfig) float64 {
	ignoreStart := timeToMinutes(cfg.IgnoredWindowStart)
	ignoreEnd := timeToMinutes(cfg.IgnoredWindowEnd)

	total, compliant := 0, 0
	for _, meetings := range byDay {
		for i := 0; i+1 < len(meetings); i++ {
			gapStart := timeToMinutes(meetings[i].EndTime)
			gapEnd := timeToMinutes(meetings[i+1].StartTime)
			if gapEnd <= gapStart {
				continue
			}
			if gapStart >= ignoreStart && gapEnd <= ignoreEnd {
				continue
			}
			total++
			if gapEnd-gapStart <= cfg.MaxGapMinutes {
				compliant++
			}
		}
	}

	ratio := 1.0
	if total > 0 {
		ratio = float64(compliant) / float64(total)
	}
	return subScore(ratio, cfg.Reward, cfg.Penalty)
}

// scoreAssessments 考核覆盖：配置的考核类别先归并去重为考核桶，
// 每个桶有任一课程提供即得奖励分，否则计罚分，最后取桶均值。
// 未配置任何类别时得 0 分。
func scoreAssessments(layout []model.CourseSection, cfg *config.AssessmentConfig) float64 {
	// 配置类别 → 桶，保持首次出现顺序去重
	var buckets []string
	seen := make(map[string]struct{})
	for _, cat := range cfg.Categories {
		b := bucketOf(cat)
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		buckets = append(buckets, b)
	}
	if len(buckets) == 0 {
		return 0
	}

	offered := make(map[string]struct{})
	for i := range layout {
		if layout[i].CourseVersion == nil {
			continue
		}
		for _, a := range layout[i].CourseVersion.Assessments {
			offered[bucketOf(a.Category)] = struct{}{}
		}
	}

	covered := 0
	for _, b := range buckets {
		if _, ok := offered[b]; ok {
			covered++
		}
	}
	ratio := float64(covered) / float64(len(buckets))
	return subScore(ratio, cfg.Reward, cfg.Penalty)
}

// [自证通过] internal/service/timetable_scorer.go
