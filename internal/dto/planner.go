package dto

// ── 排课规划模块 DTO ──

// GeneratePlanRequest 生成排课方案请求
type GeneratePlanRequest struct {
	AcademicYear int    `json:"academic_year" binding:"required"`
	TermID       string `json:"term_id"       binding:"required,uuid"`
	// 自由选修学分目标；为 nil 时取类别 min_credit 减去已修学分
	FreeElectiveCredits *int `json:"free_elective_credits,omitempty"`
	// 评分参数覆盖；为 nil 的字段使用服务端默认配置
	Scoring *ScoringOverride `json:"scoring,omitempty"`
	// 硬约束过滤参数；为 nil 时不做过滤
	Filter *FilterParams `json:"filter,omitempty"`
	// 跳过缓存强制重新计算
	NoCache bool `json:"no_cache"`
}

// ScoringOverride 评分参数覆盖（仅覆盖非 nil 字段）
type ScoringOverride struct {
	WeightShape          *float64 `json:"weight_shape,omitempty"`
	WeightTimePreference *float64 `json:"weight_time_preference,omitempty"`
	WeightGap            *float64 `json:"weight_gap,omitempty"`
	WeightAssessment     *float64 `json:"weight_assessment,omitempty"`
	PreferredStart       *string  `json:"preferred_start,omitempty"` // "HH:MM"
	PreferredEnd         *string  `json:"preferred_end,omitempty"`
	MaxGapMinutes        *int     `json:"max_gap_minutes,omitempty"`
	IdealActiveDays      *int     `json:"ideal_active_days,omitempty"`
}

// FilterParams 方案硬约束过滤参数
type FilterParams struct {
	MinGapMinutes     int `json:"min_gap_minutes"`
	MaxGapMinutes     int `json:"max_gap_minutes"`
	MaxMeetingsPerDay int `json:"max_meetings_per_day"`
}

// GeneratePlanResponse 生成排课方案响应
type GeneratePlanResponse struct {
	Layouts []LayoutResponse `json:"layouts"`
	// 数据缺失类说明（如：某必修课程本学期未开课），非致命
	Errors []string `json:"errors,omitempty"`
	// 方案数超出上限被截断
	Truncated bool `json:"truncated"`
	// 命中缓存
	FromCache bool `json:"from_cache"`
}

// LayoutResponse 单个候选方案
type LayoutResponse struct {
	Sections     []SectionResponse `json:"sections"`
	TotalCredits int               `json:"total_credits"`
	FinalScore   float64           `json:"final_score"`
	ScoreReasons []string          `json:"score_reasons"`
}

// SectionResponse 方案内班次
type SectionResponse struct {
	SectionID     string            `json:"section_id"`
	CourseCode    string            `json:"course_code"`
	CourseTitle   string            `json:"course_title"`
	Credits       int               `json:"credits"`
	SectionNumber int               `json:"section_number"`
	Meetings      []MeetingResponse `json:"meetings"`
}

// MeetingResponse 班次上课时段
type MeetingResponse struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MeetingType string `json:"meeting_type"`
}

// ExportRequest 课表导出请求（Excel / ICS 共用）
type ExportRequest struct {
	SectionIDs   []string `json:"section_ids" binding:"required,min=1"`
	AcademicYear int      `json:"academic_year"`
}

// [自证通过] internal/dto/planner.go
