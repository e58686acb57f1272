package dto

// ── 学业进度模块 DTO ──

// ProgressResponse 学生培养方案进度响应
type ProgressResponse struct {
	ProgrammeID   string             `json:"programme_id"`
	ProgrammeName string             `json:"programme_name"`
	Categories    []CategoryProgress `json:"categories"`
	Summary       ProgressSummary    `json:"summary"`
}

// ProgressSummary 总体进度摘要
type ProgressSummary struct {
	TotalCategories     int `json:"total_categories"`
	SatisfiedCategories int `json:"satisfied_categories"`
	TotalUsedCredits    int `json:"total_used_credits"`
}

// CategoryProgress 单个要求类别的评估结果
type CategoryProgress struct {
	CategoryID  string       `json:"category_id"`
	Name        string       `json:"name"`
	Notes       string       `json:"notes,omitempty"`
	MinCredit   int          `json:"min_credit"`
	Priority    int          `json:"priority"`
	Satisfied   bool         `json:"satisfied"`
	UsedCredits int          `json:"used_credits"`
	Items       []ItemStatus `json:"items"`
}

// ItemStatus 类别内单个要求项的完成状态
type ItemStatus struct {
	GroupID     string `json:"group_id,omitempty"`
	CourseCode  string `json:"course_code,omitempty"`
	Description string `json:"description"`
	IsCompleted bool   `json:"is_completed"`
	Credits     int    `json:"credits"`
}
