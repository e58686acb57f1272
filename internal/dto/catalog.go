package dto

// ── 课程目录模块 DTO ──

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	Page     int    `form:"page,default=1"       binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Search   string `form:"search"`
}

// CourseResponse 课程信息
type CourseResponse struct {
	CourseID       string `json:"course_id"`
	Code           string `json:"code"`
	DepartmentCode string `json:"department_code"`
	Title          string `json:"title"`
}

// SectionListRequest 班次列表查询参数
type SectionListRequest struct {
	AcademicYear int    `form:"year"    binding:"required"`
	TermID       string `form:"term_id" binding:"required,uuid"`
}

// TermResponse 学期信息
type TermResponse struct {
	TermID     string `json:"term_id"`
	Name       string `json:"name"`
	TermNumber int    `json:"term_number"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`
}
