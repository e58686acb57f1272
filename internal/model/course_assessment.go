package model

// CourseAssessment 课程考核方式表 — 对应 course_assessments
// category 为原始考核类别（assignment / quiz / exam / midterm / final /
// project / group_project / presentation / lab），
// 评分时按固定映射归并到考核桶（如 project 与 group_project 合并）。
type CourseAssessment struct {
	AssessmentID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assessment_id"`
	CourseVersionID string `gorm:"type:uuid;not null;index"                       json:"course_version_id"`
	Category        string `gorm:"type:varchar(30);not null"                      json:"category"`
	Weight          int    `gorm:"type:smallint;not null;default:0"               json:"weight"` // 占总评百分比
	BaseModel
}

// TableName 指定表名
func (CourseAssessment) TableName() string { return "course_assessments" }
