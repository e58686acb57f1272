package model

// 先修关系类型
const (
	RequisitePrerequisite  = "prerequisite"  // 必须已通过
	RequisiteAntirequisite = "antirequisite" // 已通过/在读则排除
)

// CourseRequisite 课程先修/互斥关系表 — 对应 course_requisites
type CourseRequisite struct {
	RequisiteID            string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requisite_id"`
	CourseVersionID        string `gorm:"type:uuid;not null;index"                       json:"course_version_id"`
	RelatedCourseVersionID string `gorm:"type:uuid;not null"                             json:"related_course_version_id"`
	Kind                   string `gorm:"type:varchar(20);not null"                      json:"kind"` // prerequisite | antirequisite
	BaseModel
}

// TableName 指定表名
func (CourseRequisite) TableName() string { return "course_requisites" }
