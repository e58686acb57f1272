package model

// Group 课程组表 — 对应 groups
// 规则树中的 group / free_elective 节点通过 group_id 引用课程组
type Group struct {
	GroupID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name    string `gorm:"type:varchar(100);not null"                     json:"name"`
	VersionedModel
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }

// GroupCourse 课程组绑定表 — 对应 group_courses
// 每条绑定二选一：指向具体课程版本（course_version_id），
// 或指向整个课程代码族（code_prefix，如 "COMP" 匹配全系课程）。
// 两种形式可在同一课程组内并存。
type GroupCourse struct {
	GroupCourseID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_course_id"`
	GroupID         string  `gorm:"type:uuid;not null;index"                       json:"group_id"`
	CourseVersionID *string `gorm:"type:uuid"                                      json:"course_version_id,omitempty"`
	CodePrefix      *string `gorm:"type:varchar(20)"                               json:"code_prefix,omitempty"`
	BaseModel

	// 关联
	CourseVersion *CourseVersion `gorm:"foreignKey:CourseVersionID;references:CourseVersionID" json:"course_version,omitempty"`
}

// TableName 指定表名
func (GroupCourse) TableName() string { return "group_courses" }
