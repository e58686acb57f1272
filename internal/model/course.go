package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code           string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`            // 如 COMP2045
	DepartmentCode string `gorm:"type:varchar(10);not null"                      json:"department_code"` // 如 COMP
	Title          string `gorm:"type:varchar(200);not null"                     json:"title"`
	VersionedModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// CourseVersion 课程版本表 — 对应 course_versions
// 学生修读记录、开课班次、课程组绑定、先修关系均引用课程版本而非课程本身
type CourseVersion struct {
	CourseVersionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_version_id"`
	CourseID        string `gorm:"type:uuid;not null"                             json:"course_id"`
	VersionNumber   int    `gorm:"type:smallint;not null;default:1"               json:"version_number"`
	Credits         int    `gorm:"type:smallint;not null"                         json:"credits"`
	IsActive        bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Course      *Course            `gorm:"foreignKey:CourseID;references:CourseID"                json:"course,omitempty"`
	Assessments []CourseAssessment `gorm:"foreignKey:CourseVersionID;references:CourseVersionID" json:"assessments,omitempty"`
}

// TableName 指定表名
func (CourseVersion) TableName() string { return "course_versions" }
