package model

// 修读记录状态
const (
	RecordStatusEnrolled  = "enrolled"
	RecordStatusCompleted = "completed"
	RecordStatusDropped   = "dropped"
	RecordStatusPlanned   = "planned"
	RecordStatusWithdrawn = "withdrawn"
	RecordStatusFailed    = "failed"
	RecordStatusExemption = "exemption"
)

// passingGrades 计入"已通过"的成绩集合
var passingGrades = map[string]bool{
	"A+": true, "A": true, "A-": true,
	"B+": true, "B": true, "B-": true,
	"C+": true, "C": true, "C-": true,
	"D+": true, "D": true,
	"P": true, // pass/fail 课程
}

// StudentCourseRecord 学生修读记录表 — 对应 student_course_records
// 由外部选课/成绩流程创建与更新，规划核心只读。
type StudentCourseRecord struct {
	RecordID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"record_id"`
	StudentID       string  `gorm:"type:uuid;not null;index"                       json:"student_id"`
	CourseVersionID string  `gorm:"type:uuid;not null"                             json:"course_version_id"`
	TermID          string  `gorm:"type:uuid;not null"                             json:"term_id"`
	AcademicYear    int     `gorm:"type:smallint;not null"                         json:"academic_year"`
	Grade           *string `gorm:"type:varchar(5)"                                json:"grade,omitempty"`
	Status          string  `gorm:"type:varchar(20);not null"                      json:"status"`
	VersionedModel

	// 关联
	CourseVersion *CourseVersion `gorm:"foreignKey:CourseVersionID;references:CourseVersionID" json:"course_version,omitempty"`
}

// TableName 指定表名
func (StudentCourseRecord) TableName() string { return "student_course_records" }

// IsPassing 记录是否计入"已通过"：成绩在通过集合内，或状态为免修
func (r *StudentCourseRecord) IsPassing() bool {
	if r.Status == RecordStatusExemption {
		return true
	}
	return r.Grade != nil && passingGrades[*r.Grade]
}

// IsTaken 记录是否占用课程（在读/已通过），用于互斥课程排除
func (r *StudentCourseRecord) IsTaken() bool {
	return r.IsPassing() || r.Status == RecordStatusEnrolled
}
