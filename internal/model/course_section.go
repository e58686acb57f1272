package model

// CourseSection 开课班次表 — 对应 course_sections
// 同一课程版本的不同 section_number 互为替代（组合搜索中互斥）；
// 不同课程版本的班次是组合积的独立维度。
type CourseSection struct {
	SectionID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	CourseVersionID string `gorm:"type:uuid;not null;index"                       json:"course_version_id"`
	AcademicYear    int    `gorm:"type:smallint;not null"                         json:"academic_year"`
	TermID          string `gorm:"type:uuid;not null"                             json:"term_id"`
	SectionNumber   int    `gorm:"type:smallint;not null"                         json:"section_number"`
	VersionedModel

	// 关联
	CourseVersion *CourseVersion  `gorm:"foreignKey:CourseVersionID;references:CourseVersionID" json:"course_version,omitempty"`
	Term          *Term           `gorm:"foreignKey:TermID;references:TermID"                   json:"term,omitempty"`
	Meetings      []CourseMeeting `gorm:"foreignKey:SectionID;references:SectionID"             json:"meetings,omitempty"`
}

// TableName 指定表名
func (CourseSection) TableName() string { return "course_sections" }

// CourseMeeting 班次上课时段表 — 对应 course_meetings
type CourseMeeting struct {
	MeetingID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"meeting_id"`
	SectionID   string `gorm:"type:uuid;not null;index"                       json:"section_id"`
	DayOfWeek   int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一 … 7=周日
	StartTime   string `gorm:"type:time;not null"                             json:"start_time"`
	EndTime     string `gorm:"type:time;not null"                             json:"end_time"`
	MeetingType string `gorm:"type:varchar(20);not null;default:'lecture'"    json:"meeting_type"` // lecture | lab | tutorial
	BaseModel
}

// TableName 指定表名
func (CourseMeeting) TableName() string { return "course_meetings" }

// [自证通过] internal/model/course_section.go
