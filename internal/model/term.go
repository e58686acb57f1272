package model

import "time"

// Term 学期表 — 对应 terms
// 学期与学年解耦：同一 Term（如 "Semester 1"）跨学年复用，
// 班次通过 (academic_year, term_id) 定位具体开课学期。
type Term struct {
	TermID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	Name       string    `gorm:"type:varchar(50);not null"                      json:"name"`
	TermNumber int       `gorm:"type:smallint;not null"                         json:"term_number"` // 1 | 2 | 3(暑期)
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`  // 日历导出用
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"`
	VersionedModel
}

// TableName 指定表名
func (Term) TableName() string { return "terms" }
