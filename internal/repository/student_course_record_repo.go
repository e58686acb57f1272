package repository

import (
	"context"

	"gorm.io/gorm"

	"degree-compass/backend/internal/model"
)

// StudentCourseRecordRepository 学生修读记录数据访问接口
// 记录由外部选课/成绩流程写入，规划核心只读
type StudentCourseRecordRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentCourseRecord, error)
}

type studentCourseRecordRepo struct {
	db *gorm.DB
}

// NewStudentCourseRecordRepo 创建 StudentCourseRecordRepository 实例
func NewStudentCourseRecordRepo(db *gorm.DB) StudentCourseRecordRepository {
	return &studentCourseRecordRepo{db: db}
}

func (r *studentCourseRecordRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentCourseRecord, error) {
	var records []model.StudentCourseRecord
	err := r.db.WithContext(ctx).
		Preload("CourseVersion").
		Preload("CourseVersion.Course").
		Where("student_id = ?", studentID).
		Order("academic_year ASC, term_id ASC").
		Find(&records).Error
	return records, err
}
