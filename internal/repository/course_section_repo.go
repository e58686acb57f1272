package repository

import (
	"context"

	"gorm.io/gorm"

	"degree-compass/backend/internal/model"
)

// CourseSectionRepository 开课班次数据访问接口
type CourseSectionRepository interface {
	// ListByCourseVersions 查询指定课程版本在目标学年/学期的所有班次（含上课时段）
	ListByCourseVersions(ctx context.Context, versionIDs []string, year int, termID string) ([]model.CourseSection, error)
	// ListByIDs 按班次 ID 批量查询（含上课时段与课程信息），供导出使用
	ListByIDs(ctx context.Context, sectionIDs []string) ([]model.CourseSection, error)
}

type courseSectionRepo struct {
	db *gorm.DB
}

// NewCourseSectionRepo 创建 CourseSectionRepository 实例
func NewCourseSectionRepo(db *gorm.DB) CourseSectionRepository {
	return &courseSectionRepo{db: db}
}

func (r *courseSectionRepo) ListByCourseVersions(ctx context.Context, versionIDs []string, year int, termID string) ([]model.CourseSection, error) {
	if len(versionIDs) == 0 {
		return nil, nil
	}
	var sections []model.CourseSection
	err := r.db.WithContext(ctx).
		Preload("Meetings", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Preload("CourseVersion").
		Preload("CourseVersion.Course").
		Preload("CourseVersion.Assessments").
		Where("course_version_id IN ? AND academic_year = ? AND term_id = ?", versionIDs, year, termID).
		Order("course_version_id ASC, section_number ASC").
		Find(&sections).Error
	return sections, err
}

func (r *courseSectionRepo) ListByIDs(ctx context.Context, sectionIDs []string) ([]model.CourseSection, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}
	var sections []model.CourseSection
	err := r.db.WithContext(ctx).
		Preload("Meetings", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Preload("CourseVersion").
		Preload("CourseVersion.Course").
		Preload("Term").
		Where("section_id IN ?", sectionIDs).
		Find(&sections).Error
	return sections, err
}
