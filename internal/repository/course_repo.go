package repository

import (
	"context"

	"gorm.io/gorm"

	"degree-compass/backend/internal/model"
)

// CourseRepository 课程/课程版本数据访问接口
type CourseRepository interface {
	List(ctx context.Context, search string, offset, limit int) ([]model.Course, int64, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// GetVersionByID 查询课程版本（含课程与考核方式）
	GetVersionByID(ctx context.Context, versionID string) (*model.CourseVersion, error)
	// ListVersionsByIDs 批量查询课程版本（含课程与考核方式），供规则评估构建索引
	ListVersionsByIDs(ctx context.Context, versionIDs []string) ([]model.CourseVersion, error)
	// ListActiveVersionsByCodePrefix 按课程代码前缀查询在用课程版本（课程代码族绑定）
	ListActiveVersionsByCodePrefix(ctx context.Context, prefix string) ([]model.CourseVersion, error)
	// ListVersionsByCourse 查询课程的全部版本
	ListVersionsByCourse(ctx context.Context, courseID string) ([]model.CourseVersion, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context, search string, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Course{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("code ILIKE ? OR title ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("code ASC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetVersionByID(ctx context.Context, versionID string) (*model.CourseVersion, error) {
	var version model.CourseVersion
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Assessments").
		Where("course_version_id = ?", versionID).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *courseRepo) ListVersionsByIDs(ctx context.Context, versionIDs []string) ([]model.CourseVersion, error) {
	if len(versionIDs) == 0 {
		return nil, nil
	}
	var versions []model.CourseVersion
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Assessments").
		Where("course_version_id IN ?", versionIDs).
		Find(&versions).Error
	return versions, err
}

func (r *courseRepo) ListActiveVersionsByCodePrefix(ctx context.Context, prefix string) ([]model.CourseVersion, error) {
	var versions []model.CourseVersion
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Assessments").
		Joins("JOIN courses ON courses.course_id = course_versions.course_id").
		Where("course_versions.is_active = ? AND courses.code LIKE ?", true, prefix+"%").
		Find(&versions).Error
	return versions, err
}

func (r *courseRepo) ListVersionsByCourse(ctx context.Context, courseID string) ([]model.CourseVersion, error) {
	var versions []model.CourseVersion
	err := r.db.WithContext(ctx).
		Preload("Assessments").
		Where("course_id = ?", courseID).
		Order("version_number DESC").
		Find(&versions).Error
	return versions, err
}
