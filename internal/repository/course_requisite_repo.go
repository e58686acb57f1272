package repository

import (
	"context"

	"gorm.io/gorm"

	"degree-compass/backend/internal/model"
)

// CourseRequisiteRepository 先修/互斥关系数据访问接口
type CourseRequisiteRepository interface {
	ListByCourseVersions(ctx context.Context, versionIDs []string) ([]model.CourseRequisite, error)
}

type courseRequisiteRepo struct {
	db *gorm.DB
}

// NewCourseRequisiteRepo 创建 CourseRequisiteRepository 实例
func NewCourseRequisiteRepo(db *gorm.DB) CourseRequisiteRepository {
	return &courseRequisiteRepo{db: db}
}

func (r *courseRequisiteRepo) ListByCourseVersions(ctx context.Context, versionIDs []string) ([]model.CourseRequisite, error) {
	if len(versionIDs) == 0 {
		return nil, nil
	}
	var requisites []model.CourseRequisite
	err := r.db.WithContext(ctx).
		Where("course_version_id IN ?", versionIDs).
		Find(&requisites).Error
	return requisites, err
}
