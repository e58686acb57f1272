package repository

import (
	"context"

	"gorm.io/gorm"

	"degree-compass/backend/internal/model"
)

// GroupRepository 课程组数据访问接口
type GroupRepository interface {
	ListByIDs(ctx context.Context, groupIDs []string) ([]model.Group, error)
	// ListGroupCourses 查询课程组绑定（含课程版本信息），供规则评估与候选解析
	ListGroupCourses(ctx context.Context, groupIDs []string) ([]model.GroupCourse, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) ListByIDs(ctx context.Context, groupIDs []string) ([]model.Group, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListGroupCourses(ctx context.Context, groupIDs []string) ([]model.GroupCourse, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var bindings []model.GroupCourse
	err := r.db.WithContext(ctx).
		Preload("CourseVersion").
		Preload("CourseVersion.Course").
		Where("group_id IN ?", groupIDs).
		Order("group_id ASC, created_at ASC").
		Find(&bindings).Error
	return bindings, err
}
