package repository

import (
	"context"

	"gorm.io/gorm"

	"degree-compass/backend/internal/model"
)

// ProgrammeRepository 培养方案/要求类别数据访问接口
type ProgrammeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Programme, error)
	List(ctx context.Context) ([]model.Programme, error)
	// ListCategories 查询方案下的要求类别，按 priority 降序（评估顺序）
	ListCategories(ctx context.Context, programmeID string) ([]model.Category, error)
}

type programmeRepo struct {
	db *gorm.DB
}

// NewProgrammeRepo 创建 ProgrammeRepository 实例
func NewProgrammeRepo(db *gorm.DB) ProgrammeRepository {
	return &programmeRepo{db: db}
}

func (r *programmeRepo) GetByID(ctx context.Context, id string) (*model.Programme, error) {
	var programme model.Programme
	err := r.db.WithContext(ctx).
		Where("programme_id = ?", id).
		First(&programme).Error
	if err != nil {
		return nil, err
	}
	return &programme, nil
}

func (r *programmeRepo) List(ctx context.Context) ([]model.Programme, error) {
	var programmes []model.Programme
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&programmes).Error
	return programmes, err
}

func (r *programmeRepo) ListCategories(ctx context.Context, programmeID string) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("programme_id = ?", programmeID).
		Order("priority DESC").
		Find(&categories).Error
	return categories, err
}
