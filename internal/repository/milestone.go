package repository

import (
	"context"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
)

type MilestoneFilter struct {
	ActiveOnly bool
}

type MilestoneRepository interface {
	Create(ctx context.Context, data *entity.Milestone) error
	GetByID(ctx context.Context, id string) (*entity.Milestone, error)
	GetList(ctx context.Context, filter MilestoneFilter) ([]entity.Milestone, error)
	UpdateByID(ctx context.Context, id string, updates map[string]any) error
	DeleteByID(ctx context.Context, id string) error
}

type milestoneRepository struct{}

func NewMilestoneRepository() *milestoneRepository {
	return &milestoneRepository{}
}

func (r *milestoneRepository) Create(ctx context.Context, data *entity.Milestone) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *milestoneRepository) GetByID(ctx context.Context, id string) (*entity.Milestone, error) {
	var result entity.Milestone
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *milestoneRepository) GetList(
	ctx context.Context, filter MilestoneFilter,
) ([]entity.Milestone, error) {
	tx := xcontext.DB(ctx).Order("sort_order ASC")
	if filter.ActiveOnly {
		tx = tx.Where("is_active=?", true)
	}

	var result []entity.Milestone
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *milestoneRepository) UpdateByID(
	ctx context.Context, id string, updates map[string]any,
) error {
	return xcontext.DB(ctx).
		Model(&entity.Milestone{}).
		Where("id=?", id).
		Updates(updates).Error
}

func (r *milestoneRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Milestone{}, "id=?", id).Error
}
