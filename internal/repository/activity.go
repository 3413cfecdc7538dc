package repository

import (
	"context"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
)

type ActivityRepository interface {
	Create(ctx context.Context, data *entity.Activity) error
	GetPublicList(ctx context.Context, offset, limit int) ([]entity.Activity, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Activity, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Create(ctx context.Context, data *entity.Activity) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *activityRepository) GetPublicList(
	ctx context.Context, offset, limit int,
) ([]entity.Activity, error) {
	var result []entity.Activity
	err := xcontext.DB(ctx).
		Where("is_public=?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Activity, error) {
	var result []entity.Activity
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
