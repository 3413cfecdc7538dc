package repository

import (
	"context"
	"errors"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RedemptionRepository interface {
	Create(ctx context.Context, data *entity.Redemption) error
	GetByID(ctx context.Context, id string) (*entity.Redemption, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Redemption, error)
	GetPendingList(ctx context.Context, offset, limit int) ([]entity.Redemption, error)

	// UpdateFromPending transitions the redemption out of pending. It returns
	// gorm.ErrRecordNotFound if the row is absent or already terminal, so a
	// repeated fulfill/cancel is rejected instead of applied twice.
	UpdateFromPending(ctx context.Context, id string, data *entity.Redemption) error

	// HardDelete removes a row entirely. Only the redeem saga uses it, to
	// compensate its own just-created record.
	HardDelete(ctx context.Context, id string) error
}

type redemptionRepository struct{}

func NewRedemptionRepository() *redemptionRepository {
	return &redemptionRepository{}
}

func (r *redemptionRepository) Create(ctx context.Context, data *entity.Redemption) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *redemptionRepository) GetByID(ctx context.Context, id string) (*entity.Redemption, error) {
	var result entity.Redemption
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *redemptionRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Redemption, error) {
	var result []entity.Redemption
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

func (r *redemptionRepository) GetPendingList(
	ctx context.Context, offset, limit int,
) ([]entity.Redemption, error) {
	var result []entity.Redemption
	err := xcontext.DB(ctx).
		Where("status=?", entity.RedemptionPending).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *redemptionRepository) UpdateFromPending(
	ctx context.Context, id string, data *entity.Redemption,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Redemption{}).
		Where("id=? AND status=?", id, entity.RedemptionPending).
		Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

func (r *redemptionRepository) HardDelete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.Redemption{}, "id=?", id).Error
}
