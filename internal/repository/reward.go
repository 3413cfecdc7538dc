package repository

import (
	"context"
	"errors"
	"time"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrOutOfStock is returned by IncreaseClaimedCount when the conditional
// increment claims nothing because the reward hit its quantity limit.
var ErrOutOfStock = errors.New("reward is out of stock")

type RewardRepository interface {
	Create(ctx context.Context, data *entity.Reward) error
	GetByID(ctx context.Context, id string) (*entity.Reward, error)
	GetList(ctx context.Context) ([]entity.Reward, error)
	GetAvailableList(ctx context.Context, now time.Time) ([]entity.Reward, error)
	UpdateByID(ctx context.Context, id string, updates map[string]any) error
	DeleteByID(ctx context.Context, id string) error

	// IncreaseClaimedCount performs the guarded inventory increment:
	// UPDATE ... SET claimed_count = claimed_count + 1
	// WHERE id = ? AND (quantity IS NULL OR claimed_count < quantity).
	// Checking the affected-row count instead of reading then writing is what
	// prevents two concurrent redemptions from overselling the last unit.
	IncreaseClaimedCount(ctx context.Context, id string) error
}

type rewardRepository struct{}

func NewRewardRepository() *rewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, data *entity.Reward) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*entity.Reward, error) {
	var result entity.Reward
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardRepository) GetList(ctx context.Context) ([]entity.Reward, error) {
	var result []entity.Reward
	if err := xcontext.DB(ctx).Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) GetAvailableList(
	ctx context.Context, now time.Time,
) ([]entity.Reward, error) {
	var result []entity.Reward
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) UpdateByID(
	ctx context.Context, id string, updates map[string]any,
) error {
	return xcontext.DB(ctx).
		Model(&entity.Reward{}).
		Where("id=?", id).
		Updates(updates).Error
}

func (r *rewardRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Reward{}, "id=?", id).Error
}

func (r *rewardRepository) IncreaseClaimedCount(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Reward{}).
		Where("id=? AND (quantity IS NULL OR claimed_count < quantity)", id).
		Update("claimed_count", gorm.Expr("claimed_count+1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrOutOfStock
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}
