package repository

import (
	"context"
	"errors"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PartnershipRepository interface {
	Create(ctx context.Context, data *entity.Partnership) error
	GetByID(ctx context.Context, id string) (*entity.Partnership, error)

	// GetActiveOrPendingByPair looks the pair up in both directions; the
	// symmetric uniqueness invariant is over the unordered pair.
	GetActiveOrPendingByPair(ctx context.Context, userA, userB string) (*entity.Partnership, error)

	GetListByUserID(ctx context.Context, userID string) ([]entity.Partnership, error)

	// UpdateStatusFrom transitions status only when the current status is
	// one of from, returning gorm.ErrRecordNotFound otherwise.
	UpdateStatusFrom(ctx context.Context, id string, to entity.PartnershipStatus, from ...entity.PartnershipStatus) error
}

type partnershipRepository struct{}

func NewPartnershipRepository() *partnershipRepository {
	return &partnershipRepository{}
}

func (r *partnershipRepository) Create(ctx context.Context, data *entity.Partnership) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *partnershipRepository) GetByID(ctx context.Context, id string) (*entity.Partnership, error) {
	var result entity.Partnership
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *partnershipRepository) GetActiveOrPendingByPair(
	ctx context.Context, userA, userB string,
) (*entity.Partnership, error) {
	var result entity.Partnership
	err := xcontext.DB(ctx).
		Where("(sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?)",
			userA, userB, userB, userA).
		Where("status IN (?)", []entity.PartnershipStatus{
			entity.PartnershipPending, entity.PartnershipActive,
		}).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *partnershipRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.Partnership, error) {
	var result []entity.Partnership
	err := xcontext.DB(ctx).
		Where("sender_id=? OR receiver_id=?", userID, userID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *partnershipRepository) UpdateStatusFrom(
	ctx context.Context, id string, to entity.PartnershipStatus, from ...entity.PartnershipStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Partnership{}).
		Where("id=? AND status IN (?)", id, from).
		Update("status", to)
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
