package repository

import (
	"context"
	"errors"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserMilestoneRepository interface {
	// Create inserts a claim record. The unique index on
	// (user_id, milestone_id) makes a concurrent double-claim surface as
	// gorm.ErrDuplicatedKey on the second insert.
	Create(ctx context.Context, data *entity.UserMilestone) error

	GetByID(ctx context.Context, id string) (*entity.UserMilestone, error)
	Get(ctx context.Context, userID, milestoneID string) (*entity.UserMilestone, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.UserMilestone, error)
	GetPendingList(ctx context.Context, offset, limit int) ([]entity.UserMilestone, error)

	// SetVerified stamps the reviewer only while the claim is still pending.
	// It returns gorm.ErrRecordNotFound when the row is gone or already
	// verified, which is what stops a retried approval from double-granting.
	SetVerified(ctx context.Context, id, adminID string) error

	// DeletePending removes a claim that has not been verified yet. The row
	// is gone for real (no soft delete here) so the unique pair index frees
	// up and the user may submit again.
	DeletePending(ctx context.Context, id string) error
}

type userMilestoneRepository struct{}

func NewUserMilestoneRepository() *userMilestoneRepository {
	return &userMilestoneRepository{}
}

func (r *userMilestoneRepository) Create(ctx context.Context, data *entity.UserMilestone) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userMilestoneRepository) GetByID(
	ctx context.Context, id string,
) (*entity.UserMilestone, error) {
	var result entity.UserMilestone
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userMilestoneRepository) Get(
	ctx context.Context, userID, milestoneID string,
) (*entity.UserMilestone, error) {
	var result entity.UserMilestone
	err := xcontext.DB(ctx).
		Where("user_id=? AND milestone_id=?", userID, milestoneID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userMilestoneRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.UserMilestone, error) {
	var result []entity.UserMilestone
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userMilestoneRepository) GetPendingList(
	ctx context.Context, offset, limit int,
) ([]entity.UserMilestone, error) {
	var result []entity.UserMilestone
	err := xcontext.DB(ctx).
		Where("verified_by IS NULL").
		Order("completed_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userMilestoneRepository) SetVerified(ctx context.Context, id, adminID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserMilestone{}).
		Where("id=? AND verified_by IS NULL", id).
		Update("verified_by", adminID)
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

func (r *userMilestoneRepository) DeletePending(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Where("id=? AND verified_by IS NULL", id).
		Delete(&entity.UserMilestone{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
