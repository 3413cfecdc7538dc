package repository

import (
	"context"
	"time"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type CheckinRepository interface {
	Get(ctx context.Context, userID string, date time.Time) (*entity.Checkin, error)

	// Upsert inserts the day's check-in or, when the (user, date) row already
	// exists, overwrites the survey fields only.
	Upsert(ctx context.Context, data *entity.Checkin) error

	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Checkin, error)
}

type checkinRepository struct{}

func NewCheckinRepository() *checkinRepository {
	return &checkinRepository{}
}

func (r *checkinRepository) Get(
	ctx context.Context, userID string, date time.Time,
) (*entity.Checkin, error) {
	var result entity.Checkin
	err := xcontext.DB(ctx).
		Where("user_id=? AND checkin_date=?", userID, date).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *checkinRepository) Upsert(ctx context.Context, data *entity.Checkin) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "checkin_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"mood", "wins", "struggles", "focus", "updated_at",
		}),
	}).Create(data).Error
}

func (r *checkinRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Checkin, error) {
	var result []entity.Checkin
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("checkin_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
