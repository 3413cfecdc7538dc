package repository

import (
	"context"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type StreakRepository interface {
	Get(ctx context.Context, userID string, streakType entity.StreakType) (*entity.Streak, error)
	Upsert(ctx context.Context, data *entity.Streak) error

	// GetTop returns the highest current streaks, the "top-N by streak"
	// aggregate behind the leaderboard.
	GetTop(ctx context.Context, streakType entity.StreakType, offset, limit int) ([]entity.Streak, error)
}

type streakRepository struct{}

func NewStreakRepository() *streakRepository {
	return &streakRepository{}
}

func (r *streakRepository) Get(
	ctx context.Context, userID string, streakType entity.StreakType,
) (*entity.Streak, error) {
	var result entity.Streak
	err := xcontext.DB(ctx).
		Where("user_id=? AND type=?", userID, streakType).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *streakRepository) Upsert(ctx context.Context, data *entity.Streak) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_count", "longest_count", "last_checkin_date", "updated_at",
		}),
	}).Create(data).Error
}

func (r *streakRepository) GetTop(
	ctx context.Context, streakType entity.StreakType, offset, limit int,
) ([]entity.Streak, error) {
	var result []entity.Streak
	err := xcontext.DB(ctx).
		Where("type=?", streakType).
		Order("current_count DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
