package repository

import (
	"context"
	"database/sql"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
)

type PointTransactionRepository interface {
	Create(ctx context.Context, data *entity.PointTransaction) error

	// Balance derives the user's current balance as the sum over all ledger
	// rows. It is never cached; the ledger is the single source of truth.
	Balance(ctx context.Context, userID string) (int64, error)

	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.PointTransaction, error)

	// GetTopBalances aggregates the ledger into per-user balances, the
	// database fallback behind the points leaderboard.
	GetTopBalances(ctx context.Context, limit int) ([]UserBalance, error)
}

type UserBalance struct {
	UserID  string
	Balance int64
}

type pointTransactionRepository struct{}

func NewPointTransactionRepository() *pointTransactionRepository {
	return &pointTransactionRepository{}
}

func (r *pointTransactionRepository) Create(ctx context.Context, data *entity.PointTransaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointTransactionRepository) Balance(ctx context.Context, userID string) (int64, error) {
	var result sql.NullInt64
	err := xcontext.DB(ctx).
		Model(&entity.PointTransaction{}).
		Where("user_id=?", userID).
		Select("SUM(amount)").
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	// No rows sums to NULL, which is a zero balance.
	return result.Int64, nil
}

func (r *pointTransactionRepository) GetTopBalances(
	ctx context.Context, limit int,
) ([]UserBalance, error) {
	var result []UserBalance
	err := xcontext.DB(ctx).
		Model(&entity.PointTransaction{}).
		Select("user_id, SUM(amount) as balance").
		Group("user_id").
		Order("balance DESC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointTransactionRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.PointTransaction, error) {
	var result []entity.PointTransaction
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
