package statistic

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
	"github.com/stridehq/backend/pkg/xredis"
)

const loadFromDBLimit = 1000

type Leaderboard interface {
	GetLeaderBoard(ctx context.Context, orderedBy string, offset, limit int) ([]model.UserStatistic, error)

	// ChangePointLeaderboard shifts a user's score by the given delta. The
	// caller passes the ledger amount, negative for redemptions.
	ChangePointLeaderboard(ctx context.Context, value int64, userID string) error

	// SetStreakLeaderboard overwrites a user's streak score. Streaks reset,
	// so the score is absolute rather than a delta.
	SetStreakLeaderboard(ctx context.Context, value int64, userID string) error

	// GetRank returns a user's 1-based position, 0 when the user has no
	// score yet.
	GetRank(ctx context.Context, orderedBy string, userID string) (uint64, error)
}

type leaderboard struct {
	pointTransactionRepo repository.PointTransactionRepository
	streakRepo           repository.StreakRepository
	redisClient          xredis.Client
}

func New(
	pointTransactionRepo repository.PointTransactionRepository,
	streakRepo repository.StreakRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		pointTransactionRepo: pointTransactionRepo,
		streakRepo:           streakRepo,
		redisClient:          redisClient,
	}
}

func redisKeyLeaderBoard(orderedBy string) (string, error) {
	switch orderedBy {
	case "point":
		return common.RedisKeyPointLeaderBoard(), nil
	case "streak":
		return common.RedisKeyStreakLeaderBoard(), nil
	default:
		return "", fmt.Errorf("invalid ordered by field %s", orderedBy)
	}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context, orderedBy string, offset, limit int,
) ([]model.UserStatistic, error) {
	key, err := redisKeyLeaderBoard(orderedBy)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid ordered by field: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid ordered by field")
	}

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, orderedBy, key); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	board := []model.UserStatistic{}
	for i, z := range results {
		board = append(board, model.UserStatistic{
			User:        model.User{ID: z.Member.(string)},
			Value:       int64(z.Score),
			CurrentRank: offset + i + 1,
		})
	}

	return board, nil
}

func (l *leaderboard) ChangePointLeaderboard(
	ctx context.Context, value int64, userID string,
) error {
	key := common.RedisKeyPointLeaderBoard()
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, no need to update.
	if !ok {
		return nil
	}

	if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

func (l *leaderboard) SetStreakLeaderboard(
	ctx context.Context, value int64, userID string,
) error {
	key := common.RedisKeyStreakLeaderBoard()
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	if !ok {
		return nil
	}

	err = l.redisClient.ZAdd(ctx, key, redis.Z{Member: userID, Score: float64(value)})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
	}

	return nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, orderedBy string, userID string,
) (uint64, error) {
	key, err := redisKeyLeaderBoard(orderedBy)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid ordered by field: %v", err)
		return 0, errorx.New(errorx.BadRequest, "Invalid ordered by field")
	}

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, orderedBy, key); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot call ZRevRank redis: %v", err)
		return 0, errorx.Unknown
	}

	return rank + 1, nil
}

func (l *leaderboard) loadLeaderboardFromDB(ctx context.Context, orderedBy, key string) error {
	switch orderedBy {
	case "point":
		balances, err := l.pointTransactionRepo.GetTopBalances(ctx, loadFromDBLimit)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load point leaderboard from db: %v", err)
			return errorx.Unknown
		}

		for _, b := range balances {
			z := redis.Z{Member: b.UserID, Score: float64(b.Balance)}
			if err := l.redisClient.ZAdd(ctx, key, z); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
				return errorx.Unknown
			}
		}

	case "streak":
		streaks, err := l.streakRepo.GetTop(ctx, entity.StreakCheckin, 0, loadFromDBLimit)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load streak leaderboard from db: %v", err)
			return errorx.Unknown
		}

		for _, s := range streaks {
			z := redis.Z{Member: s.UserID, Score: float64(s.CurrentCount)}
			if err := l.redisClient.ZAdd(ctx, key, z); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
				return errorx.Unknown
			}
		}
	}

	return nil
}
