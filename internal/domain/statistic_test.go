package domain

import (
	"context"
	"sort"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/testutil"
	"github.com/stridehq/backend/pkg/xcontext"
)

// fakeZSet backs a MockRedisClient with a real sorted set so the
// load-from-database path and the reads go through the same data.
func fakeZSet() *testutil.MockRedisClient {
	scores := map[string]map[string]float64{}
	return &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return len(scores[key]) > 0, nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			if scores[key] == nil {
				scores[key] = map[string]float64{}
			}
			scores[key][z.Member.(string)] = z.Score
			return nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			scores[key][member] += float64(incr)
			return nil
		},
		ZRevRankFunc: func(ctx context.Context, key string, member string) (uint64, error) {
			if _, ok := scores[key][member]; !ok {
				return 0, redis.Nil
			}
			rank := uint64(0)
			for other, score := range scores[key] {
				if other != member && score > scores[key][member] {
					rank++
				}
			}
			return rank, nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			zs := []redis.Z{}
			for member, score := range scores[key] {
				zs = append(zs, redis.Z{Member: member, Score: score})
			}
			sort.Slice(zs, func(i, j int) bool { return zs[i].Score > zs[j].Score })
			if offset >= len(zs) {
				return nil, nil
			}
			zs = zs[offset:]
			if limit < len(zs) {
				zs = zs[:limit]
			}
			return zs, nil
		},
	}
}

func Test_statisticDomain_GetLeaderBoard_ByPoint(t *testing.T) {
	ctx := testutil.MockContext()
	user1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user3, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	grantPoints(ctx, t, user1.ID, 100)
	grantPoints(ctx, t, user2.ID, 300)
	grantPoints(ctx, t, user3.ID, 200)

	leaderboard := statistic.New(
		repository.NewPointTransactionRepository(),
		repository.NewStreakRepository(),
		fakeZSet(),
	)
	domain := NewStatisticDomain(leaderboard, repository.NewUserRepository())

	resp, err := domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{OrderedBy: "point"})
	require.NoError(t, err)
	require.Len(t, resp.LeaderBoard, 3)
	require.Equal(t, user2.ID, resp.LeaderBoard[0].User.ID)
	require.Equal(t, user2.Username, resp.LeaderBoard[0].User.Username)
	require.Equal(t, int64(300), resp.LeaderBoard[0].Value)
	require.Equal(t, 1, resp.LeaderBoard[0].CurrentRank)
	require.Equal(t, user3.ID, resp.LeaderBoard[1].User.ID)
	require.Equal(t, user1.ID, resp.LeaderBoard[2].User.ID)

	// A later score change moves through the warm cache.
	err = leaderboard.ChangePointLeaderboard(ctx, 500, user1.ID)
	require.NoError(t, err)

	resp, err = domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{OrderedBy: "point"})
	require.NoError(t, err)
	require.Equal(t, user1.ID, resp.LeaderBoard[0].User.ID)
	require.Equal(t, int64(600), resp.LeaderBoard[0].Value)
}

func Test_statisticDomain_GetLeaderBoard_ByStreak(t *testing.T) {
	ctx := testutil.MockContext()
	user1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	streakRepo := repository.NewStreakRepository()
	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID: user1.ID, Type: entity.StreakCheckin, CurrentCount: 4, LongestCount: 4,
	}))
	require.NoError(t, streakRepo.Upsert(ctx, &entity.Streak{
		UserID: user2.ID, Type: entity.StreakCheckin, CurrentCount: 9, LongestCount: 9,
	}))

	domain := NewStatisticDomain(
		statistic.New(repository.NewPointTransactionRepository(), streakRepo, fakeZSet()),
		repository.NewUserRepository(),
	)

	resp, err := domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{OrderedBy: "streak"})
	require.NoError(t, err)
	require.Len(t, resp.LeaderBoard, 2)
	require.Equal(t, user2.ID, resp.LeaderBoard[0].User.ID)
	require.Equal(t, int64(9), resp.LeaderBoard[0].Value)
	require.Equal(t, user1.ID, resp.LeaderBoard[1].User.ID)
}

func Test_statisticDomain_GetMyRank(t *testing.T) {
	ctx := testutil.MockContext()
	user1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	outsider, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	grantPoints(ctx, t, user1.ID, 100)
	grantPoints(ctx, t, user2.ID, 300)

	domain := NewStatisticDomain(
		statistic.New(
			repository.NewPointTransactionRepository(),
			repository.NewStreakRepository(),
			fakeZSet(),
		),
		repository.NewUserRepository(),
	)

	resp, err := domain.GetMyRank(xcontext.WithRequestUserID(ctx, user1.ID), &model.GetMyRankRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(2), resp.Rank)

	resp, err = domain.GetMyRank(xcontext.WithRequestUserID(ctx, user2.ID), &model.GetMyRankRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(1), resp.Rank)

	// A user with no score has no rank.
	resp, err = domain.GetMyRank(xcontext.WithRequestUserID(ctx, outsider.ID), &model.GetMyRankRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.Rank)
}

func Test_statisticDomain_GetLeaderBoard_Validation(t *testing.T) {
	ctx := testutil.MockContext()
	domain := NewStatisticDomain(
		statistic.New(
			repository.NewPointTransactionRepository(),
			repository.NewStreakRepository(),
			fakeZSet(),
		),
		repository.NewUserRepository(),
	)

	_, err := domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{OrderedBy: "karma"})
	require.Error(t, err)
	require.Equal(t, "Invalid ordered by field", err.Error())

	_, err = domain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{Limit: 51})
	require.Error(t, err)
	require.Equal(t, "Exceed the maximum of limit", err.Error())
}
