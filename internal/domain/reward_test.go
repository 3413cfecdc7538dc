package domain

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/testutil"
	"github.com/stridehq/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

func newTestRewardDomain() *rewardDomain {
	pointTransactionRepo := repository.NewPointTransactionRepository()
	streakRepo := repository.NewStreakRepository()
	return NewRewardDomain(
		repository.NewRewardRepository(),
		repository.NewRedemptionRepository(),
		pointTransactionRepo,
		repository.NewActivityRepository(),
		statistic.New(pointTransactionRepo, streakRepo, &testutil.MockRedisClient{}),
		common.NewGlobalRoleVerifier(repository.NewUserRepository()),
		common.NewUserLocker(),
	)
}

func grantPoints(ctx context.Context, t *testing.T, userID string, amount int64) {
	t.Helper()
	err := repository.NewPointTransactionRepository().Create(ctx, &entity.PointTransaction{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: userID,
		Amount: amount,
		Type:   entity.TransactionAdminGrant,
		Reason: "test grant",
	})
	require.NoError(t, err)
}

func Test_rewardDomain_Redeem(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	grantPoints(ctx, t, user.ID, 100)

	reward, err := testutil.SampleReward(ctx, &entity.Reward{PointCost: 60})
	require.NoError(t, err)

	domain := newTestRewardDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	resp, err := domain.Redeem(userCtx, &model.RedeemRewardRequest{RewardID: reward.ID})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Redemption.Status)
	require.Equal(t, int64(60), resp.Redemption.PointCost)
	require.Equal(t, int64(40), resp.Balance)

	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(40), balance)

	got, err := repository.NewRewardRepository().GetByID(ctx, reward.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ClaimedCount)
}

func Test_rewardDomain_Redeem_InsufficientBalance(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	grantPoints(ctx, t, user.ID, 30)

	reward, err := testutil.SampleReward(ctx, &entity.Reward{PointCost: 60})
	require.NoError(t, err)

	domain := newTestRewardDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	_, err = domain.Redeem(userCtx, &model.RedeemRewardRequest{RewardID: reward.ID})
	require.Error(t, err)
	require.Equal(t, "Not enough points", err.Error())

	// Nothing was written.
	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(30), balance)

	redemptions, err := repository.NewRedemptionRepository().GetListByUserID(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, redemptions)
}

func Test_rewardDomain_Redeem_LastUnitRace(t *testing.T) {
	ctx := testutil.MockContext()
	user1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	grantPoints(ctx, t, user1.ID, 100)
	grantPoints(ctx, t, user2.ID, 100)

	reward, err := testutil.LimitedReward(ctx, 1, &entity.Reward{PointCost: 50})
	require.NoError(t, err)

	domain := newTestRewardDomain()

	var succeeded, soldOut int64
	group := errgroup.Group{}
	for _, userID := range []string{user1.ID, user2.ID} {
		userCtx := xcontext.WithRequestUserID(ctx, userID)
		group.Go(func() error {
			_, err := domain.Redeem(userCtx, &model.RedeemRewardRequest{RewardID: reward.ID})
			if err == nil {
				atomic.AddInt64(&succeeded, 1)
				return nil
			}

			if err.Error() == "Reward is sold out" {
				atomic.AddInt64(&soldOut, 1)
				return nil
			}

			return err
		})
	}
	require.NoError(t, group.Wait())

	require.Equal(t, int64(1), succeeded)
	require.Equal(t, int64(1), soldOut)

	got, err := repository.NewRewardRepository().GetByID(ctx, reward.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ClaimedCount)

	pending, err := repository.NewRedemptionRepository().GetPendingList(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// The loser got their points back through the compensation, so both
	// users still hold 100 points minus at most one redemption.
	balance1, err := repository.NewPointTransactionRepository().Balance(ctx, user1.ID)
	require.NoError(t, err)
	balance2, err := repository.NewPointTransactionRepository().Balance(ctx, user2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(150), balance1+balance2)
}

func Test_rewardDomain_CancelRefundsOnce(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)
	grantPoints(ctx, t, user.ID, 100)

	reward, err := testutil.SampleReward(ctx, &entity.Reward{PointCost: 60})
	require.NoError(t, err)

	domain := newTestRewardDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	redeemResp, err := domain.Redeem(userCtx, &model.RedeemRewardRequest{RewardID: reward.ID})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, admin.ID)
	cancelResp, err := domain.Cancel(adminCtx, &model.CancelRedemptionRequest{
		ID:         redeemResp.Redemption.ID,
		AdminNotes: "out of stock upstream",
	})
	require.NoError(t, err)
	require.Equal(t, int64(60), cancelResp.Refunded)

	// Redeem and refund net to zero.
	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), balance)

	// Cancelling again is rejected, not double-refunded.
	_, err = domain.Cancel(adminCtx, &model.CancelRedemptionRequest{
		ID: redeemResp.Redemption.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	balance, err = repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), balance)
}

func Test_rewardDomain_CancelRefundsPricePaid(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)
	grantPoints(ctx, t, user.ID, 100)

	reward, err := testutil.SampleReward(ctx, &entity.Reward{PointCost: 60})
	require.NoError(t, err)

	domain := newTestRewardDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	redeemResp, err := domain.Redeem(userCtx, &model.RedeemRewardRequest{RewardID: reward.ID})
	require.NoError(t, err)

	// A price change after redemption must not change the refund.
	err = repository.NewRewardRepository().UpdateByID(ctx, reward.ID, map[string]any{
		"point_cost": int64(500),
	})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, admin.ID)
	cancelResp, err := domain.Cancel(adminCtx, &model.CancelRedemptionRequest{
		ID: redeemResp.Redemption.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(60), cancelResp.Refunded)

	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), balance)
}

func Test_rewardDomain_FulfillIsTerminal(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)
	grantPoints(ctx, t, user.ID, 100)

	reward, err := testutil.SampleReward(ctx, &entity.Reward{PointCost: 50})
	require.NoError(t, err)

	domain := newTestRewardDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	redeemResp, err := domain.Redeem(userCtx, &model.RedeemRewardRequest{RewardID: reward.ID})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, admin.ID)
	_, err = domain.Fulfill(adminCtx, &model.FulfillRedemptionRequest{
		ID:         redeemResp.Redemption.ID,
		AdminNotes: "shipped",
	})
	require.NoError(t, err)

	got, err := repository.NewRedemptionRepository().GetByID(ctx, redeemResp.Redemption.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RedemptionFulfilled, got.Status)
	require.True(t, got.FulfilledAt.Valid)

	// No way out of a terminal state, and no refund for fulfilled goods.
	_, err = domain.Cancel(adminCtx, &model.CancelRedemptionRequest{ID: redeemResp.Redemption.ID})
	require.Error(t, err)

	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), balance)
}

func Test_rewardDomain_Redeem_NotFound(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestRewardDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	_, err = domain.Redeem(userCtx, &model.RedeemRewardRequest{RewardID: "no-such-reward"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}
