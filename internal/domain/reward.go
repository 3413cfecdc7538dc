package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardDomain interface {
	GetRewards(context.Context, *model.GetRewardsRequest) (*model.GetRewardsResponse, error)
	Redeem(context.Context, *model.RedeemRewardRequest) (*model.RedeemRewardResponse, error)
	GetMyRedemptions(context.Context, *model.GetMyRedemptionsRequest) (*model.GetMyRedemptionsResponse, error)
	GetPendingRedemptions(context.Context, *model.GetPendingRedemptionsRequest) (*model.GetPendingRedemptionsResponse, error)
	Fulfill(context.Context, *model.FulfillRedemptionRequest) (*model.FulfillRedemptionResponse, error)
	Cancel(context.Context, *model.CancelRedemptionRequest) (*model.CancelRedemptionResponse, error)
	Create(context.Context, *model.CreateRewardRequest) (*model.CreateRewardResponse, error)
	Update(context.Context, *model.UpdateRewardRequest) (*model.UpdateRewardResponse, error)
	Delete(context.Context, *model.DeleteRewardRequest) (*model.DeleteRewardResponse, error)
}

type rewardDomain struct {
	rewardRepo           repository.RewardRepository
	redemptionRepo       repository.RedemptionRepository
	pointTransactionRepo repository.PointTransactionRepository
	activityRepo         repository.ActivityRepository
	leaderboard          statistic.Leaderboard
	roleVerifier         *common.GlobalRoleVerifier
	userLocker           *common.UserLocker
}

func NewRewardDomain(
	rewardRepo repository.RewardRepository,
	redemptionRepo repository.RedemptionRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	activityRepo repository.ActivityRepository,
	leaderboard statistic.Leaderboard,
	roleVerifier *common.GlobalRoleVerifier,
	userLocker *common.UserLocker,
) *rewardDomain {
	return &rewardDomain{
		rewardRepo:           rewardRepo,
		redemptionRepo:       redemptionRepo,
		pointTransactionRepo: pointTransactionRepo,
		activityRepo:         activityRepo,
		leaderboard:          leaderboard,
		roleVerifier:         roleVerifier,
		userLocker:           userLocker,
	}
}

func (d *rewardDomain) GetRewards(
	ctx context.Context, req *model.GetRewardsRequest,
) (*model.GetRewardsResponse, error) {
	var rewards []entity.Reward
	var err error
	if req.IncludeInactive {
		if verr := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); verr != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", verr)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		rewards, err = d.rewardRepo.GetList(ctx)
	} else {
		rewards, err = d.rewardRepo.GetAvailableList(ctx, time.Now())
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rewards: %v", err)
		return nil, errorx.Unknown
	}

	clientRewards := []model.Reward{}
	for _, r := range rewards {
		clientRewards = append(clientRewards, model.ConvertReward(&r))
	}

	return &model.GetRewardsResponse{Rewards: clientRewards}, nil
}

// Redeem exchanges points for a reward. The three writes (debit, redemption
// row, guarded inventory increment) run as a saga: a failing step triggers
// the compensations of the steps before it, so a failed redemption never
// leaves the ledger and the redemption table disagreeing.
func (d *rewardDomain) Redeem(
	ctx context.Context, req *model.RedeemRewardRequest,
) (*model.RedeemRewardResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	d.userLocker.Lock(userID)
	defer d.userLocker.Unlock(userID)

	reward, err := d.rewardRepo.GetByID(ctx, req.RewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	// An inactive reward is not distinguishable from a missing one.
	if !reward.IsActive {
		return nil, errorx.New(errorx.NotFound, "Not found reward")
	}

	if reward.Quantity.Valid && reward.ClaimedCount >= reward.Quantity.Int64 {
		return nil, errorx.New(errorx.Unavailable, "Reward is sold out")
	}

	if reward.ExpiresAt.Valid && time.Now().After(reward.ExpiresAt.Time) {
		return nil, errorx.New(errorx.Unavailable, "Reward has expired")
	}

	balance, err := d.pointTransactionRepo.Balance(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum balance: %v", err)
		return nil, errorx.Unknown
	}

	if balance < reward.PointCost {
		return nil, errorx.New(errorx.BadRequest, "Not enough points")
	}

	redemption := &entity.Redemption{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    userID,
		RewardID:  reward.ID,
		Status:    entity.RedemptionPending,
		PointCost: reward.PointCost,
	}

	err = common.RunSaga(ctx,
		common.SagaStep{
			Name: "debit points",
			Run: func(ctx context.Context) error {
				return d.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
					Base:     entity.Base{ID: uuid.NewString()},
					UserID:   userID,
					Amount:   -reward.PointCost,
					Type:     entity.TransactionRedemption,
					Reason:   reward.Title,
					Metadata: entity.Map{"reward_id": reward.ID},
				})
			},
			// The ledger is append-only, so the inverse of a debit is an
			// offsetting credit, not a deletion.
			Compensate: func(ctx context.Context) error {
				return d.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
					Base:     entity.Base{ID: uuid.NewString()},
					UserID:   userID,
					Amount:   reward.PointCost,
					Type:     entity.TransactionRefund,
					Reason:   reward.Title,
					Metadata: entity.Map{"reward_id": reward.ID},
				})
			},
		},
		common.SagaStep{
			Name: "insert redemption",
			Run: func(ctx context.Context) error {
				return d.redemptionRepo.Create(ctx, redemption)
			},
			Compensate: func(ctx context.Context) error {
				return d.redemptionRepo.HardDelete(ctx, redemption.ID)
			},
		},
		common.SagaStep{
			Name: "increment claimed count",
			Run: func(ctx context.Context) error {
				return d.rewardRepo.IncreaseClaimedCount(ctx, reward.ID)
			},
		},
	)
	if err != nil {
		if errors.Is(err, repository.ErrOutOfStock) {
			return nil, errorx.New(errorx.Unavailable, "Reward is sold out")
		}

		xcontext.Logger(ctx).Errorf("Cannot redeem reward: %v", err)
		return nil, errorx.Unknown
	}

	err = d.activityRepo.Create(ctx, &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		Type:         entity.ActivityRedemption,
		Title:        reward.Title,
		PointsEarned: -reward.PointCost,
		Metadata:     entity.Map{"reward_id": reward.ID},
		IsPublic:     false,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create redemption activity: %v", err)
	}

	d.leaderboard.ChangePointLeaderboard(ctx, -reward.PointCost, userID)

	return &model.RedeemRewardResponse{
		Redemption: model.ConvertRedemption(redemption, reward),
		Balance:    balance - reward.PointCost,
	}, nil
}

func (d *rewardDomain) GetMyRedemptions(
	ctx context.Context, req *model.GetMyRedemptionsRequest,
) (*model.GetMyRedemptionsResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	redemptions, err := d.redemptionRepo.GetListByUserID(
		ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get redemptions: %v", err)
		return nil, errorx.Unknown
	}

	clientRedemptions, err := d.convertRedemptions(ctx, redemptions)
	if err != nil {
		return nil, err
	}

	return &model.GetMyRedemptionsResponse{Redemptions: clientRedemptions}, nil
}

func (d *rewardDomain) GetPendingRedemptions(
	ctx context.Context, req *model.GetPendingRedemptionsRequest,
) (*model.GetPendingRedemptionsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	redemptions, err := d.redemptionRepo.GetPendingList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending redemptions: %v", err)
		return nil, errorx.Unknown
	}

	clientRedemptions, err := d.convertRedemptions(ctx, redemptions)
	if err != nil {
		return nil, err
	}

	return &model.GetPendingRedemptionsResponse{Redemptions: clientRedemptions}, nil
}

func (d *rewardDomain) Fulfill(
	ctx context.Context, req *model.FulfillRedemptionRequest,
) (*model.FulfillRedemptionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.redemptionRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found redemption")
		}

		xcontext.Logger(ctx).Errorf("Cannot get redemption: %v", err)
		return nil, errorx.Unknown
	}

	err := d.redemptionRepo.UpdateFromPending(ctx, req.ID, &entity.Redemption{
		Status:      entity.RedemptionFulfilled,
		AdminNotes:  req.AdminNotes,
		FulfilledAt: sql.NullTime{Time: time.Now(), Valid: true},
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "Redemption was already resolved")
		}

		xcontext.Logger(ctx).Errorf("Cannot fulfill redemption: %v", err)
		return nil, errorx.Unknown
	}

	return &model.FulfillRedemptionResponse{}, nil
}

// Cancel moves a pending redemption to cancelled and credits back the point
// cost captured at redemption time. The guarded status transition makes a
// second cancel fail before any refund is written.
func (d *rewardDomain) Cancel(
	ctx context.Context, req *model.CancelRedemptionRequest,
) (*model.CancelRedemptionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	redemption, err := d.redemptionRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found redemption")
		}

		xcontext.Logger(ctx).Errorf("Cannot get redemption: %v", err)
		return nil, errorx.Unknown
	}

	err = d.redemptionRepo.UpdateFromPending(ctx, req.ID, &entity.Redemption{
		Status:     entity.RedemptionCancelled,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "Redemption was already resolved")
		}

		xcontext.Logger(ctx).Errorf("Cannot cancel redemption: %v", err)
		return nil, errorx.Unknown
	}

	err = d.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   redemption.UserID,
		Amount:   redemption.PointCost,
		Type:     entity.TransactionRefund,
		Reason:   "Redemption cancelled",
		Metadata: entity.Map{"redemption_id": redemption.ID},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create refund transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.leaderboard.ChangePointLeaderboard(ctx, redemption.PointCost, redemption.UserID)

	return &model.CancelRedemptionResponse{Refunded: redemption.PointCost}, nil
}

func (d *rewardDomain) Create(
	ctx context.Context, req *model.CreateRewardRequest,
) (*model.CreateRewardResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a title")
	}

	if req.PointCost <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive point cost")
	}

	if req.Quantity != nil && *req.Quantity <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive quantity")
	}

	reward := &entity.Reward{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PointCost:   req.PointCost,
		IsActive:    true,
	}

	if req.Quantity != nil {
		reward.Quantity = sql.NullInt64{Int64: *req.Quantity, Valid: true}
	}

	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(model.DefaultTimeLayout, req.ExpiresAt)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid expires at")
		}

		reward.ExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	}

	if err := d.rewardRepo.Create(ctx, reward); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateRewardResponse{ID: reward.ID}, nil
}

func (d *rewardDomain) Update(
	ctx context.Context, req *model.UpdateRewardRequest,
) (*model.UpdateRewardResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.rewardRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	updates := map[string]any{}
	if req.Title != "" {
		updates["title"] = req.Title
	}

	if req.Description != "" {
		updates["description"] = req.Description
	}

	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}

	if req.PointCost > 0 {
		updates["point_cost"] = req.PointCost
	}

	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(model.DefaultTimeLayout, req.ExpiresAt)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid expires at")
		}

		updates["expires_at"] = expiresAt
	}

	if len(updates) == 0 {
		return &model.UpdateRewardResponse{}, nil
	}

	if err := d.rewardRepo.UpdateByID(ctx, req.ID, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateRewardResponse{}, nil
}

func (d *rewardDomain) Delete(
	ctx context.Context, req *model.DeleteRewardRequest,
) (*model.DeleteRewardResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.rewardRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.rewardRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteRewardResponse{}, nil
}

func (d *rewardDomain) convertRedemptions(
	ctx context.Context, redemptions []entity.Redemption,
) ([]model.Redemption, error) {
	clientRedemptions := []model.Redemption{}
	for _, r := range redemptions {
		reward, err := d.rewardRepo.GetByID(ctx, r.RewardID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
			return nil, errorx.Unknown
		}

		clientRedemptions = append(clientRedemptions, model.ConvertRedemption(&r, reward))
	}

	return clientRedemptions, nil
}
