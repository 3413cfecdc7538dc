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
	"github.com/stridehq/backend/pkg/enum"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MilestoneDomain interface {
	GetMilestones(context.Context, *model.GetMilestonesRequest) (*model.GetMilestonesResponse, error)
	GetMyMilestones(context.Context, *model.GetMyMilestonesRequest) (*model.GetMyMilestonesResponse, error)
	Claim(context.Context, *model.ClaimMilestoneRequest) (*model.ClaimMilestoneResponse, error)
	Submit(context.Context, *model.SubmitMilestoneRequest) (*model.SubmitMilestoneResponse, error)
	GetPending(context.Context, *model.GetPendingMilestonesRequest) (*model.GetPendingMilestonesResponse, error)
	Approve(context.Context, *model.ApproveMilestoneRequest) (*model.ApproveMilestoneResponse, error)
	Reject(context.Context, *model.RejectMilestoneRequest) (*model.RejectMilestoneResponse, error)
	Create(context.Context, *model.CreateMilestoneRequest) (*model.CreateMilestoneResponse, error)
	Update(context.Context, *model.UpdateMilestoneRequest) (*model.UpdateMilestoneResponse, error)
	Delete(context.Context, *model.DeleteMilestoneRequest) (*model.DeleteMilestoneResponse, error)
}

type milestoneDomain struct {
	milestoneRepo        repository.MilestoneRepository
	userMilestoneRepo    repository.UserMilestoneRepository
	streakRepo           repository.StreakRepository
	pointTransactionRepo repository.PointTransactionRepository
	activityRepo         repository.ActivityRepository
	leaderboard          statistic.Leaderboard
	roleVerifier         *common.GlobalRoleVerifier
}

func NewMilestoneDomain(
	milestoneRepo repository.MilestoneRepository,
	userMilestoneRepo repository.UserMilestoneRepository,
	streakRepo repository.StreakRepository,
	pointTransactionRepo repository.PointTransactionRepository,
	activityRepo repository.ActivityRepository,
	leaderboard statistic.Leaderboard,
	roleVerifier *common.GlobalRoleVerifier,
) *milestoneDomain {
	return &milestoneDomain{
		milestoneRepo:        milestoneRepo,
		userMilestoneRepo:    userMilestoneRepo,
		streakRepo:           streakRepo,
		pointTransactionRepo: pointTransactionRepo,
		activityRepo:         activityRepo,
		leaderboard:          leaderboard,
		roleVerifier:         roleVerifier,
	}
}

func (d *milestoneDomain) GetMilestones(
	ctx context.Context, req *model.GetMilestonesRequest,
) (*model.GetMilestonesResponse, error) {
	filter := repository.MilestoneFilter{ActiveOnly: true}
	if req.IncludeInactive {
		if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		filter.ActiveOnly = false
	}

	milestones, err := d.milestoneRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get milestones: %v", err)
		return nil, errorx.Unknown
	}

	clientMilestones := []model.Milestone{}
	for _, m := range milestones {
		clientMilestones = append(clientMilestones, model.ConvertMilestone(&m))
	}

	return &model.GetMilestonesResponse{Milestones: clientMilestones}, nil
}

func (d *milestoneDomain) GetMyMilestones(
	ctx context.Context, req *model.GetMyMilestonesRequest,
) (*model.GetMyMilestonesResponse, error) {
	userMilestones, err := d.userMilestoneRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user milestones: %v", err)
		return nil, errorx.Unknown
	}

	clientUserMilestones := []model.UserMilestone{}
	for _, um := range userMilestones {
		milestone, err := d.milestoneRepo.GetByID(ctx, um.MilestoneID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get milestone: %v", err)
			return nil, errorx.Unknown
		}

		clientUserMilestones = append(clientUserMilestones, model.ConvertUserMilestone(&um, milestone))
	}

	return &model.GetMyMilestonesResponse{UserMilestones: clientUserMilestones}, nil
}

// Claim completes a streak milestone. The gate compares against the user's
// best streak ever, so a broken streak cannot take an earned milestone away.
func (d *milestoneDomain) Claim(
	ctx context.Context, req *model.ClaimMilestoneRequest,
) (*model.ClaimMilestoneResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	milestone, err := d.milestoneRepo.GetByID(ctx, req.MilestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found milestone")
		}

		xcontext.Logger(ctx).Errorf("Cannot get milestone: %v", err)
		return nil, errorx.Unknown
	}

	if !milestone.IsActive {
		return nil, errorx.New(errorx.Unavailable, "Milestone is inactive")
	}

	if milestone.Type != entity.MilestoneCheckinStreak {
		return nil, errorx.New(errorx.BadRequest, "This milestone requires a proof submission")
	}

	best := 0
	streak, err := d.streakRepo.Get(ctx, userID, entity.StreakCheckin)
	if err == nil {
		best = streak.LongestCount
		if streak.CurrentCount > best {
			best = streak.CurrentCount
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get streak: %v", err)
		return nil, errorx.Unknown
	}

	if best < milestone.RequirementValue {
		return nil, errorx.New(errorx.Unavailable,
			"Require a streak of %d days", milestone.RequirementValue)
	}

	userMilestone := &entity.UserMilestone{
		ID:          uuid.NewString(),
		UserID:      userID,
		MilestoneID: milestone.ID,
		CompletedAt: time.Now(),
		VerifiedBy:  sql.NullString{String: "system", Valid: true},
	}

	if err := d.userMilestoneRepo.Create(ctx, userMilestone); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Milestone already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user milestone: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.awardMilestone(ctx, userID, milestone); err != nil {
		return nil, err
	}

	return &model.ClaimMilestoneResponse{
		UserMilestone: model.ConvertUserMilestone(userMilestone, milestone),
		PointsEarned:  milestone.Points,
	}, nil
}

// Submit files a manual milestone claim for admin review. No points move
// until an admin approves it.
func (d *milestoneDomain) Submit(
	ctx context.Context, req *model.SubmitMilestoneRequest,
) (*model.SubmitMilestoneResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.Notes == "" {
		return nil, errorx.New(errorx.BadRequest, "Require proof notes")
	}

	milestone, err := d.milestoneRepo.GetByID(ctx, req.MilestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found milestone")
		}

		xcontext.Logger(ctx).Errorf("Cannot get milestone: %v", err)
		return nil, errorx.Unknown
	}

	if !milestone.IsActive {
		return nil, errorx.New(errorx.Unavailable, "Milestone is inactive")
	}

	if milestone.Type != entity.MilestoneManual {
		return nil, errorx.New(errorx.BadRequest, "This milestone is claimed automatically")
	}

	userMilestone := &entity.UserMilestone{
		ID:          uuid.NewString(),
		UserID:      userID,
		MilestoneID: milestone.ID,
		Notes:       req.Notes,
		CompletedAt: time.Now(),
	}

	if err := d.userMilestoneRepo.Create(ctx, userMilestone); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Milestone already submitted or completed")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user milestone: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SubmitMilestoneResponse{
		UserMilestone: model.ConvertUserMilestone(userMilestone, milestone),
	}, nil
}

func (d *milestoneDomain) GetPending(
	ctx context.Context, req *model.GetPendingMilestonesRequest,
) (*model.GetPendingMilestonesResponse, error) {
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

	userMilestones, err := d.userMilestoneRepo.GetPendingList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending milestones: %v", err)
		return nil, errorx.Unknown
	}

	clientUserMilestones := []model.UserMilestone{}
	for _, um := range userMilestones {
		milestone, err := d.milestoneRepo.GetByID(ctx, um.MilestoneID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get milestone: %v", err)
			return nil, errorx.Unknown
		}

		clientUserMilestones = append(clientUserMilestones, model.ConvertUserMilestone(&um, milestone))
	}

	return &model.GetPendingMilestonesResponse{UserMilestones: clientUserMilestones}, nil
}

// Approve stamps the reviewer on a pending claim and awards the points. The
// stamp is a guarded update, a claim reviewed twice awards only once.
func (d *milestoneDomain) Approve(
	ctx context.Context, req *model.ApproveMilestoneRequest,
) (*model.ApproveMilestoneResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	userMilestone, err := d.userMilestoneRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found milestone claim")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user milestone: %v", err)
		return nil, errorx.Unknown
	}

	milestone, err := d.milestoneRepo.GetByID(ctx, userMilestone.MilestoneID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get milestone: %v", err)
		return nil, errorx.Unknown
	}

	err = d.userMilestoneRepo.SetVerified(ctx, req.ID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "Claim was already reviewed")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify user milestone: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.awardMilestone(ctx, userMilestone.UserID, milestone); err != nil {
		return nil, err
	}

	return &model.ApproveMilestoneResponse{PointsAwarded: milestone.Points}, nil
}

// Reject removes a pending claim entirely so the user can submit again.
func (d *milestoneDomain) Reject(
	ctx context.Context, req *model.RejectMilestoneRequest,
) (*model.RejectMilestoneResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	err := d.userMilestoneRepo.DeletePending(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pending claim")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete user milestone: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RejectMilestoneResponse{}, nil
}

func (d *milestoneDomain) Create(
	ctx context.Context, req *model.CreateMilestoneRequest,
) (*model.CreateMilestoneResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a title")
	}

	if req.Points < 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a non-negative points value")
	}

	milestoneType, err := enum.ToEnum[entity.MilestoneType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid milestone type %s", req.Type)
	}

	if milestoneType == entity.MilestoneCheckinStreak && req.RequirementValue <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive requirement value")
	}

	milestone := &entity.Milestone{
		Base:             entity.Base{ID: uuid.NewString()},
		Title:            req.Title,
		Description:      req.Description,
		Points:           req.Points,
		Type:             milestoneType,
		RequirementValue: req.RequirementValue,
		Icon:             req.Icon,
		IsActive:         true,
		SortOrder:        req.SortOrder,
	}

	if err := d.milestoneRepo.Create(ctx, milestone); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create milestone: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateMilestoneResponse{ID: milestone.ID}, nil
}

func (d *milestoneDomain) Update(
	ctx context.Context, req *model.UpdateMilestoneRequest,
) (*model.UpdateMilestoneResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.milestoneRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found milestone")
		}

		xcontext.Logger(ctx).Errorf("Cannot get milestone: %v", err)
		return nil, errorx.Unknown
	}

	updates := map[string]any{}
	if req.Title != "" {
		updates["title"] = req.Title
	}

	if req.Description != "" {
		updates["description"] = req.Description
	}

	if req.Points > 0 {
		updates["points"] = req.Points
	}

	if req.RequirementValue > 0 {
		updates["requirement_value"] = req.RequirementValue
	}

	if req.Icon != "" {
		updates["icon"] = req.Icon
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.SortOrder != 0 {
		updates["sort_order"] = req.SortOrder
	}

	if len(updates) == 0 {
		return &model.UpdateMilestoneResponse{}, nil
	}

	if err := d.milestoneRepo.UpdateByID(ctx, req.ID, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update milestone: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateMilestoneResponse{}, nil
}

func (d *milestoneDomain) Delete(
	ctx context.Context, req *model.DeleteMilestoneRequest,
) (*model.DeleteMilestoneResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.milestoneRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found milestone")
		}

		xcontext.Logger(ctx).Errorf("Cannot get milestone: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.milestoneRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete milestone: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteMilestoneResponse{}, nil
}

func (d *milestoneDomain) awardMilestone(
	ctx context.Context, userID string, milestone *entity.Milestone,
) error {
	err := d.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		Amount:   milestone.Points,
		Type:     entity.TransactionMilestone,
		Reason:   milestone.Title,
		Metadata: entity.Map{"milestone_id": milestone.ID},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create milestone transaction: %v", err)
		return errorx.Unknown
	}

	err = d.activityRepo.Create(ctx, &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		Type:         entity.ActivityMilestone,
		Title:        milestone.Title,
		Description:  milestone.Description,
		PointsEarned: milestone.Points,
		Metadata:     entity.Map{"milestone_id": milestone.ID},
		IsPublic:     true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create milestone activity: %v", err)
	}

	d.leaderboard.ChangePointLeaderboard(ctx, milestone.Points, userID)
	return nil
}
