package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/testutil"
	"github.com/stridehq/backend/pkg/xcontext"
)

func newTestMilestoneDomain() *milestoneDomain {
	pointTransactionRepo := repository.NewPointTransactionRepository()
	streakRepo := repository.NewStreakRepository()
	return NewMilestoneDomain(
		repository.NewMilestoneRepository(),
		repository.NewUserMilestoneRepository(),
		streakRepo,
		pointTransactionRepo,
		repository.NewActivityRepository(),
		statistic.New(pointTransactionRepo, streakRepo, &testutil.MockRedisClient{}),
		common.NewGlobalRoleVerifier(repository.NewUserRepository()),
	)
}

func Test_milestoneDomain_Claim_StreakGate(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	milestone, err := testutil.SampleMilestone(ctx, &entity.Milestone{
		Type:             entity.MilestoneCheckinStreak,
		RequirementValue: 7,
		Points:           100,
	})
	require.NoError(t, err)

	domain := newTestMilestoneDomain()

	// No streak yet, the gate rejects.
	_, err = domain.Claim(ctx, &model.ClaimMilestoneRequest{MilestoneID: milestone.ID})
	require.Error(t, err)
	require.Equal(t, "Require a streak of 7 days", err.Error())

	// A past streak counts even if the current one is broken.
	err = repository.NewStreakRepository().Upsert(ctx, &entity.Streak{
		UserID:       user.ID,
		Type:         entity.StreakCheckin,
		CurrentCount: 2,
		LongestCount: 9,
	})
	require.NoError(t, err)

	resp, err := domain.Claim(ctx, &model.ClaimMilestoneRequest{MilestoneID: milestone.ID})
	require.NoError(t, err)
	require.Equal(t, int64(100), resp.PointsEarned)

	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), balance)
}

func Test_milestoneDomain_Claim_Twice(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	milestone, err := testutil.SampleMilestone(ctx, &entity.Milestone{
		Type:             entity.MilestoneCheckinStreak,
		RequirementValue: 1,
		Points:           50,
	})
	require.NoError(t, err)

	err = repository.NewStreakRepository().Upsert(ctx, &entity.Streak{
		UserID:       user.ID,
		Type:         entity.StreakCheckin,
		CurrentCount: 1,
		LongestCount: 1,
	})
	require.NoError(t, err)

	domain := newTestMilestoneDomain()
	_, err = domain.Claim(ctx, &model.ClaimMilestoneRequest{MilestoneID: milestone.ID})
	require.NoError(t, err)

	_, err = domain.Claim(ctx, &model.ClaimMilestoneRequest{MilestoneID: milestone.ID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	// Only the first claim moved points.
	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), balance)
}

func Test_milestoneDomain_SubmitApprove(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)

	milestone, err := testutil.SampleMilestone(ctx, &entity.Milestone{Points: 200})
	require.NoError(t, err)

	domain := newTestMilestoneDomain()

	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	submitResp, err := domain.Submit(userCtx, &model.SubmitMilestoneRequest{
		MilestoneID: milestone.ID,
		Notes:       "proof link",
	})
	require.NoError(t, err)
	require.Empty(t, submitResp.UserMilestone.VerifiedBy)

	// No points before review.
	balance, err := repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	adminCtx := xcontext.WithRequestUserID(ctx, admin.ID)
	pending, err := domain.GetPending(adminCtx, &model.GetPendingMilestonesRequest{})
	require.NoError(t, err)
	require.Len(t, pending.UserMilestones, 1)

	approveResp, err := domain.Approve(adminCtx, &model.ApproveMilestoneRequest{
		ID: submitResp.UserMilestone.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(200), approveResp.PointsAwarded)

	balance, err = repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(200), balance)

	// A second approval is rejected and awards nothing more.
	_, err = domain.Approve(adminCtx, &model.ApproveMilestoneRequest{
		ID: submitResp.UserMilestone.ID,
	})
	require.Error(t, err)

	balance, err = repository.NewPointTransactionRepository().Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(200), balance)
}

func Test_milestoneDomain_RejectAllowsResubmit(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)

	milestone, err := testutil.SampleMilestone(ctx, nil)
	require.NoError(t, err)

	domain := newTestMilestoneDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	submitResp, err := domain.Submit(userCtx, &model.SubmitMilestoneRequest{
		MilestoneID: milestone.ID,
		Notes:       "first try",
	})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, admin.ID)
	_, err = domain.Reject(adminCtx, &model.RejectMilestoneRequest{ID: submitResp.UserMilestone.ID})
	require.NoError(t, err)

	// The pair is free again.
	_, err = domain.Submit(userCtx, &model.SubmitMilestoneRequest{
		MilestoneID: milestone.ID,
		Notes:       "second try",
	})
	require.NoError(t, err)

	// An approved claim cannot be rejected.
	pending, err := repository.NewUserMilestoneRepository().Get(ctx, user.ID, milestone.ID)
	require.NoError(t, err)
	require.NoError(t, repository.NewUserMilestoneRepository().SetVerified(ctx, pending.ID, admin.ID))

	_, err = domain.Reject(adminCtx, &model.RejectMilestoneRequest{ID: pending.ID})
	require.Error(t, err)
}

func Test_milestoneDomain_Submit_RequiresProof(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	milestone, err := testutil.SampleMilestone(ctx, nil)
	require.NoError(t, err)

	domain := newTestMilestoneDomain()
	_, err = domain.Submit(ctx, &model.SubmitMilestoneRequest{MilestoneID: milestone.ID})
	require.Error(t, err)
	require.Equal(t, "Require proof notes", err.Error())
}

func Test_milestoneDomain_AdminCrud(t *testing.T) {
	ctx := testutil.MockContext()
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.RoleAdmin})
	require.NoError(t, err)
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestMilestoneDomain()
	adminCtx := xcontext.WithRequestUserID(ctx, admin.ID)

	createResp, err := domain.Create(adminCtx, &model.CreateMilestoneRequest{
		Title:            "First Week",
		Type:             "checkin_streak",
		RequirementValue: 7,
		Points:           100,
	})
	require.NoError(t, err)
	require.NotEmpty(t, createResp.ID)

	inactive := false
	_, err = domain.Update(adminCtx, &model.UpdateMilestoneRequest{
		ID:       createResp.ID,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	got, err := repository.NewMilestoneRepository().GetByID(ctx, createResp.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	// A plain user cannot touch the catalog.
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	_, err = domain.Delete(userCtx, &model.DeleteMilestoneRequest{ID: createResp.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = domain.Delete(adminCtx, &model.DeleteMilestoneRequest{ID: createResp.ID})
	require.NoError(t, err)
}
