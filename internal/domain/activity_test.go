package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/testutil"
	"github.com/stridehq/backend/pkg/xcontext"
)

func Test_activityDomain_GetFeed(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	viewer, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	activityRepo := repository.NewActivityRepository()
	require.NoError(t, activityRepo.Create(ctx, &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       user.ID,
		Type:         entity.ActivityCheckin,
		Title:        "Checked in",
		PointsEarned: 10,
		IsPublic:     true,
	}))
	require.NoError(t, activityRepo.Create(ctx, &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       user.ID,
		Type:         entity.ActivityRedemption,
		Title:        "Coffee voucher",
		PointsEarned: -50,
		IsPublic:     false,
	}))

	domain := NewActivityDomain(activityRepo)

	// Other users only see the public entries.
	viewerCtx := xcontext.WithRequestUserID(ctx, viewer.ID)
	resp, err := domain.GetFeed(viewerCtx, &model.GetActivityFeedRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)
	require.Equal(t, "Checked in", resp.Activities[0].Title)

	// Asking for another user's history still falls back to the public feed.
	resp, err = domain.GetFeed(viewerCtx, &model.GetActivityFeedRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)

	// The owner sees their full history, redemptions included.
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)
	resp, err = domain.GetFeed(userCtx, &model.GetActivityFeedRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 2)
}

func Test_activityDomain_GetFeed_LimitClamp(t *testing.T) {
	ctx := testutil.MockContext()
	domain := NewActivityDomain(repository.NewActivityRepository())

	_, err := domain.GetFeed(ctx, &model.GetActivityFeedRequest{Limit: 51})
	require.Error(t, err)
	require.Equal(t, "Exceed the maximum of limit", err.Error())

	resp, err := domain.GetFeed(ctx, &model.GetActivityFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Activities)
}
