package domain

import (
	"context"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
)

type ActivityDomain interface {
	GetFeed(context.Context, *model.GetActivityFeedRequest) (*model.GetActivityFeedResponse, error)
}

type activityDomain struct {
	activityRepo repository.ActivityRepository
}

func NewActivityDomain(activityRepo repository.ActivityRepository) *activityDomain {
	return &activityDomain{activityRepo: activityRepo}
}

// GetFeed returns the public activity feed, or one user's own full history
// when they ask for themselves.
func (d *activityDomain) GetFeed(
	ctx context.Context, req *model.GetActivityFeedRequest,
) (*model.GetActivityFeedResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	if req.UserID != "" && req.UserID == xcontext.RequestUserID(ctx) {
		list, err := d.activityRepo.GetListByUserID(ctx, req.UserID, req.Offset, req.Limit)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get activities: %v", err)
			return nil, errorx.Unknown
		}

		return &model.GetActivityFeedResponse{Activities: convertActivities(list)}, nil
	}

	list, err := d.activityRepo.GetPublicList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get activities: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetActivityFeedResponse{Activities: convertActivities(list)}, nil
}

func convertActivities(activities []entity.Activity) []model.Activity {
	clientActivities := []model.Activity{}
	for _, a := range activities {
		clientActivities = append(clientActivities, model.ConvertActivity(&a))
	}

	return clientActivities
}
