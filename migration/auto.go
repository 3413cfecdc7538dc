package migration

import (
	"context"

	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.PointTransaction{},
		&entity.Checkin{},
		&entity.Streak{},
		&entity.Milestone{},
		&entity.UserMilestone{},
		&entity.Reward{},
		&entity.Redemption{},
		&entity.Partnership{},
		&entity.Activity{},
	)
}
