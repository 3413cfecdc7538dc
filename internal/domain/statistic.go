package domain

import (
	"context"

	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderBoard(context.Context, *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)
	GetMyRank(context.Context, *model.GetMyRankRequest) (*model.GetMyRankResponse, error)
}

type statisticDomain struct {
	leaderboard statistic.Leaderboard
	userRepo    repository.UserRepository
}

func NewStatisticDomain(
	leaderboard statistic.Leaderboard,
	userRepo repository.UserRepository,
) *statisticDomain {
	return &statisticDomain{leaderboard: leaderboard, userRepo: userRepo}
}

func (d *statisticDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	if req.OrderedBy == "" {
		req.OrderedBy = "point"
	}

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	board, err := d.leaderboard.GetLeaderBoard(ctx, req.OrderedBy, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	userIDs := []string{}
	for _, s := range board {
		userIDs = append(userIDs, s.User.ID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users of leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	usersByID := map[string]model.User{}
	for _, u := range users {
		user := u
		usersByID[u.ID] = model.ConvertUser(&user, false)
	}

	for i := range board {
		if user, ok := usersByID[board[i].User.ID]; ok {
			board[i].User = user
		}
	}

	return &model.GetLeaderBoardResponse{LeaderBoard: board}, nil
}

func (d *statisticDomain) GetMyRank(
	ctx context.Context, req *model.GetMyRankRequest,
) (*model.GetMyRankResponse, error) {
	if req.OrderedBy == "" {
		req.OrderedBy = "point"
	}

	rank, err := d.leaderboard.GetRank(ctx, req.OrderedBy, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &model.GetMyRankResponse{Rank: rank}, nil
}
