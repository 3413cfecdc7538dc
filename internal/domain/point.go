package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/stridehq/backend/internal/common"
	"github.com/stridehq/backend/internal/domain/statistic"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
)

type PointDomain interface {
	GetBalance(context.Context, *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
	GetPointHistory(context.Context, *model.GetPointHistoryRequest) (*model.GetPointHistoryResponse, error)
	GrantPoints(context.Context, *model.GrantPointsRequest) (*model.GrantPointsResponse, error)
}

type pointDomain struct {
	pointTransactionRepo repository.PointTransactionRepository
	userRepo             repository.UserRepository
	leaderboard          statistic.Leaderboard
	roleVerifier         *common.GlobalRoleVerifier
}

func NewPointDomain(
	pointTransactionRepo repository.PointTransactionRepository,
	userRepo repository.UserRepository,
	leaderboard statistic.Leaderboard,
	roleVerifier *common.GlobalRoleVerifier,
) *pointDomain {
	return &pointDomain{
		pointTransactionRepo: pointTransactionRepo,
		userRepo:             userRepo,
		leaderboard:          leaderboard,
		roleVerifier:         roleVerifier,
	}
}

func (d *pointDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	balance, err := d.pointTransactionRepo.Balance(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum balance: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBalanceResponse{Balance: balance}, nil
}

func (d *pointDomain) GetPointHistory(
	ctx context.Context, req *model.GetPointHistoryRequest,
) (*model.GetPointHistoryResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	transactions, err := d.pointTransactionRepo.GetListByUserID(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point history: %v", err)
		return nil, errorx.Unknown
	}

	clientTransactions := []model.PointTransaction{}
	for _, tx := range transactions {
		clientTransactions = append(clientTransactions, model.ConvertPointTransaction(&tx))
	}

	return &model.GetPointHistoryResponse{Transactions: clientTransactions}, nil
}

// GrantPoints appends an admin adjustment to the ledger. The amount may be
// negative to correct a mistaken grant.
func (d *pointDomain) GrantPoints(
	ctx context.Context, req *model.GrantPointsRequest,
) (*model.GrantPointsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a non-zero amount")
	}

	if req.Reason == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a reason")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get user: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found user")
	}

	err := d.pointTransactionRepo.Create(ctx, &entity.PointTransaction{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   req.UserID,
		Amount:   req.Amount,
		Type:     entity.TransactionAdminGrant,
		Reason:   req.Reason,
		Metadata: entity.Map{"granted_by": xcontext.RequestUserID(ctx)},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create grant transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.leaderboard.ChangePointLeaderboard(ctx, req.Amount, req.UserID)

	balance, err := d.pointTransactionRepo.Balance(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum balance: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GrantPointsResponse{Balance: balance}, nil
}
