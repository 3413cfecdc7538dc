package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PartnershipDomain interface {
	Request(context.Context, *model.RequestPartnershipRequest) (*model.RequestPartnershipResponse, error)
	Accept(context.Context, *model.AcceptPartnershipRequest) (*model.AcceptPartnershipResponse, error)
	End(context.Context, *model.EndPartnershipRequest) (*model.EndPartnershipResponse, error)
	GetMyPartnerships(context.Context, *model.GetPartnershipsRequest) (*model.GetPartnershipsResponse, error)
}

type partnershipDomain struct {
	partnershipRepo repository.PartnershipRepository
	userRepo        repository.UserRepository
}

func NewPartnershipDomain(
	partnershipRepo repository.PartnershipRepository,
	userRepo repository.UserRepository,
) *partnershipDomain {
	return &partnershipDomain{partnershipRepo: partnershipRepo, userRepo: userRepo}
}

func (d *partnershipDomain) Request(
	ctx context.Context, req *model.RequestPartnershipRequest,
) (*model.RequestPartnershipResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.ReceiverID == userID {
		return nil, errorx.New(errorx.BadRequest, "Cannot partner with yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	// The uniqueness invariant is over the unordered pair, so the lookup
	// runs in both directions.
	_, err := d.partnershipRepo.GetActiveOrPendingByPair(ctx, userID, req.ReceiverID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Partnership already exists")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get partnership: %v", err)
		return nil, errorx.Unknown
	}

	partnership := &entity.Partnership{
		Base:       entity.Base{ID: uuid.NewString()},
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Status:     entity.PartnershipPending,
	}

	if err := d.partnershipRepo.Create(ctx, partnership); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create partnership: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RequestPartnershipResponse{
		Partnership: model.ConvertPartnership(partnership),
	}, nil
}

// Accept activates a pending partnership. Only the receiver can accept.
func (d *partnershipDomain) Accept(
	ctx context.Context, req *model.AcceptPartnershipRequest,
) (*model.AcceptPartnershipResponse, error) {
	partnership, err := d.partnershipRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found partnership")
		}

		xcontext.Logger(ctx).Errorf("Cannot get partnership: %v", err)
		return nil, errorx.Unknown
	}

	if partnership.ReceiverID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the receiver can accept")
	}

	err = d.partnershipRepo.UpdateStatusFrom(
		ctx, req.ID, entity.PartnershipActive, entity.PartnershipPending)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "Partnership is not pending")
		}

		xcontext.Logger(ctx).Errorf("Cannot accept partnership: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AcceptPartnershipResponse{}, nil
}

// End moves a pending or active partnership to ended. Either member can call
// it; on a pending request it works as the receiver declining or the sender
// withdrawing.
func (d *partnershipDomain) End(
	ctx context.Context, req *model.EndPartnershipRequest,
) (*model.EndPartnershipResponse, error) {
	partnership, err := d.partnershipRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found partnership")
		}

		xcontext.Logger(ctx).Errorf("Cannot get partnership: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if partnership.SenderID != userID && partnership.ReceiverID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Not a member of this partnership")
	}

	err = d.partnershipRepo.UpdateStatusFrom(
		ctx, req.ID, entity.PartnershipEnded,
		entity.PartnershipPending, entity.PartnershipActive)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Partnership already ended")
		}

		xcontext.Logger(ctx).Errorf("Cannot end partnership: %v", err)
		return nil, errorx.Unknown
	}

	return &model.EndPartnershipResponse{}, nil
}

func (d *partnershipDomain) GetMyPartnerships(
	ctx context.Context, req *model.GetPartnershipsRequest,
) (*model.GetPartnershipsResponse, error) {
	partnerships, err := d.partnershipRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get partnerships: %v", err)
		return nil, errorx.Unknown
	}

	clientPartnerships := []model.Partnership{}
	for _, p := range partnerships {
		clientPartnerships = append(clientPartnerships, model.ConvertPartnership(&p))
	}

	return &model.GetPartnershipsResponse{Partnerships: clientPartnerships}, nil
}
