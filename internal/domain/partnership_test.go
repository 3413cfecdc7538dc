package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stridehq/backend/internal/entity"
	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/internal/repository"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/testutil"
	"github.com/stridehq/backend/pkg/xcontext"
)

func newTestPartnershipDomain() *partnershipDomain {
	return NewPartnershipDomain(
		repository.NewPartnershipRepository(),
		repository.NewUserRepository(),
	)
}

func Test_partnershipDomain_RequestAcceptEnd(t *testing.T) {
	ctx := testutil.MockContext()
	sender, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	receiver, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestPartnershipDomain()
	senderCtx := xcontext.WithRequestUserID(ctx, sender.ID)
	receiverCtx := xcontext.WithRequestUserID(ctx, receiver.ID)

	resp, err := domain.Request(senderCtx, &model.RequestPartnershipRequest{
		ReceiverID: receiver.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Partnership.Status)

	// Only the receiver can accept.
	_, err = domain.Accept(senderCtx, &model.AcceptPartnershipRequest{ID: resp.Partnership.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = domain.Accept(receiverCtx, &model.AcceptPartnershipRequest{ID: resp.Partnership.ID})
	require.NoError(t, err)

	got, err := repository.NewPartnershipRepository().GetByID(ctx, resp.Partnership.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PartnershipActive, got.Status)

	// Either side can end an active partnership.
	_, err = domain.End(senderCtx, &model.EndPartnershipRequest{ID: resp.Partnership.ID})
	require.NoError(t, err)

	got, err = repository.NewPartnershipRepository().GetByID(ctx, resp.Partnership.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PartnershipEnded, got.Status)

	// Ended is terminal.
	_, err = domain.End(receiverCtx, &model.EndPartnershipRequest{ID: resp.Partnership.ID})
	require.Error(t, err)
	require.Equal(t, "Partnership already ended", err.Error())
}

func Test_partnershipDomain_End_DeclinesPendingRequest(t *testing.T) {
	ctx := testutil.MockContext()
	sender, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	receiver, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestPartnershipDomain()
	senderCtx := xcontext.WithRequestUserID(ctx, sender.ID)
	receiverCtx := xcontext.WithRequestUserID(ctx, receiver.ID)

	// The receiver declines a pending request by ending it.
	resp, err := domain.Request(senderCtx, &model.RequestPartnershipRequest{
		ReceiverID: receiver.ID,
	})
	require.NoError(t, err)
	_, err = domain.End(receiverCtx, &model.EndPartnershipRequest{ID: resp.Partnership.ID})
	require.NoError(t, err)

	got, err := repository.NewPartnershipRepository().GetByID(ctx, resp.Partnership.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PartnershipEnded, got.Status)

	// A declined request does not block the pair from trying again, and the
	// sender can withdraw their own pending request the same way.
	resp, err = domain.Request(senderCtx, &model.RequestPartnershipRequest{
		ReceiverID: receiver.ID,
	})
	require.NoError(t, err)
	_, err = domain.End(senderCtx, &model.EndPartnershipRequest{ID: resp.Partnership.ID})
	require.NoError(t, err)

	got, err = repository.NewPartnershipRepository().GetByID(ctx, resp.Partnership.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PartnershipEnded, got.Status)
}

func Test_partnershipDomain_Request_DuplicatePair(t *testing.T) {
	ctx := testutil.MockContext()
	user1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestPartnershipDomain()
	ctx1 := xcontext.WithRequestUserID(ctx, user1.ID)
	ctx2 := xcontext.WithRequestUserID(ctx, user2.ID)

	_, err = domain.Request(ctx1, &model.RequestPartnershipRequest{ReceiverID: user2.ID})
	require.NoError(t, err)

	// The pair is unordered, so the reverse direction is a duplicate too.
	_, err = domain.Request(ctx2, &model.RequestPartnershipRequest{ReceiverID: user1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)
}

func Test_partnershipDomain_Request_EndedPairCanRetry(t *testing.T) {
	ctx := testutil.MockContext()
	user1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestPartnershipDomain()
	ctx1 := xcontext.WithRequestUserID(ctx, user1.ID)
	ctx2 := xcontext.WithRequestUserID(ctx, user2.ID)

	resp, err := domain.Request(ctx1, &model.RequestPartnershipRequest{ReceiverID: user2.ID})
	require.NoError(t, err)
	_, err = domain.Accept(ctx2, &model.AcceptPartnershipRequest{ID: resp.Partnership.ID})
	require.NoError(t, err)
	_, err = domain.End(ctx1, &model.EndPartnershipRequest{ID: resp.Partnership.ID})
	require.NoError(t, err)

	// An ended partnership does not block a new request for the same pair.
	_, err = domain.Request(ctx2, &model.RequestPartnershipRequest{ReceiverID: user1.ID})
	require.NoError(t, err)
}

func Test_partnershipDomain_Request_Invalid(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestPartnershipDomain()
	userCtx := xcontext.WithRequestUserID(ctx, user.ID)

	_, err = domain.Request(userCtx, &model.RequestPartnershipRequest{ReceiverID: user.ID})
	require.Error(t, err)
	require.Equal(t, "Cannot partner with yourself", err.Error())

	_, err = domain.Request(userCtx, &model.RequestPartnershipRequest{ReceiverID: "no-such-user"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_partnershipDomain_GetMyPartnerships(t *testing.T) {
	ctx := testutil.MockContext()
	user1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	user3, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	domain := newTestPartnershipDomain()
	ctx1 := xcontext.WithRequestUserID(ctx, user1.ID)
	ctx3 := xcontext.WithRequestUserID(ctx, user3.ID)

	_, err = domain.Request(ctx1, &model.RequestPartnershipRequest{ReceiverID: user2.ID})
	require.NoError(t, err)
	_, err = domain.Request(ctx3, &model.RequestPartnershipRequest{ReceiverID: user1.ID})
	require.NoError(t, err)

	resp, err := domain.GetMyPartnerships(ctx1, &model.GetPartnershipsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Partnerships, 2)

	resp, err = domain.GetMyPartnerships(ctx3, &model.GetPartnershipsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Partnerships, 1)
}
