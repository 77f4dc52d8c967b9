package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freightdesk/service-booking/internal/domain"
	offerDomain "github.com/freightdesk/service-booking/internal/domain/offer"
)

func newOfferService() (*OfferService, *fakeOfferRepo) {
	repo := newFakeOfferRepo()
	return NewOfferService(repo, nil, zap.NewNop()), repo
}

func validCreateOfferRequest() CreateOfferRequest {
	return CreateOfferRequest{
		OriginPort:      "Kolkata (INCCU)",
		DestinationPort: "Port Klang (MYPKG)",
		LoadType:        "LCL",
		Quantity:        4,
		Commodity:       "Machinery",
		RatePerUnit:     52000,
	}
}

func TestCreateOffer(t *testing.T) {
	svc, repo := newOfferService()

	dto, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)

	assert.Equal(t, string(offerDomain.OfferStatusOpen), dto.Status)
	assert.Equal(t, "providerX", dto.CreatedBy)
	assert.Equal(t, "USD", dto.Currency, "currency defaults to USD")
	assert.NotEmpty(t, dto.OfferNumber)
	assert.Len(t, repo.offers, 1)
}

func TestCreateOffer_Invalid(t *testing.T) {
	svc, _ := newOfferService()

	req := validCreateOfferRequest()
	req.Quantity = 0
	_, err := svc.CreateOffer(context.Background(), "providerX", req)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestAcceptOffer(t *testing.T) {
	svc, repo := newOfferService()
	dto, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)

	accepted, err := svc.AcceptOffer(context.Background(), dto.ID, "clientY", "Client Y Co")
	require.NoError(t, err)

	assert.Equal(t, string(offerDomain.OfferStatusAccepted), accepted.Status)
	assert.Equal(t, "clientY", accepted.AcceptedBy)

	stored, err := repo.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, offerDomain.OfferStatusAccepted, stored.Status())
	assert.Equal(t, int64(2), stored.Version())
}

func TestAcceptOffer_NotByCreator(t *testing.T) {
	svc, _ := newOfferService()
	dto, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)

	_, err = svc.AcceptOffer(context.Background(), dto.ID, "providerX", "Provider X")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestAcceptOffer_NotFound(t *testing.T) {
	svc, _ := newOfferService()
	_, err := svc.AcceptOffer(context.Background(), uuid.New(), "clientY", "Client Y Co")
	assert.True(t, domain.IsNotFound(err))
}

func TestWithdrawOffer(t *testing.T) {
	svc, _ := newOfferService()
	dto, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)

	withdrawn, err := svc.WithdrawOffer(context.Background(), dto.ID, "providerX")
	require.NoError(t, err)
	assert.Equal(t, string(offerDomain.OfferStatusWithdrawn), withdrawn.Status)
}

func TestWithdrawOffer_CreatorOnly(t *testing.T) {
	svc, _ := newOfferService()
	dto, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)

	_, err = svc.WithdrawOffer(context.Background(), dto.ID, "clientY")
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestListOpenOffers_ExcludesClosed(t *testing.T) {
	svc, _ := newOfferService()

	open, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)
	accepted, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)
	_, err = svc.AcceptOffer(context.Background(), accepted.ID, "clientY", "Client Y Co")
	require.NoError(t, err)

	result, err := svc.ListOpenOffers(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, open.ID, result.Items[0].ID)
	assert.Equal(t, int64(1), result.Total)
}

func TestGetProviderOffers(t *testing.T) {
	svc, _ := newOfferService()

	_, err := svc.CreateOffer(context.Background(), "providerX", validCreateOfferRequest())
	require.NoError(t, err)
	_, err = svc.CreateOffer(context.Background(), "providerZ", validCreateOfferRequest())
	require.NoError(t, err)

	result, err := svc.GetProviderOffers(context.Background(), "providerX", 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "providerX", result.Items[0].CreatedBy)
}
