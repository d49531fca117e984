package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories/mocks"
)

type fakeGateway struct {
	amount   int64
	currency string
	metadata map[string]string
	err      error
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, amountInCents int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amount, g.currency, g.metadata = amountInCents, currency, metadata
	return &PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret", Status: "requires_payment_method"}, nil
}

type paymentFixture struct {
	rentals *mocks.RentalRepository
	users   *mocks.UserRepository
	gateway *fakeGateway
	service *PaymentService
	renter  *models.User
	rental  *models.Rental
}

func newPaymentFixture(status models.RentalStatus, rate float64) *paymentFixture {
	f := &paymentFixture{
		rentals: new(mocks.RentalRepository),
		users:   new(mocks.UserRepository),
		gateway: &fakeGateway{},
		renter:  newUser(4, "renter@example.com", false),
	}
	f.rental = &models.Rental{
		BaseModel: models.BaseModel{ID: 9, UUID: uuid.New()},
		UserID:    f.renter.ID,
		Status:    status,
		Artwork:   &models.Artwork{BaseModel: models.BaseModel{UUID: uuid.New()}, MonthlyRate: rate},
	}
	f.rentals.On("FindByUUID", mock.Anything, f.rental.UUID).Return(f.rental, nil).Maybe()
	f.users.On("FindByUUID", mock.Anything, f.renter.UUID).Return(f.renter, nil).Maybe()
	f.service = NewPaymentService(f.rentals, f.users, f.gateway, &config.Config{Payment: config.PaymentConfig{Currency: "eur"}})
	return f
}

func TestCreateRentalPaymentIntent(t *testing.T) {
	f := newPaymentFixture(models.RentalStatusApproved, 149.99)
	f.rentals.On("Update", mock.Anything, f.rental.UUID, map[string]interface{}{"payment_reference": "pi_123"}).
		Return(f.rental, nil).Once()

	resp, err := f.service.CreateRentalPaymentIntent(context.Background(), f.rental.UUID, f.renter.UUID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", resp.ClientSecret)
	assert.Equal(t, 149.99, resp.Amount)
	assert.Equal(t, "eur", resp.Currency)
	assert.Equal(t, int64(14999), f.gateway.amount)
	assert.Equal(t, f.rental.UUID.String(), f.gateway.metadata["rental_uuid"])
	f.rentals.AssertExpectations(t)
}

func TestCreateRentalPaymentIntentGuards(t *testing.T) {
	ctx := context.Background()

	f := newPaymentFixture(models.RentalStatusRequested, 100)
	_, err := f.service.CreateRentalPaymentIntent(ctx, f.rental.UUID, f.renter.UUID)
	assert.Equal(t, KindBadRequest, KindOf(err))

	f = newPaymentFixture(models.RentalStatusApproved, 0)
	_, err = f.service.CreateRentalPaymentIntent(ctx, f.rental.UUID, f.renter.UUID)
	assert.Equal(t, KindBadRequest, KindOf(err))

	f = newPaymentFixture(models.RentalStatusApproved, 100)
	stranger := newUser(5, "stranger@example.com", false)
	f.users.On("FindByUUID", mock.Anything, stranger.UUID).Return(stranger, nil)
	_, err = f.service.CreateRentalPaymentIntent(ctx, f.rental.UUID, stranger.UUID)
	assert.Equal(t, KindForbidden, KindOf(err))

	f.gateway.err = errors.New("card_declined")
	_, err = f.service.CreateRentalPaymentIntent(ctx, f.rental.UUID, f.renter.UUID)
	assert.Equal(t, KindInternal, KindOf(err))

	f.service.gateway = nil
	_, err = f.service.CreateRentalPaymentIntent(ctx, f.rental.UUID, f.renter.UUID)
	assert.Equal(t, KindInternal, KindOf(err))
}
