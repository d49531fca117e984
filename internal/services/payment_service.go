// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
)

// PaymentGateway creates payment intents with an external processor.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountInCents int64, currency string, metadata map[string]string) (*PaymentIntent, error)
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	// Initialize Stripe
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountInCents int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

type PaymentService struct {
	rentals  repositories.RentalRepository
	users    repositories.UserRepository
	gateway  PaymentGateway
	currency string
}

type PaymentIntentResponse struct {
	ClientSecret string  `json:"client_secret"`
	PaymentID    string  `json:"payment_id"`
	Status       string  `json:"status"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

func NewPaymentService(rentals repositories.RentalRepository, users repositories.UserRepository, gateway PaymentGateway, cfg *config.Config) *PaymentService {
	currency := cfg.Payment.Currency
	if currency == "" {
		currency = "usd"
	}

	return &PaymentService{
		rentals:  rentals,
		users:    users,
		gateway:  gateway,
		currency: currency,
	}
}

// CreateRentalPaymentIntent charges one month of the artwork's rate for an
// approved rental owned by userID.
func (s *PaymentService) CreateRentalPaymentIntent(ctx context.Context, rentalID, userID uuid.UUID) (*PaymentIntentResponse, error) {
	rental, err := s.rentals.FindByUUID(ctx, rentalID)
	if err != nil {
		return nil, lookupError(err, errRentalNotFound())
	}

	user, err := s.users.FindByUUID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, NotFound("user not found").WithKey(i18n.KeyUserNotFound))
	}

	if rental.UserID != user.ID {
		return nil, Forbidden("rental belongs to another user").WithKey(i18n.KeyRentalNotOwnedByCaller)
	}

	if rental.Status != models.RentalStatusApproved {
		return nil, BadRequest("only approved rentals can be paid").WithKey(i18n.KeyRentalPaymentNotAllowed)
	}

	if rental.Artwork == nil || rental.Artwork.MonthlyRate <= 0 {
		return nil, BadRequest("artwork has no rental rate").WithKey(i18n.KeyRentalNoRate)
	}

	if s.gateway == nil {
		return nil, Internal("payments are not configured", errors.New("no payment gateway"))
	}

	amountInCents := int64(math.Round(rental.Artwork.MonthlyRate * 100))
	intent, err := s.gateway.CreatePaymentIntent(ctx, amountInCents, s.currency, map[string]string{
		"rental_uuid":  rental.UUID.String(),
		"artwork_uuid": rental.Artwork.UUID.String(),
		"user_uuid":    user.UUID.String(),
	})
	if err != nil {
		return nil, Internal("failed to create payment intent", err)
	}

	if _, err := s.rentals.Update(ctx, rental.UUID, map[string]interface{}{
		"payment_reference": intent.ID,
	}); err != nil {
		return nil, Internal("failed to record payment reference", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		PaymentID:    intent.ID,
		Status:       intent.Status,
		Amount:       float64(amountInCents) / 100,
		Currency:     s.currency,
	}, nil
}
