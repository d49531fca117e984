// internal/services/rental_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/pkg/events"
)

type RentalService struct {
	rentals  repositories.RentalRepository
	artworks repositories.ArtworkRepository
	users    repositories.UserRepository
	bus      *events.Bus
	now      func() time.Time
}

type CreateRentalRequest struct {
	ArtworkUUID uuid.UUID `json:"artwork_uuid" validate:"required"`
	Address     string    `json:"address" validate:"required,min=5,max=500"`
	PhoneNumber string    `json:"phone_number" validate:"required,phone"`
}

type RentalSearchParams = repositories.RentalFilter

func NewRentalService(
	rentals repositories.RentalRepository,
	artworks repositories.ArtworkRepository,
	users repositories.UserRepository,
	bus *events.Bus,
) *RentalService {
	return &RentalService{
		rentals:  rentals,
		artworks: artworks,
		users:    users,
		bus:      bus,
		now:      time.Now,
	}
}

func errRentalNotFound() *AppError {
	return NotFound("rental not found").WithKey(i18n.KeyRentalNotFound)
}

func errArtworkUnavailable() *AppError {
	return Conflict("artwork is not available for rental").WithKey(i18n.KeyRentalUnavailable)
}

func errOnlyRequested(action string) *AppError {
	key := i18n.KeyRentalOnlyRequested
	if action == "rejected" {
		key = i18n.KeyRentalOnlyRequestedRej
	}
	return BadRequest("only requested rentals can be " + action).WithKey(key)
}

func errOnlyApproved() *AppError {
	return BadRequest("only approved rentals can be finalized").WithKey(i18n.KeyRentalOnlyApproved)
}

// CreateRentalRequest books artworkID for userID starting today for one month.
func (s *RentalService) CreateRentalRequest(ctx context.Context, artworkID, userID uuid.UUID, address, phoneNumber string) (*models.Rental, error) {
	address = strings.TrimSpace(address)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if address == "" || phoneNumber == "" {
		return nil, BadRequest("address and phone number are required").WithKey(i18n.KeyValidationFailed)
	}

	// Check requester
	user, err := s.users.FindByUUID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, NotFound("user not found").WithKey(i18n.KeyUserNotFound))
	}

	// Check artwork
	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return nil, lookupError(err, NotFound("artwork not found").WithKey(i18n.KeyArtworkNotFound))
	}

	start := startOfDay(s.now())
	rental := &models.Rental{
		ArtworkID:   artwork.ID,
		UserID:      user.ID,
		Address:     address,
		PhoneNumber: phoneNumber,
		StartDate:   start,
		EndDate:     models.RentalPeriodEnd(start),
		Status:      models.RentalStatusRequested,
	}

	// Availability check and insert are atomic in the repository
	if err := s.rentals.CreateIfAvailable(ctx, rental); err != nil {
		switch {
		case errors.Is(err, repositories.ErrArtworkUnavailable):
			return nil, errArtworkUnavailable()
		case errors.Is(err, repositories.ErrNotFound):
			return nil, NotFound("artwork not found").WithKey(i18n.KeyArtworkNotFound)
		}
		return nil, Internal("failed to create rental", err)
	}

	created, err := s.rentals.FindByUUID(ctx, rental.UUID)
	if err != nil {
		return nil, Internal("failed to load rental", err)
	}

	s.publish(ctx, EventRentalRequested, created)

	return created, nil
}

func (s *RentalService) ApproveRental(ctx context.Context, rentalID, approverID uuid.UUID) (*models.Rental, error) {
	rental, err := s.GetRentalByUUID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	// Check if already processed
	if rental.Status != models.RentalStatusRequested {
		return nil, errOnlyRequested("approved")
	}

	approver, err := s.findApprover(ctx, approverID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.transition(ctx, rentalID, models.RentalStatusRequested, map[string]interface{}{
		"status":      models.RentalStatusApproved,
		"approved_by": approver.ID,
		"approved_at": now,
	}, errOnlyRequested("approved"))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventRentalApproved, updated)

	return updated, nil
}

// RejectRental closes a requested rental. The rejecting admin is not recorded.
func (s *RentalService) RejectRental(ctx context.Context, rentalID, approverID uuid.UUID) (*models.Rental, error) {
	rental, err := s.GetRentalByUUID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if rental.Status != models.RentalStatusRequested {
		return nil, errOnlyRequested("rejected")
	}

	updated, err := s.transition(ctx, rentalID, models.RentalStatusRequested, map[string]interface{}{
		"status": models.RentalStatusRejected,
	}, errOnlyRequested("rejected"))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventRentalRejected, updated)

	return updated, nil
}

func (s *RentalService) FinalizeRental(ctx context.Context, rentalID, approverID uuid.UUID) (*models.Rental, error) {
	rental, err := s.GetRentalByUUID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if rental.Status != models.RentalStatusApproved {
		return nil, errOnlyApproved()
	}

	approver, err := s.findApprover(ctx, approverID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.transition(ctx, rentalID, models.RentalStatusApproved, map[string]interface{}{
		"status":       models.RentalStatusFinalized,
		"finalized_by": approver.ID,
		"finalized_at": now,
	}, errOnlyApproved())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventRentalFinalized, updated)

	return updated, nil
}

// CheckArtworkAvailability reports whether the artwork has no active rental.
func (s *RentalService) CheckArtworkAvailability(ctx context.Context, artworkID uuid.UUID) (bool, error) {
	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return false, lookupError(err, NotFound("artwork not found").WithKey(i18n.KeyArtworkNotFound))
	}

	available, err := s.rentals.IsArtworkAvailable(ctx, artwork.ID)
	if err != nil {
		return false, Internal("failed to check availability", err)
	}
	return available, nil
}

func (s *RentalService) GetRentalByUUID(ctx context.Context, rentalID uuid.UUID) (*models.Rental, error) {
	rental, err := s.rentals.FindByUUID(ctx, rentalID)
	if err != nil {
		return nil, lookupError(err, errRentalNotFound())
	}
	return rental, nil
}

// GetRentalForActor returns the rental when actor requested it or is an administrator.
func (s *RentalService) GetRentalForActor(ctx context.Context, rentalID uuid.UUID, actor Actor) (*models.Rental, error) {
	rental, err := s.GetRentalByUUID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin && (rental.User == nil || rental.User.UUID != actor.UserID) {
		return nil, Forbidden("rental belongs to another user").WithKey(i18n.KeyRentalNotOwnedByCaller)
	}
	return rental, nil
}

func (s *RentalService) GetUserRentals(ctx context.Context, userID uuid.UUID) ([]models.Rental, error) {
	user, err := s.users.FindByUUID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, NotFound("user not found").WithKey(i18n.KeyUserNotFound))
	}

	rentals, err := s.rentals.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, Internal("failed to load rentals", err)
	}
	return rentals, nil
}

func (s *RentalService) GetAllRentals(ctx context.Context, params RentalSearchParams) ([]models.Rental, int64, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, 0, BadRequest("unknown rental status").WithKey(i18n.KeyValidationFailed)
	}

	rentals, total, err := s.rentals.FindAll(ctx, params)
	if err != nil {
		return nil, 0, Internal("failed to load rentals", err)
	}
	return rentals, total, nil
}

func (s *RentalService) GetPendingRequests(ctx context.Context) ([]models.Rental, error) {
	rentals, err := s.rentals.FindPendingRequests(ctx)
	if err != nil {
		return nil, Internal("failed to load pending rentals", err)
	}
	return rentals, nil
}

func (s *RentalService) findApprover(ctx context.Context, approverID uuid.UUID) (*models.User, error) {
	approver, err := s.users.FindByUUID(ctx, approverID)
	if err != nil {
		return nil, lookupError(err, NotFound("approver not found").WithKey(i18n.KeyRentalApproverNotFound))
	}
	return approver, nil
}

// transition reports stale when another request moved the rental first.
func (s *RentalService) transition(ctx context.Context, rentalID uuid.UUID, from models.RentalStatus, fields map[string]interface{}, stale *AppError) (*models.Rental, error) {
	updated, err := s.rentals.Transition(ctx, rentalID, from, fields)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, repositories.ErrStaleTransition):
		return nil, stale
	case errors.Is(err, repositories.ErrNotFound):
		return nil, errRentalNotFound()
	}
	return nil, Internal("failed to update rental", err)
}

func (s *RentalService) publish(ctx context.Context, name string, rental *models.Rental) {
	if s.bus != nil {
		s.bus.Publish(ctx, events.Event{Name: name, Payload: rental})
	}
}

// lookupError maps a repository miss onto notFound and anything else onto Internal.
func lookupError(err error, notFound *AppError) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return Internal("database error", err)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
