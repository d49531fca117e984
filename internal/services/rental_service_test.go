package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/repositories/mocks"
	"github.com/javajoker/art-rental-backend/pkg/events"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name)
	}
	return names
}

func newUser(id uint, email string, admin bool) *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: id, UUID: uuid.New()},
		Email:     email,
		FirstName: email[:1],
		IsAdmin:   admin,
	}
}

type RentalServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	rentals  *memoryRentals
	users    *mocks.UserRepository
	artworks *mocks.ArtworkRepository
	recorder *eventRecorder
	bus      *events.Bus
	service  *RentalService

	admin   *models.User
	alice   *models.User
	bob     *models.User
	artwork *models.Artwork
}

func (s *RentalServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	s.rentals = newMemoryRentals()
	s.users = new(mocks.UserRepository)
	s.artworks = new(mocks.ArtworkRepository)
	s.recorder = &eventRecorder{}
	s.bus = events.NewSyncBus()
	for _, name := range []string{EventRentalRequested, EventRentalApproved, EventRentalRejected, EventRentalFinalized} {
		s.bus.Subscribe(name, s.recorder.handle)
	}

	s.admin = newUser(1, "admin@example.com", true)
	s.alice = newUser(2, "alice@example.com", false)
	s.bob = newUser(3, "bob@example.com", false)
	for _, u := range []*models.User{s.admin, s.alice, s.bob} {
		s.users.On("FindByUUID", mock.Anything, u.UUID).Return(u, nil).Maybe()
		s.rentals.addUser(u)
	}
	s.users.On("FindByUUID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound).Maybe()

	s.artwork = &models.Artwork{
		BaseModel: models.BaseModel{ID: 10, UUID: uuid.New()},
		Title:     "Water Lilies",
		Status:    models.ModerationStatusApproved,
		CreatedBy: s.bob.ID,
	}
	s.artworks.On("FindByUUID", mock.Anything, s.artwork.UUID).Return(s.artwork, nil).Maybe()
	s.artworks.On("FindByUUID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound).Maybe()
	s.rentals.addArtwork(s.artwork)

	s.service = NewRentalService(s.rentals, s.artworks, s.users, s.bus)
	s.service.now = func() time.Time { return s.now }
}

func (s *RentalServiceTestSuite) request(user *models.User) (*models.Rental, error) {
	return s.service.CreateRentalRequest(s.ctx, s.artwork.UUID, user.UUID, "123 Main St", "+15551234")
}

func (s *RentalServiceTestSuite) mustRequest(user *models.User) *models.Rental {
	rental, err := s.request(user)
	s.Require().NoError(err)
	return rental
}

func (s *RentalServiceTestSuite) TestCreateRentalRequestOnFreeArtwork() {
	available, err := s.service.CheckArtworkAvailability(s.ctx, s.artwork.UUID)
	s.Require().NoError(err)
	s.True(available)

	rental := s.mustRequest(s.alice)

	s.Equal(models.RentalStatusRequested, rental.Status)
	s.Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), rental.StartDate)
	s.Equal(rental.StartDate.AddDate(0, 1, 0), rental.EndDate)
	s.Equal("123 Main St", rental.Address)
	s.Equal("+15551234", rental.PhoneNumber)
	s.Require().NotNil(rental.Artwork)
	s.Equal(s.artwork.UUID, rental.Artwork.UUID)
	s.Require().NotNil(rental.User)
	s.Equal(s.alice.UUID, rental.User.UUID)
	s.Nil(rental.ApprovedBy)

	s.Equal(1, s.rentals.count())
	s.Equal([]string{EventRentalRequested}, s.recorder.names())

	available, err = s.service.CheckArtworkAvailability(s.ctx, s.artwork.UUID)
	s.Require().NoError(err)
	s.False(available)
}

func (s *RentalServiceTestSuite) TestCreateRentalRequestOnBusyArtworkConflicts() {
	s.mustRequest(s.alice)

	_, err := s.request(s.bob)
	s.Equal(KindConflict, KindOf(err))
	s.Equal(1, s.rentals.count())

	// Still unavailable once approved
	pending, err := s.service.GetPendingRequests(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	_, err = s.service.ApproveRental(s.ctx, pending[0].UUID, s.admin.UUID)
	s.Require().NoError(err)

	_, err = s.request(s.bob)
	s.Equal(KindConflict, KindOf(err))
	s.Equal(1, s.rentals.count())
}

func (s *RentalServiceTestSuite) TestApproveRental() {
	rental := s.mustRequest(s.alice)

	approved, err := s.service.ApproveRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Require().NoError(err)
	s.Equal(models.RentalStatusApproved, approved.Status)
	s.Require().NotNil(approved.ApprovedBy)
	s.Equal(s.admin.ID, *approved.ApprovedBy)
	s.Require().NotNil(approved.ApprovedAt)
	s.WithinDuration(s.now, *approved.ApprovedAt, time.Second)
	s.Require().NotNil(approved.Approver)
	s.Equal(s.admin.UUID, approved.Approver.UUID)

	_, err = s.service.ApproveRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))
	s.Equal(models.RentalStatusApproved, s.rentals.status(rental.UUID))

	s.Equal([]string{EventRentalRequested, EventRentalApproved}, s.recorder.names())
}

func (s *RentalServiceTestSuite) TestRejectRentalIsTerminal() {
	rental := s.mustRequest(s.alice)

	rejected, err := s.service.RejectRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Require().NoError(err)
	s.Equal(models.RentalStatusRejected, rejected.Status)
	s.Nil(rejected.ApprovedBy)
	s.Nil(rejected.ApprovedAt)

	_, err = s.service.ApproveRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))
	_, err = s.service.FinalizeRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))
	_, err = s.service.RejectRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))

	s.Equal(models.RentalStatusRejected, s.rentals.status(rental.UUID))

	// A rejected rental frees the artwork
	available, err := s.service.CheckArtworkAvailability(s.ctx, s.artwork.UUID)
	s.Require().NoError(err)
	s.True(available)
}

func (s *RentalServiceTestSuite) TestFinalizeRequiresApproval() {
	rental := s.mustRequest(s.alice)

	_, err := s.service.FinalizeRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))
	s.Equal(models.RentalStatusRequested, s.rentals.status(rental.UUID))
}

func (s *RentalServiceTestSuite) TestFullLifecycle() {
	rental := s.mustRequest(s.alice)

	_, err := s.service.ApproveRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Require().NoError(err)

	s.now = s.now.Add(48 * time.Hour)
	finalized, err := s.service.FinalizeRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Require().NoError(err)
	s.Equal(models.RentalStatusFinalized, finalized.Status)
	s.Require().NotNil(finalized.FinalizedBy)
	s.Equal(s.admin.ID, *finalized.FinalizedBy)
	s.Require().NotNil(finalized.FinalizedAt)
	s.Equal(s.now, *finalized.FinalizedAt)
	s.NotNil(finalized.ApprovedBy)

	// No operation moves a rental backward
	_, err = s.service.ApproveRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))
	_, err = s.service.RejectRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))
	_, err = s.service.FinalizeRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Equal(KindBadRequest, KindOf(err))
	s.Equal(models.RentalStatusFinalized, s.rentals.status(rental.UUID))

	s.Equal([]string{EventRentalRequested, EventRentalApproved, EventRentalFinalized}, s.recorder.names())

	available, err := s.service.CheckArtworkAvailability(s.ctx, s.artwork.UUID)
	s.Require().NoError(err)
	s.True(available)
}

func (s *RentalServiceTestSuite) TestNotFound() {
	unknown := uuid.New()

	_, err := s.service.CreateRentalRequest(s.ctx, s.artwork.UUID, unknown, "123 Main St", "+15551234")
	s.Equal(KindNotFound, KindOf(err))
	_, err = s.service.CreateRentalRequest(s.ctx, unknown, s.alice.UUID, "123 Main St", "+15551234")
	s.Equal(KindNotFound, KindOf(err))
	_, err = s.service.CheckArtworkAvailability(s.ctx, unknown)
	s.Equal(KindNotFound, KindOf(err))
	_, err = s.service.GetRentalByUUID(s.ctx, unknown)
	s.Equal(KindNotFound, KindOf(err))
	_, err = s.service.ApproveRental(s.ctx, unknown, s.admin.UUID)
	s.Equal(KindNotFound, KindOf(err))
	_, err = s.service.RejectRental(s.ctx, unknown, s.admin.UUID)
	s.Equal(KindNotFound, KindOf(err))
	_, err = s.service.FinalizeRental(s.ctx, unknown, s.admin.UUID)
	s.Equal(KindNotFound, KindOf(err))
	_, err = s.service.GetUserRentals(s.ctx, unknown)
	s.Equal(KindNotFound, KindOf(err))

	s.Equal(0, s.rentals.count())
}

func (s *RentalServiceTestSuite) TestUnknownApproverLeavesStatusUnchanged() {
	rental := s.mustRequest(s.alice)

	_, err := s.service.ApproveRental(s.ctx, rental.UUID, uuid.New())
	s.Equal(KindNotFound, KindOf(err))
	s.Equal(models.RentalStatusRequested, s.rentals.status(rental.UUID))
}

func (s *RentalServiceTestSuite) TestCreateRentalRequestValidatesInput() {
	_, err := s.service.CreateRentalRequest(s.ctx, s.artwork.UUID, s.alice.UUID, "   ", "+15551234")
	s.Equal(KindBadRequest, KindOf(err))
	s.Equal(0, s.rentals.count())
}

func (s *RentalServiceTestSuite) TestReads() {
	first := s.mustRequest(s.alice)
	_, err := s.service.RejectRental(s.ctx, first.UUID, s.admin.UUID)
	s.Require().NoError(err)
	second := s.mustRequest(s.bob)

	mine, err := s.service.GetUserRentals(s.ctx, s.alice.UUID)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(first.UUID, mine[0].UUID)

	pending, err := s.service.GetPendingRequests(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(second.UUID, pending[0].UUID)

	all, total, err := s.service.GetAllRentals(s.ctx, RentalSearchParams{})
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Equal(int64(2), total)

	rejected := models.RentalStatusRejected
	filtered, _, err := s.service.GetAllRentals(s.ctx, RentalSearchParams{Status: &rejected})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(first.UUID, filtered[0].UUID)

	bogus := models.RentalStatus("cancelled")
	_, _, err = s.service.GetAllRentals(s.ctx, RentalSearchParams{Status: &bogus})
	s.Equal(KindBadRequest, KindOf(err))
}

func (s *RentalServiceTestSuite) TestGetRentalForActor() {
	rental := s.mustRequest(s.alice)

	got, err := s.service.GetRentalForActor(s.ctx, rental.UUID, Actor{UserID: s.alice.UUID})
	s.Require().NoError(err)
	s.Equal(rental.UUID, got.UUID)

	_, err = s.service.GetRentalForActor(s.ctx, rental.UUID, Actor{UserID: s.admin.UUID, IsAdmin: true})
	s.NoError(err)

	_, err = s.service.GetRentalForActor(s.ctx, rental.UUID, Actor{UserID: s.bob.UUID})
	s.Equal(KindForbidden, KindOf(err))

	_, err = s.service.GetRentalForActor(s.ctx, uuid.New(), Actor{UserID: s.alice.UUID})
	s.Equal(KindNotFound, KindOf(err))
}

func (s *RentalServiceTestSuite) TestConcurrentRequestsBookArtworkOnce() {
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := s.alice
			if i%2 == 1 {
				user = s.bob
			}
			_, err := s.request(user)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case KindOf(err) == KindConflict:
			conflicts++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, ok)
	s.Equal(workers-1, conflicts)
	s.Equal(1, s.rentals.count())
}

func (s *RentalServiceTestSuite) TestConcurrentApprovalsSucceedOnce() {
	rental := s.mustRequest(s.alice)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ApproveRental(s.ctx, rental.UUID, s.admin.UUID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		s.Equal(KindBadRequest, KindOf(err))
	}
	s.Equal(1, ok)
	s.Equal(models.RentalStatusApproved, s.rentals.status(rental.UUID))
}

func (s *RentalServiceTestSuite) TestNotificationFailureDoesNotAffectTransition() {
	s.bus.Subscribe(EventRentalApproved, func(ctx context.Context, e events.Event) error {
		return errors.New("mail server unreachable")
	})
	s.bus.Subscribe(EventRentalApproved, func(ctx context.Context, e events.Event) error {
		panic("template exploded")
	})

	rental := s.mustRequest(s.alice)
	approved, err := s.service.ApproveRental(s.ctx, rental.UUID, s.admin.UUID)
	s.Require().NoError(err)
	s.Equal(models.RentalStatusApproved, approved.Status)
	s.Equal(models.RentalStatusApproved, s.rentals.status(rental.UUID))
}

func TestRentalServiceSuite(t *testing.T) {
	suite.Run(t, new(RentalServiceTestSuite))
}

func TestRentalServiceRepositoryFailures(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	user := newUser(1, "alice@example.com", false)
	artwork := &models.Artwork{BaseModel: models.BaseModel{ID: 5, UUID: uuid.New()}}

	users := new(mocks.UserRepository)
	users.On("FindByUUID", mock.Anything, user.UUID).Return(user, nil)
	artworks := new(mocks.ArtworkRepository)
	artworks.On("FindByUUID", mock.Anything, artwork.UUID).Return(artwork, nil)

	rentals := new(mocks.RentalRepository)
	rentals.On("CreateIfAvailable", mock.Anything, mock.AnythingOfType("*models.Rental")).Return(dbErr).Once()
	rentals.On("IsArtworkAvailable", mock.Anything, artwork.ID).Return(false, dbErr).Once()
	rentals.On("FindPendingRequests", mock.Anything).Return(nil, dbErr).Once()

	service := NewRentalService(rentals, artworks, users, nil)

	_, err := service.CreateRentalRequest(ctx, artwork.UUID, user.UUID, "1 Rue de Rivoli", "+33123456789")
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, dbErr)

	_, err = service.CheckArtworkAvailability(ctx, artwork.UUID)
	assert.Equal(t, KindInternal, KindOf(err))

	_, err = service.GetPendingRequests(ctx)
	assert.Equal(t, KindInternal, KindOf(err))

	rentals.AssertExpectations(t)
}

func TestRentalServiceStaleTransition(t *testing.T) {
	ctx := context.Background()
	admin := newUser(1, "admin@example.com", true)
	rental := &models.Rental{BaseModel: models.BaseModel{ID: 9, UUID: uuid.New()}, Status: models.RentalStatusRequested}

	users := new(mocks.UserRepository)
	users.On("FindByUUID", mock.Anything, admin.UUID).Return(admin, nil)

	rentals := new(mocks.RentalRepository)
	rentals.On("FindByUUID", mock.Anything, rental.UUID).Return(rental, nil)
	rentals.On("Transition", mock.Anything, rental.UUID, models.RentalStatusRequested, mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["status"] == models.RentalStatusApproved && fields["approved_by"] == admin.ID
	})).Return(nil, repositories.ErrStaleTransition)

	service := NewRentalService(rentals, new(mocks.ArtworkRepository), users, nil)

	_, err := service.ApproveRental(ctx, rental.UUID, admin.UUID)
	assert.Equal(t, KindBadRequest, KindOf(err))
	rentals.AssertExpectations(t)
}
