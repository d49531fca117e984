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

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories/mocks"
	"github.com/javajoker/art-rental-backend/pkg/events"
)

type sentEmail struct {
	to      []string
	subject string
	body    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

func testRental() *models.Rental {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	return &models.Rental{
		BaseModel:   models.BaseModel{UUID: uuid.New()},
		Address:     "1 Rue de Rivoli",
		PhoneNumber: "+33123456789",
		StartDate:   start,
		EndDate:     models.RentalPeriodEnd(start),
		Status:      models.RentalStatusRequested,
		Artwork:     &models.Artwork{Title: "Nighthawks"},
		User:        &models.User{Email: "renter@example.com", FirstName: "Rita"},
	}
}

func newNotificationFixture(sender EmailSender, adminEmail string) (*NotificationService, *mocks.NotificationRepository, *mocks.UserRepository) {
	notifications := new(mocks.NotificationRepository)
	users := new(mocks.UserRepository)
	cfg := &config.Config{
		Email:    config.EmailConfig{AdminEmail: adminEmail},
		Frontend: config.FrontendConfig{BaseURL: "https://art.example.com"},
	}
	return NewNotificationService(sender, notifications, users, cfg), notifications, users
}

func TestNewRentalRequestGoesToAdminAddress(t *testing.T) {
	sender := &fakeSender{}
	service, notifications, _ := newNotificationFixture(sender, "desk@example.com")
	notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Kind == NotificationNewRentalRequest && n.Status == models.NotificationStatusSent && n.Provider == "fake"
	})).Return(nil).Once()

	require.NoError(t, service.SendNewRentalRequestEmail(context.Background(), testRental()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"desk@example.com"}, sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "Nighthawks")
	assert.Contains(t, sender.sent[0].body, "1 Rue de Rivoli")
	assert.Contains(t, sender.sent[0].body, "2024-03-02")
	notifications.AssertExpectations(t)
}

func TestNewRentalRequestFallsBackToAdminAccounts(t *testing.T) {
	sender := &fakeSender{}
	service, notifications, users := newNotificationFixture(sender, "")
	users.On("FindAdmins", mock.Anything).Return([]models.User{{Email: "a1@example.com"}, {Email: "a2@example.com"}}, nil).Once()
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	require.NoError(t, service.SendNewRentalRequestEmail(context.Background(), testRental()))
	assert.Equal(t, []string{"a1@example.com", "a2@example.com"}, sender.sent[0].to)
}

func TestApprovalAndRejectionGoToRequester(t *testing.T) {
	sender := &fakeSender{}
	service, notifications, _ := newNotificationFixture(sender, "desk@example.com")
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	rental := testRental()
	require.NoError(t, service.SendRentalApprovalEmail(context.Background(), rental))
	require.NoError(t, service.SendRentalRejectionEmail(context.Background(), rental))

	require.Len(t, sender.sent, 2)
	for _, email := range sender.sent {
		assert.Equal(t, []string{"renter@example.com"}, email.to)
	}
	assert.Contains(t, sender.sent[0].subject, "approved")
	assert.Contains(t, sender.sent[1].subject, "declined")
}

func TestDeliveryFailureIsRecorded(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp: 421 try later")}
	service, notifications, _ := newNotificationFixture(sender, "desk@example.com")
	notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Status == models.NotificationStatusFailed && n.Error != ""
	})).Return(nil).Once()

	assert.Error(t, service.SendRentalApprovalEmail(context.Background(), testRental()))
	notifications.AssertExpectations(t)
}

func TestUnconfiguredProviderIsSkipped(t *testing.T) {
	service, notifications, _ := newNotificationFixture(LogSender{}, "desk@example.com")
	notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Status == models.NotificationStatusSkipped && n.Provider == "log"
	})).Return(nil).Twice()

	assert.NoError(t, service.SendRentalApprovalEmail(context.Background(), testRental()))

	rental := testRental()
	rental.User = nil
	assert.NoError(t, service.SendRentalRejectionEmail(context.Background(), rental))
	notifications.AssertExpectations(t)
}

func TestArtworkReviewEmail(t *testing.T) {
	sender := &fakeSender{}
	service, notifications, _ := newNotificationFixture(sender, "")
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	artwork := &models.Artwork{
		BaseModel:   models.BaseModel{UUID: uuid.New()},
		Title:       "Guernica",
		ReviewNotes: "needs better photos",
		Creator:     &models.User{Email: "pablo@example.com", FirstName: "Pablo"},
	}
	require.NoError(t, service.SendArtworkReviewEmail(context.Background(), artwork, false))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"pablo@example.com"}, sender.sent[0].to)
	assert.Contains(t, sender.sent[0].body, "needs better photos")
}

func TestRegisterHandlersDispatchesEvents(t *testing.T) {
	sender := &fakeSender{}
	service, notifications, _ := newNotificationFixture(sender, "desk@example.com")
	notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	bus := events.NewSyncBus()
	service.RegisterHandlers(bus)

	ctx := context.Background()
	bus.Publish(ctx, events.Event{Name: EventRentalRequested, Payload: testRental()})
	bus.Publish(ctx, events.Event{Name: EventRentalApproved, Payload: testRental()})
	bus.Publish(ctx, events.Event{Name: EventRentalFinalized, Payload: testRental()})
	bus.Publish(ctx, events.Event{Name: EventArtworkApproved, Payload: &models.Artwork{Title: "x", Creator: &models.User{Email: "c@example.com"}}})
	// Wrong payloads are logged by the bus, not sent
	bus.Publish(ctx, events.Event{Name: EventRentalRejected, Payload: "oops"})
	bus.Wait()

	require.Len(t, sender.sent, 3)
	assert.Equal(t, []string{"desk@example.com"}, sender.sent[0].to)
	assert.Equal(t, []string{"renter@example.com"}, sender.sent[1].to)
	assert.Equal(t, []string{"c@example.com"}, sender.sent[2].to)
}

func TestNewEmailSenderPrecedence(t *testing.T) {
	assert.Equal(t, "resend", NewEmailSender(config.EmailConfig{ResendAPIKey: "re_x", SMTPHost: "smtp"}).Name())
	assert.Equal(t, "smtp", NewEmailSender(config.EmailConfig{SMTPHost: "smtp.example.com"}).Name())
	assert.Equal(t, "log", NewEmailSender(config.EmailConfig{}).Name())
}
