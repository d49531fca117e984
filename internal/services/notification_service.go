// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/utils"
	"github.com/javajoker/art-rental-backend/pkg/events"
)

const (
	NotificationNewRentalRequest = "new_rental_request"
	NotificationRentalApproved   = "rental_approved"
	NotificationRentalRejected   = "rental_rejected"
	NotificationArtworkApproved  = "artwork_approved"
	NotificationArtworkDeclined  = "artwork_declined"
)

type NotificationService struct {
	sender        EmailSender
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	config        *config.Config
	templates     map[string]*template.Template
}

func NewNotificationService(
	sender EmailSender,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	config *config.Config,
) *NotificationService {
	templates := make(map[string]*template.Template, len(emailTemplates))
	for name, body := range emailTemplates {
		templates[name] = template.Must(template.New(name).Parse(body))
	}

	return &NotificationService{
		sender:        sender,
		notifications: notifications,
		users:         users,
		config:        config,
		templates:     templates,
	}
}

// RegisterHandlers subscribes the service to the events it sends mail for.
func (s *NotificationService) RegisterHandlers(bus *events.Bus) {
	bus.Subscribe(EventRentalRequested, s.onRental(s.SendNewRentalRequestEmail))
	bus.Subscribe(EventRentalApproved, s.onRental(s.SendRentalApprovalEmail))
	bus.Subscribe(EventRentalRejected, s.onRental(s.SendRentalRejectionEmail))
	bus.Subscribe(EventArtworkApproved, s.onArtwork(true))
	bus.Subscribe(EventArtworkDeclined, s.onArtwork(false))
}

func (s *NotificationService) onRental(send func(context.Context, *models.Rental) error) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		rental, ok := e.Payload.(*models.Rental)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Name)
		}
		return send(ctx, rental)
	}
}

func (s *NotificationService) onArtwork(approved bool) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		artwork, ok := e.Payload.(*models.Artwork)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", e.Payload, e.Name)
		}
		return s.SendArtworkReviewEmail(ctx, artwork, approved)
	}
}

// Rental notifications
func (s *NotificationService) SendNewRentalRequestEmail(ctx context.Context, rental *models.Rental) error {
	recipients, err := s.adminRecipients(ctx)
	if err != nil {
		return err
	}

	data := s.rentalData(rental)
	subject := "New rental request - " + data["ArtworkTitle"].(string)

	return s.deliver(ctx, NotificationNewRentalRequest, recipients, subject, data, rentalMetadata(rental))
}

func (s *NotificationService) SendRentalApprovalEmail(ctx context.Context, rental *models.Rental) error {
	data := s.rentalData(rental)
	subject := "Your rental request was approved - " + data["ArtworkTitle"].(string)

	return s.deliver(ctx, NotificationRentalApproved, requesterRecipients(rental), subject, data, rentalMetadata(rental))
}

func (s *NotificationService) SendRentalRejectionEmail(ctx context.Context, rental *models.Rental) error {
	data := s.rentalData(rental)
	subject := "Your rental request was declined - " + data["ArtworkTitle"].(string)

	return s.deliver(ctx, NotificationRentalRejected, requesterRecipients(rental), subject, data, rentalMetadata(rental))
}

// Artwork notifications
func (s *NotificationService) SendArtworkReviewEmail(ctx context.Context, artwork *models.Artwork, approved bool) error {
	var recipients []string
	creatorName := ""
	if artwork.Creator != nil {
		recipients = []string{artwork.Creator.Email}
		creatorName = artwork.Creator.FullName()
	}

	data := map[string]interface{}{
		"CreatorName":  creatorName,
		"ArtworkTitle": artwork.Title,
		"ReviewNotes":  artwork.ReviewNotes,
		"ArtworkURL":   fmt.Sprintf("%s/artworks/%s", s.config.Frontend.BaseURL, artwork.UUID),
	}
	metadata := models.JSONB{"artwork_uuid": artwork.UUID.String()}

	if approved {
		return s.deliver(ctx, NotificationArtworkApproved, recipients, "Your artwork was approved - "+artwork.Title, data, metadata)
	}
	return s.deliver(ctx, NotificationArtworkDeclined, recipients, "Your artwork was declined - "+artwork.Title, data, metadata)
}

func (s *NotificationService) ListNotifications(ctx context.Context, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.notifications.List(ctx, params)
	if err != nil {
		return nil, 0, Internal("failed to load notifications", err)
	}
	return notifications, total, nil
}

// deliver renders and sends one message and records the attempt.
func (s *NotificationService) deliver(ctx context.Context, kind string, recipients []string, subject string, data map[string]interface{}, metadata models.JSONB) error {
	notification := &models.Notification{
		Kind:       kind,
		Recipients: pq.StringArray(recipients),
		Subject:    subject,
		Provider:   s.sender.Name(),
		Metadata:   metadata,
	}

	sendErr := s.send(ctx, kind, recipients, subject, data)
	switch {
	case sendErr == nil:
		notification.Status = models.NotificationStatusSent
	case errors.Is(sendErr, errEmailNotConfigured), errors.Is(sendErr, errNoRecipients):
		notification.Status = models.NotificationStatusSkipped
		notification.Error = sendErr.Error()
		sendErr = nil
	default:
		notification.Status = models.NotificationStatusFailed
		notification.Error = sendErr.Error()
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		logrus.WithError(err).WithField("kind", kind).Warn("Failed to record notification")
	}

	return sendErr
}

var errNoRecipients = errors.New("no recipients")

func (s *NotificationService) send(ctx context.Context, kind string, recipients []string, subject string, data map[string]interface{}) error {
	if len(recipients) == 0 {
		return errNoRecipients
	}

	body, err := s.renderTemplate(kind, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sender.Send(ctx, recipients, subject, body)
}

func (s *NotificationService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// adminRecipients is ADMIN_EMAIL, or every admin account when it is unset.
func (s *NotificationService) adminRecipients(ctx context.Context) ([]string, error) {
	if s.config.Email.AdminEmail != "" {
		return []string{s.config.Email.AdminEmail}, nil
	}

	admins, err := s.users.FindAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load admins: %w", err)
	}

	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.Email)
	}
	return recipients, nil
}

func requesterRecipients(rental *models.Rental) []string {
	if rental.User == nil || rental.User.Email == "" {
		return nil
	}
	return []string{rental.User.Email}
}

func (s *NotificationService) rentalData(rental *models.Rental) map[string]interface{} {
	data := map[string]interface{}{
		"ArtworkTitle":  "",
		"RequesterName": "",
		"Address":       rental.Address,
		"PhoneNumber":   rental.PhoneNumber,
		"StartDate":     rental.StartDate.Format("2006-01-02"),
		"EndDate":       rental.EndDate.Format("2006-01-02"),
		"RentalURL":     fmt.Sprintf("%s/rentals/%s", s.config.Frontend.BaseURL, rental.UUID),
	}
	if rental.Artwork != nil {
		data["ArtworkTitle"] = rental.Artwork.Title
	}
	if rental.User != nil {
		data["RequesterName"] = rental.User.FullName()
	}
	return data
}

func rentalMetadata(rental *models.Rental) models.JSONB {
	return models.JSONB{
		"rental_uuid": rental.UUID.String(),
		"status":      string(rental.Status),
	}
}

var emailTemplates = map[string]string{
	NotificationNewRentalRequest: `
<!DOCTYPE html>
<html>
<body>
	<h2>New rental request</h2>
	<p>{{.RequesterName}} asked to rent "{{.ArtworkTitle}}" from {{.StartDate}} to {{.EndDate}}.</p>
	<p>Delivery address: {{.Address}}<br>Phone: {{.PhoneNumber}}</p>
	<a href="{{.RentalURL}}">Review the request</a>
</body>
</html>`,
	NotificationRentalApproved: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your rental was approved</h2>
	<p>Hello {{.RequesterName}},</p>
	<p>Your request to rent "{{.ArtworkTitle}}" from {{.StartDate}} to {{.EndDate}} has been approved.</p>
	<a href="{{.RentalURL}}">View rental</a>
</body>
</html>`,
	NotificationRentalRejected: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your rental was declined</h2>
	<p>Hello {{.RequesterName}},</p>
	<p>Unfortunately your request to rent "{{.ArtworkTitle}}" could not be accepted.</p>
	<a href="{{.RentalURL}}">View rental</a>
</body>
</html>`,
	NotificationArtworkApproved: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your artwork is live</h2>
	<p>Hello {{.CreatorName}},</p>
	<p>"{{.ArtworkTitle}}" has been approved and is now visible to renters.</p>
	<a href="{{.ArtworkURL}}">View artwork</a>
</body>
</html>`,
	NotificationArtworkDeclined: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your artwork was declined</h2>
	<p>Hello {{.CreatorName}},</p>
	<p>"{{.ArtworkTitle}}" was not accepted.</p>
	{{if .ReviewNotes}}<p>Reviewer notes: {{.ReviewNotes}}</p>{{end}}
	<a href="{{.ArtworkURL}}">Edit artwork</a>
</body>
</html>`,
}
