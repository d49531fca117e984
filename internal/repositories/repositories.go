// internal/repositories/repositories.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record conflicts with existing data")
	ErrArtworkUnavailable = errors.New("artwork already has an active rental")
	ErrArtworkHasRentals  = errors.New("artwork is referenced by rentals")
	// ErrStaleTransition means a conditional status update matched no row.
	ErrStaleTransition = errors.New("rental status changed concurrently")
)

type UserRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUUIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAdmins(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User, fields map[string]interface{}) error
	List(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error)
}

type ArtworkFilter struct {
	Status    *models.ModerationStatus
	Medium    string
	CreatedBy *uint
	utils.PaginationParams
}

type ArtworkRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
	FindByID(ctx context.Context, id uint) (*models.Artwork, error)
	Create(ctx context.Context, artwork *models.Artwork) error
	Update(ctx context.Context, artwork *models.Artwork, fields map[string]interface{}) error
	// Delete returns ErrArtworkUnavailable while a rental is active and
	// ErrArtworkHasRentals when finished rentals still reference the artwork.
	Delete(ctx context.Context, artwork *models.Artwork) error
	Search(ctx context.Context, filter ArtworkFilter) ([]models.Artwork, int64, error)
	ReplaceMediums(ctx context.Context, artwork *models.Artwork, mediums []models.Medium) error
	ReplaceArtists(ctx context.Context, artwork *models.Artwork, artists []models.User) error
	AddImage(ctx context.Context, image *models.ArtworkImage) error
}

type MediumRepository interface {
	FindAll(ctx context.Context) ([]models.Medium, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Medium, error)
	FindOrCreateByNames(ctx context.Context, names []string) ([]models.Medium, error)
	Create(ctx context.Context, medium *models.Medium) error
	Delete(ctx context.Context, medium *models.Medium) error
}

type RentalFilter struct {
	Status *models.RentalStatus
	utils.PaginationParams
}

type RentalRepository interface {
	IsArtworkAvailable(ctx context.Context, artworkID uint) (bool, error)
	Create(ctx context.Context, rental *models.Rental) error
	// CreateIfAvailable inserts rental only if its artwork has no active rental,
	// returning ErrArtworkUnavailable otherwise.
	CreateIfAvailable(ctx context.Context, rental *models.Rental) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Rental, error)
	// Transition applies fields only while the rental is still in status from.
	Transition(ctx context.Context, id uuid.UUID, from models.RentalStatus, fields map[string]interface{}) (*models.Rental, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	FindAll(ctx context.Context, filter RentalFilter) ([]models.Rental, int64, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Rental, error)
	FindPendingRequests(ctx context.Context) ([]models.Rental, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, params utils.PaginationParams) ([]models.Notification, int64, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// StatsRepository aggregates counts for the admin dashboard.
type StatsRepository interface {
	// CountUsers counts users created at or after since, or all users when since is nil.
	CountUsers(ctx context.Context, since *time.Time) (int64, error)
	CountArtworksByStatus(ctx context.Context) (map[string]int64, error)
	CountRentalsByStatus(ctx context.Context) (map[string]int64, error)
}

type Repositories struct {
	Users         UserRepository
	Artworks      ArtworkRepository
	Mediums       MediumRepository
	Rentals       RentalRepository
	Notifications NotificationRepository
	AuditLogs     AuditLogRepository
	Stats         StatsRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Artworks:      NewArtworkRepository(db),
		Mediums:       NewMediumRepository(db),
		Rentals:       NewRentalRepository(db),
		Notifications: NewNotificationRepository(db),
		AuditLogs:     NewAuditLogRepository(db),
		Stats:         NewStatsRepository(db),
	}
}

// translateError maps gorm sentinel errors onto the package's own.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return fmt.Errorf("database error: %w", err)
}
