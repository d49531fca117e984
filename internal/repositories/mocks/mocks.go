// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

var (
	_ repositories.UserRepository         = (*UserRepository)(nil)
	_ repositories.ArtworkRepository      = (*ArtworkRepository)(nil)
	_ repositories.MediumRepository       = (*MediumRepository)(nil)
	_ repositories.RentalRepository       = (*RentalRepository)(nil)
	_ repositories.NotificationRepository = (*NotificationRepository)(nil)
	_ repositories.AuditLogRepository     = (*AuditLogRepository)(nil)
	_ repositories.StatsRepository        = (*StatsRepository)(nil)
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) FindByUUIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) FindAdmins(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Update(ctx context.Context, user *models.User, fields map[string]interface{}) error {
	return m.Called(ctx, user, fields).Error(0)
}

func (m *UserRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

type ArtworkRepository struct {
	mock.Mock
}

func (m *ArtworkRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *ArtworkRepository) FindByID(ctx context.Context, id uint) (*models.Artwork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artwork), args.Error(1)
}

func (m *ArtworkRepository) Create(ctx context.Context, artwork *models.Artwork) error {
	return m.Called(ctx, artwork).Error(0)
}

func (m *ArtworkRepository) Update(ctx context.Context, artwork *models.Artwork, fields map[string]interface{}) error {
	return m.Called(ctx, artwork, fields).Error(0)
}

func (m *ArtworkRepository) Delete(ctx context.Context, artwork *models.Artwork) error {
	return m.Called(ctx, artwork).Error(0)
}

func (m *ArtworkRepository) Search(ctx context.Context, filter repositories.ArtworkFilter) ([]models.Artwork, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Artwork), args.Get(1).(int64), args.Error(2)
}

func (m *ArtworkRepository) ReplaceMediums(ctx context.Context, artwork *models.Artwork, mediums []models.Medium) error {
	return m.Called(ctx, artwork, mediums).Error(0)
}

func (m *ArtworkRepository) ReplaceArtists(ctx context.Context, artwork *models.Artwork, artists []models.User) error {
	return m.Called(ctx, artwork, artists).Error(0)
}

func (m *ArtworkRepository) AddImage(ctx context.Context, image *models.ArtworkImage) error {
	return m.Called(ctx, image).Error(0)
}

type MediumRepository struct {
	mock.Mock
}

func (m *MediumRepository) FindAll(ctx context.Context) ([]models.Medium, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Medium), args.Error(1)
}

func (m *MediumRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Medium, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medium), args.Error(1)
}

func (m *MediumRepository) FindOrCreateByNames(ctx context.Context, names []string) ([]models.Medium, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Medium), args.Error(1)
}

func (m *MediumRepository) Create(ctx context.Context, medium *models.Medium) error {
	return m.Called(ctx, medium).Error(0)
}

func (m *MediumRepository) Delete(ctx context.Context, medium *models.Medium) error {
	return m.Called(ctx, medium).Error(0)
}

type RentalRepository struct {
	mock.Mock
}

func (m *RentalRepository) IsArtworkAvailable(ctx context.Context, artworkID uint) (bool, error) {
	args := m.Called(ctx, artworkID)
	return args.Bool(0), args.Error(1)
}

func (m *RentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

func (m *RentalRepository) CreateIfAvailable(ctx context.Context, rental *models.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

func (m *RentalRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Rental, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *RentalRepository) Transition(ctx context.Context, id uuid.UUID, from models.RentalStatus, fields map[string]interface{}) (*models.Rental, error) {
	args := m.Called(ctx, id, from, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *RentalRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rental), args.Error(1)
}

func (m *RentalRepository) FindAll(ctx context.Context, filter repositories.RentalFilter) ([]models.Rental, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Rental), args.Get(1).(int64), args.Error(2)
}

func (m *RentalRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rental), args.Error(1)
}

func (m *RentalRepository) FindPendingRequests(ctx context.Context) ([]models.Rental, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rental), args.Error(1)
}

func (m *RentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *NotificationRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.Notification, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

type AuditLogRepository struct {
	mock.Mock
}

func (m *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) CountUsers(ctx context.Context, since *time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StatsRepository) CountArtworksByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *StatsRepository) CountRentalsByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
