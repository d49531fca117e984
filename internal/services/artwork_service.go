// internal/services/artwork_service.go
package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/utils"
	"github.com/javajoker/art-rental-backend/pkg/events"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

type ArtworkService struct {
	artworks repositories.ArtworkRepository
	mediums  repositories.MediumRepository
	users    repositories.UserRepository
	storage  *StorageService
	bus      *events.Bus
	now      func() time.Time
}

type CreateArtworkRequest struct {
	Title       string      `json:"title" validate:"required,min=1,max=255,single_line"`
	Description string      `json:"description" validate:"max=10000"`
	Width       *float64    `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height      *float64    `json:"height,omitempty" validate:"omitempty,gt=0"`
	Depth       *float64    `json:"depth,omitempty" validate:"omitempty,gt=0"`
	MonthlyRate float64     `json:"monthly_rate" validate:"gte=0"`
	ArtistUUIDs []uuid.UUID `json:"artist_uuids,omitempty"`
	Mediums     []string    `json:"mediums,omitempty" validate:"omitempty,dive,medium_name"`
}

// UpdateArtworkRequest leaves nil fields untouched. An empty, non-nil
// Mediums clears the artwork's mediums.
type UpdateArtworkRequest struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,min=1,max=255,single_line"`
	Description *string     `json:"description,omitempty" validate:"omitempty,max=10000"`
	Width       *float64    `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height      *float64    `json:"height,omitempty" validate:"omitempty,gt=0"`
	Depth       *float64    `json:"depth,omitempty" validate:"omitempty,gt=0"`
	MonthlyRate *float64    `json:"monthly_rate,omitempty" validate:"omitempty,gte=0"`
	ArtistUUIDs []uuid.UUID `json:"artist_uuids,omitempty"`
	Mediums     []string    `json:"mediums,omitempty" validate:"omitempty,dive,medium_name"`
}

type ReviewArtworkRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

type ArtworkSearchParams struct {
	Status string `form:"status"`
	Medium string `form:"medium"`
	utils.PaginationParams
}

func NewArtworkService(
	artworks repositories.ArtworkRepository,
	mediums repositories.MediumRepository,
	users repositories.UserRepository,
	storage *StorageService,
	bus *events.Bus,
) *ArtworkService {
	return &ArtworkService{
		artworks: artworks,
		mediums:  mediums,
		users:    users,
		storage:  storage,
		bus:      bus,
		now:      time.Now,
	}
}

func errArtworkNotFound() *AppError {
	return NotFound("artwork not found").WithKey(i18n.KeyArtworkNotFound)
}

func errArtworkNotOwned() *AppError {
	return Forbidden("only the creator or an administrator can modify this artwork").WithKey(i18n.KeyArtworkNotOwnedByCaller)
}

// CreateArtwork stores a pending artwork created by creatorID. Artists
// default to the creator.
func (s *ArtworkService) CreateArtwork(ctx context.Context, creatorID uuid.UUID, req *CreateArtworkRequest) (*models.Artwork, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, BadRequest("validation failed").WithKey(i18n.KeyValidationFailed).Wrap(err)
	}

	creator, err := s.users.FindByUUID(ctx, creatorID)
	if err != nil {
		return nil, lookupError(err, errUserNotFound())
	}

	artists := []models.User{*creator}
	if len(req.ArtistUUIDs) > 0 {
		if artists, err = s.resolveArtists(ctx, req.ArtistUUIDs); err != nil {
			return nil, err
		}
	}

	mediums, err := s.mediums.FindOrCreateByNames(ctx, req.Mediums)
	if err != nil {
		return nil, Internal("failed to resolve mediums", err)
	}

	artwork := &models.Artwork{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Width:       req.Width,
		Height:      req.Height,
		Depth:       req.Depth,
		MonthlyRate: req.MonthlyRate,
		Status:      models.ModerationStatusPending,
		CreatedBy:   creator.ID,
		Artists:     artists,
		Mediums:     mediums,
	}

	if err := s.artworks.Create(ctx, artwork); err != nil {
		return nil, Internal("failed to create artwork", err)
	}

	logrus.WithFields(logrus.Fields{
		"artwork_uuid": artwork.UUID,
		"creator_uuid": creator.UUID,
	}).Info("Artwork submitted for review")

	return s.reload(ctx, artwork.UUID)
}

// GetArtwork returns approved artworks to anyone and unapproved ones only to
// their creator and administrators. actor may be nil.
func (s *ArtworkService) GetArtwork(ctx context.Context, artworkID uuid.UUID, actor *Actor) (*models.Artwork, error) {
	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return nil, lookupError(err, errArtworkNotFound())
	}

	if artwork.Status != models.ModerationStatusApproved && !canManage(artwork, actor) {
		return nil, errArtworkNotFound()
	}
	return artwork, nil
}

// SearchArtworks lists approved artworks. Administrators may filter on any
// moderation status.
func (s *ArtworkService) SearchArtworks(ctx context.Context, params ArtworkSearchParams, actor *Actor) ([]models.Artwork, int64, error) {
	status := models.ModerationStatusApproved
	if actor != nil && actor.IsAdmin && params.Status != "" {
		status = models.ModerationStatus(params.Status)
		if !status.Valid() {
			return nil, 0, BadRequest("unknown artwork status").WithKey(i18n.KeyValidationFailed)
		}
	}

	return s.search(ctx, repositories.ArtworkFilter{
		Status:           &status,
		Medium:           strings.TrimSpace(params.Medium),
		PaginationParams: utils.NormalizePagination(params.PaginationParams),
	})
}

func (s *ArtworkService) GetPendingArtworks(ctx context.Context, params utils.PaginationParams) ([]models.Artwork, int64, error) {
	status := models.ModerationStatusPending
	return s.search(ctx, repositories.ArtworkFilter{
		Status:           &status,
		PaginationParams: utils.NormalizePagination(params),
	})
}

// UpdateArtwork applies req. Changes by anyone but an administrator send the
// artwork back to moderation.
func (s *ArtworkService) UpdateArtwork(ctx context.Context, artworkID uuid.UUID, actor Actor, req *UpdateArtworkRequest) (*models.Artwork, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, BadRequest("validation failed").WithKey(i18n.KeyValidationFailed).Wrap(err)
	}

	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return nil, lookupError(err, errArtworkNotFound())
	}
	if !canManage(artwork, &actor) {
		return nil, errArtworkNotOwned()
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Width != nil {
		updates["width"] = *req.Width
	}
	if req.Height != nil {
		updates["height"] = *req.Height
	}
	if req.Depth != nil {
		updates["depth"] = *req.Depth
	}
	if req.MonthlyRate != nil {
		updates["monthly_rate"] = *req.MonthlyRate
	}

	changed := len(updates) > 0 || req.ArtistUUIDs != nil || req.Mediums != nil
	if !changed {
		return artwork, nil
	}

	if req.ArtistUUIDs != nil {
		if len(req.ArtistUUIDs) == 0 {
			return nil, BadRequest("an artwork needs at least one artist").WithKey(i18n.KeyValidationFailed)
		}
		artists, err := s.resolveArtists(ctx, req.ArtistUUIDs)
		if err != nil {
			return nil, err
		}
		if err := s.artworks.ReplaceArtists(ctx, artwork, artists); err != nil {
			return nil, Internal("failed to update artists", err)
		}
	}

	if req.Mediums != nil {
		mediums, err := s.mediums.FindOrCreateByNames(ctx, req.Mediums)
		if err != nil {
			return nil, Internal("failed to resolve mediums", err)
		}
		if err := s.artworks.ReplaceMediums(ctx, artwork, mediums); err != nil {
			return nil, Internal("failed to update mediums", err)
		}
	}

	if !actor.IsAdmin && artwork.Status != models.ModerationStatusPending {
		updates["status"] = models.ModerationStatusPending
		updates["reviewed_by"] = nil
		updates["reviewed_at"] = nil
		updates["review_notes"] = ""
	}

	if len(updates) > 0 {
		if err := s.artworks.Update(ctx, artwork, updates); err != nil {
			return nil, Internal("failed to update artwork", err)
		}
	}

	return s.reload(ctx, artwork.UUID)
}

// DeleteArtwork refuses while any rental, active or finished, references
// the artwork.
func (s *ArtworkService) DeleteArtwork(ctx context.Context, artworkID uuid.UUID, actor Actor) error {
	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return lookupError(err, errArtworkNotFound())
	}
	if !canManage(artwork, &actor) {
		return errArtworkNotOwned()
	}

	switch err := s.artworks.Delete(ctx, artwork); {
	case err == nil:
	case errors.Is(err, repositories.ErrArtworkUnavailable):
		return Conflict("artwork has an active rental").WithKey(i18n.KeyArtworkHasActiveRental).Wrap(err)
	case errors.Is(err, repositories.ErrArtworkHasRentals), errors.Is(err, repositories.ErrConflict):
		return Conflict("artwork has rental history").WithKey(i18n.KeyArtworkHasRentalHistory).Wrap(err)
	case errors.Is(err, repositories.ErrNotFound):
		return errArtworkNotFound()
	default:
		return Internal("failed to delete artwork", err)
	}

	for _, image := range artwork.Images {
		if image.Key == "" {
			continue
		}
		if err := s.storage.DeleteFile(ctx, image.Key); err != nil {
			logrus.WithError(err).WithField("key", image.Key).Warn("Failed to delete artwork image")
		}
	}

	return nil
}

func (s *ArtworkService) ApproveArtwork(ctx context.Context, artworkID, reviewerID uuid.UUID, notes string) (*models.Artwork, error) {
	return s.review(ctx, artworkID, reviewerID, notes, models.ModerationStatusApproved, EventArtworkApproved)
}

func (s *ArtworkService) DeclineArtwork(ctx context.Context, artworkID, reviewerID uuid.UUID, notes string) (*models.Artwork, error) {
	return s.review(ctx, artworkID, reviewerID, notes, models.ModerationStatusDeclined, EventArtworkDeclined)
}

// UploadArtworkImage stores the file and appends it to the artwork's images.
func (s *ArtworkService) UploadArtworkImage(ctx context.Context, artworkID uuid.UUID, actor Actor, file multipart.File, header *multipart.FileHeader) (*models.ArtworkImage, error) {
	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return nil, lookupError(err, errArtworkNotFound())
	}
	if !canManage(artwork, &actor) {
		return nil, errArtworkNotOwned()
	}

	result, err := s.storage.UploadFile(ctx, file, header, ArtworkImageUploadOptions)
	if err != nil {
		return nil, err
	}

	image := &models.ArtworkImage{
		ArtworkID: artwork.ID,
		URL:       result.URL,
		Key:       result.Key,
	}
	if err := s.artworks.AddImage(ctx, image); err != nil {
		if delErr := s.storage.DeleteFile(ctx, result.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", result.Key).Warn("Failed to clean up orphaned upload")
		}
		return nil, lookupError(err, errArtworkNotFound())
	}

	return image, nil
}

func (s *ArtworkService) review(ctx context.Context, artworkID, reviewerID uuid.UUID, notes string, status models.ModerationStatus, event string) (*models.Artwork, error) {
	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return nil, lookupError(err, errArtworkNotFound())
	}

	if artwork.Status != models.ModerationStatusPending {
		return nil, BadRequest("only pending artworks can be reviewed").WithKey(i18n.KeyArtworkAlreadyReviewed)
	}

	reviewer, err := s.users.FindByUUID(ctx, reviewerID)
	if err != nil {
		return nil, lookupError(err, errUserNotFound())
	}

	err = s.artworks.Update(ctx, artwork, map[string]interface{}{
		"status":       status,
		"reviewed_by":  reviewer.ID,
		"review_notes": strings.TrimSpace(notes),
		"reviewed_at":  s.now(),
	})
	if err != nil {
		return nil, Internal("failed to update artwork", err)
	}

	updated, err := s.reload(ctx, artwork.UUID)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.Event{Name: event, Payload: updated})
	}

	return updated, nil
}

func (s *ArtworkService) search(ctx context.Context, filter repositories.ArtworkFilter) ([]models.Artwork, int64, error) {
	artworks, total, err := s.artworks.Search(ctx, filter)
	if err != nil {
		return nil, 0, Internal("failed to search artworks", err)
	}
	return artworks, total, nil
}

func (s *ArtworkService) reload(ctx context.Context, artworkID uuid.UUID) (*models.Artwork, error) {
	artwork, err := s.artworks.FindByUUID(ctx, artworkID)
	if err != nil {
		return nil, Internal("failed to load artwork", err)
	}
	return artwork, nil
}

// resolveArtists loads every listed user, failing if any is unknown.
func (s *ArtworkService) resolveArtists(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	artists, err := s.users.FindByUUIDs(ctx, unique)
	if err != nil {
		return nil, Internal("failed to load artists", err)
	}
	if len(artists) != len(unique) {
		return nil, BadRequest("unknown artist").WithKey(i18n.KeyArtworkArtistNotFound)
	}
	return artists, nil
}

func canManage(artwork *models.Artwork, actor *Actor) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin {
		return true
	}
	return artwork.Creator != nil && artwork.Creator.UUID == actor.UserID
}

