// internal/repositories/artwork_repository.go
package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

var artworkSortFields = []string{"created_at", "updated_at", "title", "monthly_rate"}

type artworkRepository struct {
	db *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) ArtworkRepository {
	return &artworkRepository{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *artworkRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Reviewer").
		Preload("Artists").
		Preload("Mediums").
		Preload("Images", orderedImages)
}

func (r *artworkRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.withDetails(ctx).Where("uuid = ?", id).First(&artwork).Error; err != nil {
		return nil, translateError(err)
	}
	return &artwork, nil
}

func (r *artworkRepository) FindByID(ctx context.Context, id uint) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.withDetails(ctx).First(&artwork, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &artwork, nil
}

// Create inserts the artwork and links its existing artists and mediums.
func (r *artworkRepository) Create(ctx context.Context, artwork *models.Artwork) error {
	err := r.db.WithContext(ctx).
		Omit("Artists.*", "Mediums.*", "Creator", "Reviewer").
		Create(artwork).Error
	return translateError(err)
}

func (r *artworkRepository) Update(ctx context.Context, artwork *models.Artwork, fields map[string]interface{}) error {
	return translateError(r.db.WithContext(ctx).Model(artwork).Updates(fields).Error)
}

// Delete removes the artwork together with its images and join rows. It
// takes the artwork row lock CreateIfAvailable takes, and refuses while any
// rental references the artwork.
func (r *artworkRepository) Delete(ctx context.Context, artwork *models.Artwork) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Artwork
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&locked, artwork.ID).Error; err != nil {
			return err
		}

		var active int64
		if err := activeRentals(tx, artwork.ID).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrArtworkUnavailable
		}

		var history int64
		if err := tx.Model(&models.Rental{}).Where("artwork_id = ?", artwork.ID).Count(&history).Error; err != nil {
			return err
		}
		if history > 0 {
			return ErrArtworkHasRentals
		}

		return tx.Select("Artists", "Mediums", "Images").Delete(artwork).Error
	})

	if errors.Is(err, ErrArtworkUnavailable) || errors.Is(err, ErrArtworkHasRentals) {
		return err
	}
	return translateError(err)
}

func (r *artworkRepository) Search(ctx context.Context, filter ArtworkFilter) ([]models.Artwork, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Artwork{})

	if filter.Status != nil {
		query = query.Where("artworks.status = ?", *filter.Status)
	}
	if filter.CreatedBy != nil {
		query = query.Where("artworks.created_by = ?", *filter.CreatedBy)
	}
	if filter.Medium != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM artwork_mediums am JOIN mediums m ON m.id = am.medium_id WHERE am.artwork_id = artworks.id AND LOWER(m.name) = ?)",
			strings.ToLower(filter.Medium),
		)
	}
	if filter.Search != "" {
		searchTerm := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(artworks.title) LIKE ? OR LOWER(artworks.description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var artworks []models.Artwork
	query = utils.ApplySort(query, filter.PaginationParams, "artworks", artworkSortFields)
	err := utils.ApplyPagination(query, filter.PaginationParams).
		Preload("Artists").
		Preload("Mediums").
		Preload("Images", orderedImages).
		Find(&artworks).Error
	if err != nil {
		return nil, 0, translateError(err)
	}

	return artworks, total, nil
}

func (r *artworkRepository) ReplaceMediums(ctx context.Context, artwork *models.Artwork, mediums []models.Medium) error {
	return translateError(r.db.WithContext(ctx).Model(artwork).Association("Mediums").Replace(mediums))
}

func (r *artworkRepository) ReplaceArtists(ctx context.Context, artwork *models.Artwork, artists []models.User) error {
	return translateError(r.db.WithContext(ctx).Model(artwork).Association("Artists").Replace(artists))
}

// AddImage appends image after the artwork's current last image.
func (r *artworkRepository) AddImage(ctx context.Context, image *models.ArtworkImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the parent row so concurrent uploads get distinct positions
		var artwork models.Artwork
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&artwork, image.ArtworkID).Error; err != nil {
			return translateError(err)
		}

		var next int
		if err := tx.Model(&models.ArtworkImage{}).
			Where("artwork_id = ?", image.ArtworkID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error; err != nil {
			return translateError(err)
		}

		image.Position = next
		return translateError(tx.Create(image).Error)
	})
}
