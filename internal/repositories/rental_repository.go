// internal/repositories/rental_repository.go
package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Artwork").
		Preload("Artwork.Images", orderedImages).
		Preload("User").
		Preload("Approver").
		Preload("Finalizer")
}

func activeRentals(db *gorm.DB, artworkID uint) *gorm.DB {
	return db.Model(&models.Rental{}).
		Where("artwork_id = ? AND status IN ?", artworkID, models.ActiveRentalStatuses())
}

func (r *rentalRepository) IsArtworkAvailable(ctx context.Context, artworkID uint) (bool, error) {
	var active int64
	if err := activeRentals(r.db.WithContext(ctx), artworkID).Count(&active).Error; err != nil {
		return false, translateError(err)
	}
	return active == 0, nil
}

func (r *rentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(rental).Error)
}

func (r *rentalRepository) CreateIfAvailable(ctx context.Context, rental *models.Rental) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize requests for the same artwork on its row lock
		var artwork models.Artwork
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&artwork, rental.ArtworkID).Error; err != nil {
			return err
		}

		var active int64
		if err := activeRentals(tx, rental.ArtworkID).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrArtworkUnavailable
		}

		return tx.Omit(clause.Associations).Create(rental).Error
	})

	if errors.Is(err, ErrArtworkUnavailable) {
		return err
	}
	// The partial unique index is the last line against a concurrent insert
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrArtworkUnavailable
	}
	return translateError(err)
}

func (r *rentalRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Rental, error) {
	result := r.db.WithContext(ctx).Model(&models.Rental{}).Where("uuid = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByUUID(ctx, id)
}

func (r *rentalRepository) Transition(ctx context.Context, id uuid.UUID, from models.RentalStatus, fields map[string]interface{}) (*models.Rental, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("uuid = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrStaleTransition
	}
	return r.FindByUUID(ctx, id)
}

func (r *rentalRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	if err := r.withDetails(ctx).Where("uuid = ?", id).First(&rental).Error; err != nil {
		return nil, translateError(err)
	}
	return &rental, nil
}

func (r *rentalRepository) FindAll(ctx context.Context, filter RentalFilter) ([]models.Rental, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Rental{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var rentals []models.Rental
	query = utils.ApplySort(query, filter.PaginationParams, "rentals", []string{"created_at", "start_date", "status"})
	err := utils.ApplyPagination(query, filter.PaginationParams).
		Preload("Artwork").
		Preload("User").
		Find(&rentals).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return rentals, total, nil
}

func (r *rentalRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.db.WithContext(ctx).
		Preload("Artwork").
		Preload("Artwork.Images", orderedImages).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rentals).Error
	if err != nil {
		return nil, translateError(err)
	}
	return rentals, nil
}

func (r *rentalRepository) FindPendingRequests(ctx context.Context) ([]models.Rental, error) {
	var rentals []models.Rental
	err := r.db.WithContext(ctx).
		Preload("Artwork").
		Preload("User").
		Where("status = ?", models.RentalStatusRequested).
		Order("created_at ASC").
		Find(&rentals).Error
	if err != nil {
		return nil, translateError(err)
	}
	return rentals, nil
}

func (r *rentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("uuid = ?", id).Delete(&models.Rental{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
