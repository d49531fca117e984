// internal/repositories/medium_repository.go
package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/art-rental-backend/internal/models"
)

type mediumRepository struct {
	db *gorm.DB
}

func NewMediumRepository(db *gorm.DB) MediumRepository {
	return &mediumRepository{db: db}
}

func (r *mediumRepository) FindAll(ctx context.Context) ([]models.Medium, error) {
	var mediums []models.Medium
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&mediums).Error; err != nil {
		return nil, translateError(err)
	}
	return mediums, nil
}

func (r *mediumRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Medium, error) {
	var medium models.Medium
	if err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&medium).Error; err != nil {
		return nil, translateError(err)
	}
	return &medium, nil
}

// FindOrCreateByNames returns one medium per distinct name, inserting the
// ones that do not exist yet.
func (r *mediumRepository) FindOrCreateByNames(ctx context.Context, names []string) ([]models.Medium, error) {
	seen := make(map[string]bool, len(names))
	var wanted []models.Medium
	var lookup []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		wanted = append(wanted, models.Medium{Name: name})
		lookup = append(lookup, name)
	}
	if len(wanted) == 0 {
		return []models.Medium{}, nil
	}

	var mediums []models.Medium
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&wanted).Error; err != nil {
			return err
		}
		return tx.Where("name IN ?", lookup).Order("name ASC").Find(&mediums).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return mediums, nil
}

func (r *mediumRepository) Create(ctx context.Context, medium *models.Medium) error {
	return translateError(r.db.WithContext(ctx).Create(medium).Error)
}

func (r *mediumRepository) Delete(ctx context.Context, medium *models.Medium) error {
	return translateError(r.db.WithContext(ctx).Select("Artworks").Delete(medium).Error)
}
