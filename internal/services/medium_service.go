// internal/services/medium_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

type MediumService struct {
	mediums repositories.MediumRepository
}

type CreateMediumRequest struct {
	Name string `json:"name" validate:"required,medium_name"`
}

func NewMediumService(mediums repositories.MediumRepository) *MediumService {
	return &MediumService{mediums: mediums}
}

func (s *MediumService) ListMediums(ctx context.Context) ([]models.Medium, error) {
	mediums, err := s.mediums.FindAll(ctx)
	if err != nil {
		return nil, Internal("failed to load mediums", err)
	}
	return mediums, nil
}

func (s *MediumService) CreateMedium(ctx context.Context, req *CreateMediumRequest) (*models.Medium, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, BadRequest("validation failed").WithKey(i18n.KeyValidationFailed).Wrap(err)
	}

	medium := &models.Medium{Name: req.Name}
	if err := s.mediums.Create(ctx, medium); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, Conflict("medium already exists").WithKey(i18n.KeyMediumExists)
		}
		return nil, Internal("failed to create medium", err)
	}
	return medium, nil
}

// DeleteMedium removes the medium and detaches it from every artwork.
func (s *MediumService) DeleteMedium(ctx context.Context, mediumID uuid.UUID) error {
	medium, err := s.mediums.FindByUUID(ctx, mediumID)
	if err != nil {
		return lookupError(err, NotFound("medium not found").WithKey(i18n.KeyMediumNotFound))
	}

	if err := s.mediums.Delete(ctx, medium); err != nil {
		return Internal("failed to delete medium", err)
	}
	return nil
}
