// internal/services/user_service.go
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

type UserService struct {
	users repositories.UserRepository
}

// UpdateUserProfileRequest leaves nil fields untouched.
type UpdateUserProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// PublicProfile is what other users may see.
type PublicProfile struct {
	models.UserSummary
	MemberSince string `json:"member_since"`
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func errUserNotFound() *AppError {
	return NotFound("user not found").WithKey(i18n.KeyUserNotFound)
}

func (s *UserService) GetUserByUUID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByUUID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, errUserNotFound())
	}
	return user, nil
}

func (s *UserService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.GetUserByUUID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		UserSummary: user.Summary(),
		MemberSince: user.CreatedAt.Format("2006-01-02"),
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateUserProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, BadRequest("validation failed").WithKey(i18n.KeyValidationFailed).Wrap(err)
	}

	user, err := s.GetUserByUUID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.users.Update(ctx, user, updates); err != nil {
		return nil, Internal("failed to update profile", err)
	}

	return s.GetUserByUUID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, utils.NormalizePagination(params))
	if err != nil {
		return nil, 0, Internal("failed to load users", err)
	}
	return users, total, nil
}
