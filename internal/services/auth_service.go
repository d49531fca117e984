// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

type AuthService struct {
	users repositories.UserRepository
	cfg   *config.Config
	now   func() time.Time
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strong_password"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

func NewAuthService(users repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		now:   time.Now,
	}
}

func errInvalidCredentials() *AppError {
	return Unauthorized("invalid email or password").WithKey(i18n.KeyAuthInvalidCredentials)
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, BadRequest("validation failed").WithKey(i18n.KeyValidationFailed).Wrap(err)
	}

	// Check if user already exists
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, Conflict("user with this email already exists").WithKey(i18n.KeyAuthUserExists)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, Internal("database error", err)
	}

	user := &models.User{
		Email:       req.Email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Bio:         strings.TrimSpace(req.Bio),
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, Internal("failed to hash password", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, repositories.ErrConflict) {
			return nil, Conflict("user with this email already exists").WithKey(i18n.KeyAuthUserExists)
		}
		return nil, Internal("failed to create user", err)
	}

	logrus.WithField("user_uuid", user.UUID).Info("User registered")

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, BadRequest("validation failed").WithKey(i18n.KeyValidationFailed).Wrap(err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, Internal("database error", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, errInvalidCredentials()
	}

	// Update last login time
	now := s.now()
	if err := s.users.Update(ctx, user, map[string]interface{}{"last_login_at": now}); err != nil {
		logrus.WithError(err).WithField("user_uuid", user.UUID).Warn("Failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	return s.issueToken(user)
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByUUID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, NotFound("user not found").WithKey(i18n.KeyUserNotFound))
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.UUID, user.Email, user.IsAdmin, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, Internal("failed to generate access token", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
