package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
	"github.com/javajoker/art-rental-backend/internal/repositories/mocks"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	user := newUser(7, "grace@example.com", false)
	users := new(mocks.UserRepository)
	users.On("FindByUUID", mock.Anything, user.UUID).Return(user, nil)
	users.On("Update", mock.Anything, user, map[string]interface{}{
		"first_name":   "Grace",
		"phone_number": "+44 20 7946 0958",
	}).Return(nil).Once()

	service := NewUserService(users)
	_, err := service.UpdateProfile(context.Background(), user.UUID, &UpdateUserProfileRequest{
		FirstName:   strPtr(" Grace "),
		PhoneNumber: strPtr("+44 20 7946 0958"),
	})
	require.NoError(t, err)

	_, err = service.UpdateProfile(context.Background(), user.UUID, &UpdateUserProfileRequest{PhoneNumber: strPtr("nope")})
	assert.Equal(t, KindBadRequest, KindOf(err))

	// Nothing to change
	got, err := service.UpdateProfile(context.Background(), user.UUID, &UpdateUserProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, user, got)
	users.AssertExpectations(t)
}

func TestGetPublicProfile(t *testing.T) {
	user := newUser(7, "grace@example.com", false)
	users := new(mocks.UserRepository)
	users.On("FindByUUID", mock.Anything, user.UUID).Return(user, nil)
	users.On("FindByUUID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)
	service := NewUserService(users)

	profile, err := service.GetPublicProfile(context.Background(), user.UUID)
	require.NoError(t, err)
	assert.Equal(t, user.UUID.String(), profile.UUID)

	_, err = service.GetPublicProfile(context.Background(), uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListUsersNormalizesPagination(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("List", mock.Anything, utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}).
		Return([]models.User{{Email: "a@example.com"}}, int64(1), nil).Once()

	list, total, err := NewUserService(users).ListUsers(context.Background(), utils.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), total)
}

func TestMediumService(t *testing.T) {
	mediums := new(mocks.MediumRepository)
	mediums.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Medium) bool { return m.Name == "Watercolor" })).
		Return(nil).Once()
	mediums.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Medium) bool { return m.Name == "Oil" })).
		Return(repositories.ErrConflict).Once()
	service := NewMediumService(mediums)

	created, err := service.CreateMedium(context.Background(), &CreateMediumRequest{Name: " Watercolor "})
	require.NoError(t, err)
	assert.Equal(t, "Watercolor", created.Name)

	_, err = service.CreateMedium(context.Background(), &CreateMediumRequest{Name: "Oil"})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = service.CreateMedium(context.Background(), &CreateMediumRequest{Name: "<b>"})
	assert.Equal(t, KindBadRequest, KindOf(err))

	missing := uuid.New()
	mediums.On("FindByUUID", mock.Anything, missing).Return(nil, repositories.ErrNotFound).Once()
	assert.Equal(t, KindNotFound, KindOf(service.DeleteMedium(context.Background(), missing)))

	oil := &models.Medium{BaseModel: models.BaseModel{ID: 3, UUID: uuid.New()}, Name: "Oil"}
	mediums.On("FindByUUID", mock.Anything, oil.UUID).Return(oil, nil).Once()
	mediums.On("Delete", mock.Anything, oil).Return(nil).Once()
	assert.NoError(t, service.DeleteMedium(context.Background(), oil.UUID))

	mediums.AssertExpectations(t)
}
