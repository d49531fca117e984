// internal/repositories/notification_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return translateError(r.db.WithContext(ctx).Create(notification).Error)
}

func (r *notificationRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{})
	if params.Search != "" {
		query = query.Where("kind = ?", params.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var notifications []models.Notification
	query = utils.ApplySort(query, params, "", []string{"created_at", "kind", "status"})
	if err := utils.ApplyPagination(query, params).Find(&notifications).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return notifications, total, nil
}
