// internal/repositories/stats_repository.go
package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/art-rental-backend/internal/models"
)

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *statsRepository) CountUsers(ctx context.Context, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *statsRepository) CountArtworksByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countByStatus(ctx, &models.Artwork{})
}

func (r *statsRepository) CountRentalsByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countByStatus(ctx, &models.Rental{})
}

func (r *statsRepository) countByStatus(ctx context.Context, model interface{}) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
