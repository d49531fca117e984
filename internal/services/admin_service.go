// internal/services/admin_service.go
package services

import (
	"context"
	"time"

	"github.com/javajoker/art-rental-backend/internal/models"
	"github.com/javajoker/art-rental-backend/internal/repositories"
)

type AdminService struct {
	stats repositories.StatsRepository
	now   func() time.Time
}

type AdminDashboardStats struct {
	TotalUsers        int64            `json:"total_users"`
	NewUsersThisMonth int64            `json:"new_users_this_month"`
	UserGrowth        float64          `json:"user_growth"` // percent vs last month
	Artworks          map[string]int64 `json:"artworks"`
	PendingArtworks   int64            `json:"pending_artworks"`
	Rentals           map[string]int64 `json:"rentals"`
	PendingRentals    int64            `json:"pending_rentals"`
	ActiveRentals     int64            `json:"active_rentals"`
}

func NewAdminService(stats repositories.StatsRepository) *AdminService {
	return &AdminService{
		stats: stats,
		now:   time.Now,
	}
}

func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var err error

	// User statistics
	if stats.TotalUsers, err = s.stats.CountUsers(ctx, nil); err != nil {
		return nil, Internal("failed to count users", err)
	}
	if stats.NewUsersThisMonth, err = s.stats.CountUsers(ctx, &monthStart); err != nil {
		return nil, Internal("failed to count users", err)
	}
	sinceLastMonth, err := s.stats.CountUsers(ctx, &lastMonthStart)
	if err != nil {
		return nil, Internal("failed to count users", err)
	}

	// Growth calculations
	if lastMonthUsers := sinceLastMonth - stats.NewUsersThisMonth; lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}

	if stats.Artworks, err = s.stats.CountArtworksByStatus(ctx); err != nil {
		return nil, Internal("failed to count artworks", err)
	}
	stats.PendingArtworks = stats.Artworks[string(models.ModerationStatusPending)]

	if stats.Rentals, err = s.stats.CountRentalsByStatus(ctx); err != nil {
		return nil, Internal("failed to count rentals", err)
	}
	stats.PendingRentals = stats.Rentals[string(models.RentalStatusRequested)]
	for _, status := range models.ActiveRentalStatuses() {
		stats.ActiveRentals += stats.Rentals[string(status)]
	}

	return stats, nil
}
