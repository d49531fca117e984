// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/art-rental-backend/internal/config"
	"github.com/javajoker/art-rental-backend/internal/models"
)

// DefaultMediums are created on first start so artworks can be tagged immediately.
var DefaultMediums = []string{
	"Oil",
	"Acrylic",
	"Watercolor",
	"Ink",
	"Charcoal",
	"Photography",
	"Sculpture",
	"Digital",
	"Mixed Media",
}

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), newGormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

func newGormConfig(level string) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(level),
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
		return
	}
	logrus.Info("Database connection closed")
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// gen_random_uuid() on PostgreSQL < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Medium{},
		&models.Artwork{},
		&models.ArtworkImage{},
		&models.Rental{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

// Indexes whose failure aborts startup. The partial unique index is what
// keeps an artwork to a single requested or approved rental.
var requiredIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_rentals_one_active_per_artwork ON rentals(artwork_id) WHERE status IN ('requested', 'approved')",
}

var optionalIndexes = []string{
	// Artwork indexes
	"CREATE INDEX IF NOT EXISTS idx_artworks_status_created ON artworks(status, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_artwork_images_artwork_position ON artwork_images(artwork_id, position)",

	// Rental indexes
	"CREATE INDEX IF NOT EXISTS idx_rentals_user_created ON rentals(user_id, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_rentals_status_created ON rentals(status, created_at DESC)",

	// Audit and notification indexes
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
	"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_notifications_kind_created ON notifications(kind, created_at DESC)",

	// Full-text search
	"CREATE INDEX IF NOT EXISTS idx_artworks_search ON artworks USING GIN(to_tsvector('english', title || ' ' || description))",
}

func createIndexes(db *gorm.DB) error {
	for _, index := range requiredIndexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("%s: %w", index, err)
		}
	}

	for _, index := range optionalIndexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData creates the bootstrap administrator, when a password is
// configured and no admin exists yet, and the default mediums.
func SeedInitialData(ctx context.Context, db *gorm.DB, seed config.SeedConfig) error {
	logrus.Info("Seeding initial data...")

	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if seed.AdminPassword != "" {
			if err := seedAdmin(tx, seed); err != nil {
				return err
			}
		}

		for _, name := range DefaultMediums {
			medium := models.Medium{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&medium).Error; err != nil {
				return fmt.Errorf("failed to seed medium %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

func seedAdmin(db *gorm.DB, seed config.SeedConfig) error {
	var adminCount int64
	if err := db.Model(&models.User{}).Where("is_admin = ?", true).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	admin := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(seed.AdminEmail)),
		FirstName: "System",
		LastName:  "Administrator",
		IsAdmin:   true,
	}
	if err := admin.SetPassword(seed.AdminPassword); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.WithField("email", admin.Email).Info("Default admin user created")
	return nil
}

// WithTransaction runs fn in a transaction bound to ctx. The transaction is
// rolled back when fn returns an error or panics.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
