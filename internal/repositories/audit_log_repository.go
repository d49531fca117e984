// internal/repositories/audit_log_repository.go
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/art-rental-backend/internal/models"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error)
}
