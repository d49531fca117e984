// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UUID      uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the public identifier client-side so callers can
// reference a row before it is read back.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == uuid.Nil {
		b.UUID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type RentalStatus string

const (
	RentalStatusRequested RentalStatus = "requested"
	RentalStatusApproved  RentalStatus = "approved"
	RentalStatusFinalized RentalStatus = "finalized"
	RentalStatusRejected  RentalStatus = "rejected"
)

// IsActive reports whether a rental in this status occupies its artwork.
func (s RentalStatus) IsActive() bool {
	return s == RentalStatusRequested || s == RentalStatusApproved
}

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusRequested, RentalStatusApproved, RentalStatusFinalized, RentalStatusRejected:
		return true
	}
	return false
}

// ActiveRentalStatuses lists the statuses that count against availability.
func ActiveRentalStatuses() []RentalStatus {
	return []RentalStatus{RentalStatusRequested, RentalStatusApproved}
}

type ModerationStatus string

const (
	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusDeclined ModerationStatus = "declined"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case ModerationStatusPending, ModerationStatusApproved, ModerationStatusDeclined:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusSkipped NotificationStatus = "skipped"
)
