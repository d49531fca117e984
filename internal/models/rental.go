// internal/models/rental.go
package models

import (
	"time"
)

type Rental struct {
	BaseModel
	ArtworkID        uint         `json:"-" gorm:"not null;index"`
	UserID           uint         `json:"-" gorm:"not null;index"`
	Address          string       `json:"address" gorm:"type:text;not null"`
	PhoneNumber      string       `json:"phone_number" gorm:"size:32;not null"`
	StartDate        time.Time    `json:"start_date" gorm:"type:date;not null"`
	EndDate          time.Time    `json:"end_date" gorm:"type:date;not null"`
	Status           RentalStatus `json:"status" gorm:"type:varchar(20);default:'requested';not null;index"`
	ApprovedBy       *uint        `json:"-"`
	ApprovedAt       *time.Time   `json:"approved_at,omitempty"`
	FinalizedBy      *uint        `json:"-"`
	FinalizedAt      *time.Time   `json:"finalized_at,omitempty"`
	PaymentReference string       `json:"payment_reference,omitempty" gorm:"size:255"`

	// Relationships
	Artwork   *Artwork `json:"artwork,omitempty" gorm:"foreignKey:ArtworkID"`
	User      *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Approver  *User    `json:"approver,omitempty" gorm:"foreignKey:ApprovedBy"`
	Finalizer *User    `json:"finalizer,omitempty" gorm:"foreignKey:FinalizedBy"`
}

// RentalPeriodEnd returns the end of a rental that starts on start.
func RentalPeriodEnd(start time.Time) time.Time {
	return start.AddDate(0, 1, 0)
}
