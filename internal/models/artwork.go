// internal/models/artwork.go
package models

import (
	"time"
)

type Artwork struct {
	BaseModel
	Title       string           `json:"title" gorm:"size:255;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Width       *float64         `json:"width,omitempty" gorm:"type:decimal(10,2)"`
	Height      *float64         `json:"height,omitempty" gorm:"type:decimal(10,2)"`
	Depth       *float64         `json:"depth,omitempty" gorm:"type:decimal(10,2)"`
	MonthlyRate float64          `json:"monthly_rate" gorm:"type:decimal(10,2);default:0"`
	Status      ModerationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedBy   uint             `json:"-" gorm:"not null;index"`
	ReviewedBy  *uint            `json:"-"`
	ReviewNotes string           `json:"review_notes,omitempty" gorm:"type:text"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`

	// Relationships
	Creator  *User          `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Reviewer *User          `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
	Artists  []User         `json:"artists,omitempty" gorm:"many2many:artwork_artists;"`
	Mediums  []Medium       `json:"mediums,omitempty" gorm:"many2many:artwork_mediums;"`
	Images   []ArtworkImage `json:"images,omitempty" gorm:"foreignKey:ArtworkID"`
}

// IsCreatedBy reports whether userID created the artwork.
func (a *Artwork) IsCreatedBy(userID uint) bool {
	return a.CreatedBy == userID
}

type ArtworkImage struct {
	BaseModel
	ArtworkID uint   `json:"-" gorm:"not null;index"`
	URL       string `json:"url" gorm:"type:text;not null"`
	Key       string `json:"-" gorm:"size:512"`
	Position  int    `json:"position" gorm:"not null;default:0"`
}
