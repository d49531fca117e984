// internal/models/medium.go
package models

type Medium struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`

	Artworks []Artwork `json:"-" gorm:"many2many:artwork_mediums;"`
}

func (Medium) TableName() string {
	return "mediums"
}
