// internal/models/user.go
package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	PhoneNumber  string     `json:"phone_number,omitempty" gorm:"size:32"`
	Bio          string     `json:"bio,omitempty" gorm:"type:text"`
	IsAdmin      bool       `json:"is_admin" gorm:"default:false;index"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	CreatedArtworks []Artwork `json:"created_artworks,omitempty" gorm:"foreignKey:CreatedBy"`
	Rentals         []Rental  `json:"rentals,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UserSummary is the public projection of a user embedded in other resources.
type UserSummary struct {
	UUID      string `json:"uuid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		UUID:      u.UUID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
	}
}
