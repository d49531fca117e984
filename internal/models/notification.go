// internal/models/notification.go
package models

import (
	"github.com/lib/pq"
)

// Notification records one outbound e-mail attempt.
type Notification struct {
	BaseModel
	Kind       string             `json:"kind" gorm:"size:50;not null;index"`
	Recipients pq.StringArray     `json:"recipients" gorm:"type:text[]"`
	Subject    string             `json:"subject" gorm:"size:255"`
	Provider   string             `json:"provider" gorm:"size:20"`
	Status     NotificationStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Error      string             `json:"error,omitempty" gorm:"type:text"`
	Metadata   JSONB              `json:"metadata,omitempty" gorm:"type:jsonb"`
}
