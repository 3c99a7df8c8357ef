package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a message submitted through the public feedback form.
type Feedback struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null;default:''"`
	Email        string    `gorm:"column:email;not null;default:''"`
	FeedbackType string    `gorm:"column:feedback_type;not null;default:'bug'"`
	Message      string    `gorm:"column:message;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
