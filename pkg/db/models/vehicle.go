package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a rally car the user tracks parts and setups against.
type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	Make         string    `gorm:"column:make;not null" json:"make"`
	Model        string    `gorm:"column:model;not null" json:"model"`
	Registration string    `gorm:"column:registration;not null;default:''" json:"registration"`
	VIN          string    `gorm:"column:vin;not null;default:''" json:"vin"`
	Photo        string    `gorm:"column:photo;not null;default:''" json:"photo"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
