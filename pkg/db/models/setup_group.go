package models

import (
	"time"

	"github.com/google/uuid"
)

// SetupGroup gathers related setups for one vehicle at one event or track.
type SetupGroup struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	VehicleID uuid.UUID  `gorm:"column:vehicle_id;type:uuid;not null;index" json:"vehicle_id"`
	Name      string     `gorm:"column:name;not null" json:"name"`
	TrackName string     `gorm:"column:track_name;not null;default:''" json:"track_name"`
	Date      *time.Time `gorm:"column:date" json:"date,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
