package models

import (
	"time"

	"github.com/google/uuid"
)

// UserPreference holds per-user UI defaults. VehicleFilterID narrows the
// inventory views to one vehicle until the user clears it.
type UserPreference struct {
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey"`
	VehicleFilterID *uuid.UUID `gorm:"column:vehicle_filter_id;type:uuid"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
