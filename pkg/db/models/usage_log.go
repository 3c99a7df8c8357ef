package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageLog records stock being taken out of an inventory item.
type UsageLog struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	ItemID       uuid.UUID `gorm:"column:item_id;type:uuid;not null;index" json:"item_id"`
	QuantityUsed int       `gorm:"column:quantity_used;not null" json:"quantity_used"`
	Reason       string    `gorm:"column:reason;not null;default:''" json:"reason"`
	EventName    string    `gorm:"column:event_name;not null;default:''" json:"event_name"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
