package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/rallycommand/rallycommand-backend/pkg/db/types"
	"github.com/shopspring/decimal"
)

// RepairPart is one part consumed during a repair, either pulled from
// inventory or sourced new.
type RepairPart struct {
	Name            string          `json:"name"`
	Source          string          `json:"source"`
	InventoryItemID *uuid.UUID      `json:"inventory_item_id,omitempty"`
	Quantity        int             `json:"quantity"`
	Cost            decimal.Decimal `json:"cost"`
}

// RepairParts is the persisted list of parts on a repair log.
type RepairParts []RepairPart

// RepairLog documents damage and the work done to fix it.
type RepairLog struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	VehicleID      uuid.UUID           `gorm:"column:vehicle_id;type:uuid;not null;index" json:"vehicle_id"`
	CauseOfDamage  string              `gorm:"column:cause_of_damage;not null;default:''" json:"cause_of_damage"`
	AffectedArea   string              `gorm:"column:affected_area;not null;default:''" json:"affected_area"`
	PartsUsed      RepairParts         `gorm:"column:parts_used;type:jsonb;serializer:json" json:"parts_used"`
	TotalPartsCost decimal.Decimal     `gorm:"column:total_parts_cost;type:numeric(12,2);not null;default:0" json:"total_parts_cost"`
	RepairDetails  string              `gorm:"column:repair_details;not null;default:''" json:"repair_details"`
	Technicians    dbtypes.StringArray `gorm:"column:technicians;type:text;not null;default:'[]'" json:"technicians"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
