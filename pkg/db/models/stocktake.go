package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// StocktakeLine is one item's snapshot inside a stocktake. Expected quantity
// and unit price are frozen at session start and never track later edits to
// the live item.
type StocktakeLine struct {
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Location         string          `json:"location"`
	ExpectedQuantity int             `json:"expected_quantity"`
	ActualQuantity   int             `json:"actual_quantity"`
	Counted          bool            `json:"counted"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Difference       int             `json:"difference"`
	ValueDifference  decimal.Decimal `json:"value_difference"`
}

// StocktakeLines is the persisted line list on a stocktake record.
type StocktakeLines []StocktakeLine

// StocktakeRecord is a finalized count. Created once when the user saves,
// optionally transitioned saved -> applied exactly once, never mutated
// otherwise.
type StocktakeRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"-"`

	Lines  StocktakeLines        `gorm:"column:lines;type:jsonb;serializer:json" json:"lines"`
	Notes  string                `gorm:"column:notes;not null;default:''" json:"notes"`
	Status enums.StocktakeStatus `gorm:"column:status;type:text;not null;default:'saved'" json:"status"`

	TotalItemsCounted    int             `gorm:"column:total_items_counted;not null;default:0" json:"total_items_counted"`
	ItemsMatched         int             `gorm:"column:items_matched;not null;default:0" json:"items_matched"`
	ItemsOver            int             `gorm:"column:items_over;not null;default:0" json:"items_over"`
	ItemsUnder           int             `gorm:"column:items_under;not null;default:0" json:"items_under"`
	TotalValueDifference decimal.Decimal `gorm:"column:total_value_difference;type:numeric(12,2);not null;default:0" json:"total_value_difference"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	AppliedAt *time.Time `gorm:"column:applied_at" json:"applied_at,omitempty"`
}
