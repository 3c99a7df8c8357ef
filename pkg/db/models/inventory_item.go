package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/rallycommand/rallycommand-backend/pkg/db/types"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// InventoryItem is one line of stock owned by a single user.
type InventoryItem struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	Name        string              `gorm:"column:name;not null" json:"name"`
	Category    enums.ItemCategory  `gorm:"column:category;type:text;not null;index" json:"category"`
	Subcategory *string             `gorm:"column:subcategory" json:"subcategory,omitempty"`
	Condition   *string             `gorm:"column:condition" json:"condition,omitempty"`
	Quantity    int                 `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Location    string              `gorm:"column:location;not null;default:''" json:"location"`
	PartNumber  string              `gorm:"column:part_number;not null;default:''" json:"part_number"`
	Supplier    string              `gorm:"column:supplier;not null;default:''" json:"supplier"`
	SupplierURL string              `gorm:"column:supplier_url;not null;default:''" json:"supplier_url"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	MinStock    int                 `gorm:"column:min_stock;not null;default:1" json:"min_stock"`
	Notes       string              `gorm:"column:notes;not null;default:''" json:"notes"`
	Photos      dbtypes.StringArray `gorm:"column:photos;type:text;not null;default:'[]'" json:"photos"`
	VehicleIDs  dbtypes.UUIDArray   `gorm:"column:vehicle_ids;type:text;not null;default:'{}'" json:"vehicle_ids"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// IsLowStock reports whether the quantity sits at or below the configured minimum.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}
