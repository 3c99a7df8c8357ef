package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
)

// ItemDTO is the transport shape for one inventory item.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Subcategory *string         `json:"subcategory,omitempty"`
	Condition   *string         `json:"condition,omitempty"`
	Quantity    int             `json:"quantity"`
	Location    string          `json:"location"`
	PartNumber  string          `json:"part_number"`
	Supplier    string          `json:"supplier"`
	SupplierURL string          `json:"supplier_url"`
	Price       decimal.Decimal `json:"price"`
	MinStock    int             `json:"min_stock"`
	Notes       string          `json:"notes"`
	Photos      []string        `json:"photos"`
	VehicleIDs  []uuid.UUID     `json:"vehicle_ids"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateItemRequest is the payload for adding an item.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Subcategory *string         `json:"subcategory,omitempty"`
	Condition   *string         `json:"condition,omitempty"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Location    string          `json:"location"`
	PartNumber  string          `json:"part_number"`
	Supplier    string          `json:"supplier"`
	SupplierURL string          `json:"supplier_url"`
	Price       decimal.Decimal `json:"price"`
	MinStock    int             `json:"min_stock" validate:"gte=0"`
	Notes       string          `json:"notes"`
	Photos      []string        `json:"photos" validate:"max=3"`
	VehicleIDs  []uuid.UUID     `json:"vehicle_ids" validate:"max=2"`
}

// UpdateItemRequest mirrors CreateItemRequest for full replacement updates.
type UpdateItemRequest = CreateItemRequest

// ListFilter narrows the inventory listing.
type ListFilter struct {
	Category string
	Search   string
	LowStock bool
}

func FromModel(m *models.InventoryItem) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category.String(),
		Subcategory: m.Subcategory,
		Condition:   m.Condition,
		Quantity:    m.Quantity,
		Location:    m.Location,
		PartNumber:  m.PartNumber,
		Supplier:    m.Supplier,
		SupplierURL: m.SupplierURL,
		Price:       m.Price,
		MinStock:    m.MinStock,
		Notes:       m.Notes,
		Photos:      append([]string(nil), []string(m.Photos)...),
		VehicleIDs:  append([]uuid.UUID(nil), []uuid.UUID(m.VehicleIDs)...),
		LowStock:    m.IsLowStock(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromModels(items []models.InventoryItem) []*ItemDTO {
	out := make([]*ItemDTO, 0, len(items))
	for i := range items {
		out = append(out, FromModel(&items[i]))
	}
	return out
}
