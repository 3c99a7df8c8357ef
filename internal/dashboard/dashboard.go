package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const recentActivityLimit = 5

// StatsDTO is the aggregate view rendered on the dashboard.
type StatsDTO struct {
	TotalItems     int             `json:"total_items"`
	TotalQuantity  int             `json:"total_quantity"`
	LowStockItems  int             `json:"low_stock_items"`
	TotalValue     decimal.Decimal `json:"total_value"`
	VehicleCount   int             `json:"vehicle_count"`
	StocktakeCount int             `json:"stocktake_count"`
	RecentUsage    []ActivityDTO   `json:"recent_usage"`
}

// ActivityDTO is one recent usage entry with its item name resolved.
type ActivityDTO struct {
	ItemID       uuid.UUID `json:"item_id"`
	ItemName     string    `json:"item_name"`
	QuantityUsed int       `json:"quantity_used"`
	EventName    string    `json:"event_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service computes dashboard aggregates for one user.
type Service interface {
	Stats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error)
}

type service struct {
	db *db.Client
}

// NewService constructs a dashboard service.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: client}, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error) {
	var items []models.InventoryItem
	err := s.db.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory")
	}

	stats := &StatsDTO{
		TotalItems: len(items),
		TotalValue: decimal.Zero,
	}
	for _, item := range items {
		stats.TotalQuantity += item.Quantity
		stats.TotalValue = stats.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		if item.IsLowStock() {
			stats.LowStockItems++
		}
	}

	var vehicleCount int64
	err = s.db.DB().WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("user_id = ?", userID).
		Count(&vehicleCount).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count vehicles")
	}
	stats.VehicleCount = int(vehicleCount)

	var stocktakeCount int64
	err = s.db.DB().WithContext(ctx).
		Model(&models.StocktakeRecord{}).
		Where("user_id = ?", userID).
		Count(&stocktakeCount).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count stocktakes")
	}
	stats.StocktakeCount = int(stocktakeCount)

	recent, err := s.recentUsage(ctx, userID, items)
	if err != nil {
		return nil, err
	}
	stats.RecentUsage = recent

	return stats, nil
}

func (s *service) recentUsage(ctx context.Context, userID uuid.UUID, items []models.InventoryItem) ([]ActivityDTO, error) {
	var logs []models.UsageLog
	err := s.db.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentActivityLimit).
		Find(&logs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent usage")
	}

	namesByID := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		namesByID[item.ID] = item.Name
	}

	out := make([]ActivityDTO, 0, len(logs))
	for _, log := range logs {
		name, ok := namesByID[log.ItemID]
		if !ok {
			name = "(deleted item)"
		}
		out = append(out, ActivityDTO{
			ItemID:       log.ItemID,
			ItemName:     name,
			QuantityUsed: log.QuantityUsed,
			EventName:    log.EventName,
			CreatedAt:    log.CreatedAt,
		})
	}
	return out, nil
}
