package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
)

func setupDashboardTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:dashboard_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  subcategory TEXT,
  condition TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  location TEXT NOT NULL DEFAULT '',
  part_number TEXT NOT NULL DEFAULT '',
  supplier TEXT NOT NULL DEFAULT '',
  supplier_url TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL DEFAULT 0,
  min_stock INTEGER NOT NULL DEFAULT 1,
  notes TEXT NOT NULL DEFAULT '',
  photos TEXT NOT NULL DEFAULT '[]',
  vehicle_ids TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  registration TEXT NOT NULL DEFAULT '',
  vin TEXT NOT NULL DEFAULT '',
  photo TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS usage_logs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  quantity_used INTEGER NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  event_name TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS stocktake_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  lines TEXT,
  notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'saved',
  total_items_counted INTEGER NOT NULL DEFAULT 0,
  items_matched INTEGER NOT NULL DEFAULT 0,
  items_over INTEGER NOT NULL DEFAULT 0,
  items_under INTEGER NOT NULL DEFAULT 0,
  total_value_difference NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  applied_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return db.FromGorm(conn)
}

func TestStatsAggregatesInventory(t *testing.T) {
	client := setupDashboardTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	userID := uuid.New()
	pads := &models.InventoryItem{
		ID: uuid.New(), UserID: userID, Name: "Brake Pads", Category: "parts",
		Quantity: 4, MinStock: 2, Price: decimal.NewFromFloat(25.00),
	}
	oil := &models.InventoryItem{
		ID: uuid.New(), UserID: userID, Name: "Gearbox Oil", Category: "consumables",
		Quantity: 1, MinStock: 3, Price: decimal.NewFromFloat(40.00),
	}
	require.NoError(t, client.DB().Create(pads).Error)
	require.NoError(t, client.DB().Create(oil).Error)

	// another user's stock never leaks into the numbers
	require.NoError(t, client.DB().Create(&models.InventoryItem{
		ID: uuid.New(), UserID: uuid.New(), Name: "Other", Category: "parts",
		Quantity: 99, Price: decimal.NewFromFloat(1000),
	}).Error)

	require.NoError(t, client.DB().Create(&models.Vehicle{
		ID: uuid.New(), UserID: userID, Make: "Ford", Model: "Fiesta R5",
	}).Error)

	require.NoError(t, client.DB().Create(&models.UsageLog{
		ID: uuid.New(), UserID: userID, ItemID: pads.ID,
		QuantityUsed: 2, EventName: "Rally Finland", CreatedAt: time.Now(),
	}).Error)

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 5, stats.TotalQuantity)
	assert.Equal(t, 1, stats.LowStockItems)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromFloat(140.00)),
		"total value %s", stats.TotalValue)
	assert.Equal(t, 1, stats.VehicleCount)
	assert.Zero(t, stats.StocktakeCount)

	require.Len(t, stats.RecentUsage, 1)
	assert.Equal(t, "Brake Pads", stats.RecentUsage[0].ItemName)
	assert.Equal(t, "Rally Finland", stats.RecentUsage[0].EventName)
}

func TestStatsEmptyAccount(t *testing.T) {
	client := setupDashboardTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalItems)
	assert.True(t, stats.TotalValue.IsZero())
	assert.Empty(t, stats.RecentUsage)
}

func TestStatsResolvesDeletedItemName(t *testing.T) {
	client := setupDashboardTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, client.DB().Create(&models.UsageLog{
		ID: uuid.New(), UserID: userID, ItemID: uuid.New(),
		QuantityUsed: 1, CreatedAt: time.Now(),
	}).Error)

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stats.RecentUsage, 1)
	assert.Equal(t, "(deleted item)", stats.RecentUsage[0].ItemName)
}
