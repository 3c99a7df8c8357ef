package usage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
	"github.com/rallycommand/rallycommand-backend/pkg/pagination"
)

// sqlite expression that fabricates a v4-shaped uuid for rows the service
// inserts without an explicit id.
const sqliteUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-a' || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

func setupUsageTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:usage_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	items := `
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
);`
	logs := `
CREATE TABLE IF NOT EXISTS usage_logs (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  user_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  quantity_used INTEGER NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  event_name TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(items).Error)
	require.NoError(t, conn.Exec(logs).Error)
	return db.FromGorm(conn)
}

func seedItem(t *testing.T, client *db.Client, userID uuid.UUID, quantity int) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "Brake Pads",
		Category: enums.ItemCategoryParts,
		Quantity: quantity,
		MinStock: 1,
		Price:    decimal.NewFromFloat(25.00),
	}
	require.NoError(t, client.DB().Create(item).Error)
	return item
}

func TestServiceCreateDeductsStock(t *testing.T) {
	client := setupUsageTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	userID := uuid.New()
	item := seedItem(t, client, userID, 5)

	log, err := svc.Create(context.Background(), userID, CreateLogRequest{
		ItemID:       item.ID,
		QuantityUsed: 3,
		Reason:       "stage damage",
		EventName:    "Rally Finland",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, log.QuantityUsed)

	var got models.InventoryItem
	require.NoError(t, client.DB().First(&got, "id = ?", item.ID).Error)
	assert.Equal(t, 2, got.Quantity)

	page, err := svc.ListByItem(context.Background(), userID, item.ID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, "Rally Finland", page.Logs[0].EventName)
	assert.Empty(t, page.NextCursor)
}

func TestServiceListByItemPaginates(t *testing.T) {
	client := setupUsageTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	userID := uuid.New()
	item := seedItem(t, client, userID, 50)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), userID, CreateLogRequest{
			ItemID:       item.ID,
			QuantityUsed: 1,
			EventName:    "Shakedown",
		})
		require.NoError(t, err)
	}

	first, err := svc.ListByItem(context.Background(), userID, item.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Logs, 2)
	require.NotEmpty(t, first.NextCursor)

	rest, err := svc.ListByItem(context.Background(), userID, item.ID, pagination.Params{
		Limit:  2,
		Cursor: first.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, rest.Logs, 1)
	assert.Empty(t, rest.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, l := range append(first.Logs, rest.Logs...) {
		assert.False(t, seen[l.ID])
		seen[l.ID] = true
	}
}

func TestServiceCreateRejectsOverdraft(t *testing.T) {
	client := setupUsageTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	userID := uuid.New()
	item := seedItem(t, client, userID, 2)

	_, err = svc.Create(context.Background(), userID, CreateLogRequest{
		ItemID:       item.ID,
		QuantityUsed: 3,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// failed usage must not touch the stock level
	var got models.InventoryItem
	require.NoError(t, client.DB().First(&got, "id = ?", item.ID).Error)
	assert.Equal(t, 2, got.Quantity)
}

func TestServiceCreateUnknownItem(t *testing.T) {
	client := setupUsageTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), CreateLogRequest{
		ItemID:       uuid.New(),
		QuantityUsed: 1,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
