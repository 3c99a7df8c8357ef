package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
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
	require.NoError(t, db.Exec(items).Error)
	return db
}

func newItem(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, quantity, minStock int) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		Category: enums.ItemCategoryParts,
		Quantity: quantity,
		MinStock: minStock,
		Price:    decimal.NewFromFloat(25.00),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryListFilters(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	pads := newItem(t, db, userID, "Brake Pads", 4, 2)
	newItem(t, db, userID, "Gearbox Oil", 1, 2)
	newItem(t, db, uuid.New(), "Other User Item", 9, 1)

	all, err := repo.List(ctx, userID, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	low, err := repo.List(ctx, userID, ListFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Gearbox Oil", low[0].Name)

	searched, err := repo.List(ctx, userID, ListFilter{Search: "brake"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, pads.ID, searched[0].ID)
}

func TestRepositoryFindScopedByOwner(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	item := newItem(t, db, owner, "Mudflaps", 2, 1)

	got, err := repo.FindByID(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)

	_, err = repo.FindByID(ctx, uuid.New(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryAdjustQuantityGuardsOverdraft(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	item := newItem(t, db, userID, "Wheel Nuts", 5, 1)

	affected, err := repo.AdjustQuantity(ctx, userID, item.ID, -3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.AdjustQuantity(ctx, userID, item.ID, -10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	got, err := repo.FindByID(ctx, userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

func TestRepositorySetQuantityIfExpected(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	item := newItem(t, db, userID, "Driveshaft", 4, 1)

	affected, err := repo.SetQuantityIfExpected(ctx, userID, item.ID, 4, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	// snapshot is now stale, the conditional write must not fire
	affected, err = repo.SetQuantityIfExpected(ctx, userID, item.ID, 4, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	got, err := repo.FindByID(ctx, userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}
