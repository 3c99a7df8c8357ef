package account

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/config"
	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	dbtypes "github.com/rallycommand/rallycommand-backend/pkg/db/types"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
	"github.com/rallycommand/rallycommand-backend/pkg/security"
)

type stubRevoker struct {
	revoked []string
	err     error
}

func (s *stubRevoker) Revoke(_ context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = append(s.revoked, accessID)
	return nil
}

var accountTestDDL = []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
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
CREATE TABLE IF NOT EXISTS setup_groups (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  name TEXT NOT NULL,
  track_name TEXT NOT NULL DEFAULT '',
  date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS setups (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  group_id TEXT,
  name TEXT NOT NULL,
  conditions TEXT NOT NULL DEFAULT '',
  tyre_compound TEXT NOT NULL DEFAULT '',
  tyre_type TEXT NOT NULL DEFAULT '',
  tyre_size TEXT NOT NULL DEFAULT '',
  tyre_condition TEXT NOT NULL DEFAULT '',
  tyre_pressure_fl REAL NOT NULL DEFAULT 0,
  tyre_pressure_fr REAL NOT NULL DEFAULT 0,
  tyre_pressure_rl REAL NOT NULL DEFAULT 0,
  tyre_pressure_rr REAL NOT NULL DEFAULT 0,
  ride_height_fl REAL NOT NULL DEFAULT 0,
  ride_height_fr REAL NOT NULL DEFAULT 0,
  ride_height_rl REAL NOT NULL DEFAULT 0,
  ride_height_rr REAL NOT NULL DEFAULT 0,
  camber_front REAL NOT NULL DEFAULT 0,
  camber_rear REAL NOT NULL DEFAULT 0,
  toe_front REAL NOT NULL DEFAULT 0,
  toe_rear REAL NOT NULL DEFAULT 0,
  spring_rate_front REAL NOT NULL DEFAULT 0,
  spring_rate_rear REAL NOT NULL DEFAULT 0,
  damper_front REAL NOT NULL DEFAULT 0,
  damper_rear REAL NOT NULL DEFAULT 0,
  arb_front REAL NOT NULL DEFAULT 0,
  arb_rear REAL NOT NULL DEFAULT 0,
  aero_front TEXT NOT NULL DEFAULT '',
  aero_rear TEXT NOT NULL DEFAULT '',
  event_name TEXT NOT NULL DEFAULT '',
  event_date DATETIME,
  rating INTEGER NOT NULL DEFAULT 0,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS repair_logs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  cause_of_damage TEXT NOT NULL DEFAULT '',
  affected_area TEXT NOT NULL DEFAULT '',
  parts_used TEXT,
  total_parts_cost NUMERIC NOT NULL DEFAULT 0,
  repair_details TEXT NOT NULL DEFAULT '',
  technicians TEXT NOT NULL DEFAULT '[]',
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
);`, `
CREATE TABLE IF NOT EXISTS user_preferences (
  user_id TEXT PRIMARY KEY,
  vehicle_filter_id TEXT,
  updated_at DATETIME
);`}

func setupAccountTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:account_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	for _, stmt := range accountTestDDL {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return db.FromGorm(conn)
}

func newAccountService(t *testing.T) (Service, *db.Client, *stubRevoker) {
	t.Helper()
	client := setupAccountTestDB(t)
	revoker := &stubRevoker{}
	svc, err := NewService(ServiceParams{DB: client, Sessions: revoker})
	require.NoError(t, err)
	return svc, client, revoker
}

func seedUser(t *testing.T, client *db.Client, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: hash,
		Name:         "Co Driver",
		IsActive:     true,
	}
	require.NoError(t, client.DB().Create(user).Error)
	return user
}

func TestUpdateProfile(t *testing.T) {
	svc, client, _ := newAccountService(t)
	user := seedUser(t, client, "pace-notes")

	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:            "Navigator",
		Email:           "Navigator@Example.com",
		CurrentPassword: "pace-notes",
	})
	require.NoError(t, err)
	assert.Equal(t, "Navigator", dto.Name)
	assert.Equal(t, "navigator@example.com", dto.Email)
}

func TestUpdateProfileWrongPassword(t *testing.T) {
	svc, client, _ := newAccountService(t)
	user := seedUser(t, client, "pace-notes")

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:            "Navigator",
		Email:           user.Email,
		CurrentPassword: "wrong",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	svc, client, _ := newAccountService(t)
	user := seedUser(t, client, "pace-notes")

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:            user.Name,
		Email:           user.Email,
		CurrentPassword: "pace-notes",
		NewPassword:     "flying-finish",
	})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, client.DB().First(&stored, "id = ?", user.ID).Error)
	ok, err := security.VerifyPassword("flying-finish", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteCascades(t *testing.T) {
	svc, client, revoker := newAccountService(t)
	user := seedUser(t, client, "pace-notes")
	stranger := seedUser(t, client, "other")

	vehicle := &models.Vehicle{ID: uuid.New(), UserID: user.ID, Make: "Ford", Model: "Fiesta R5"}
	require.NoError(t, client.DB().Create(vehicle).Error)
	item := &models.InventoryItem{
		ID: uuid.New(), UserID: user.ID, Name: "Brake Pads", Category: "parts",
		Quantity: 4, Price: decimal.NewFromFloat(25),
	}
	require.NoError(t, client.DB().Create(item).Error)
	require.NoError(t, client.DB().Create(&models.UsageLog{
		ID: uuid.New(), UserID: user.ID, ItemID: item.ID, QuantityUsed: 1,
	}).Error)
	require.NoError(t, client.DB().Create(&models.StocktakeRecord{
		ID: uuid.New(), UserID: user.ID, Lines: models.StocktakeLines{},
		TotalValueDifference: decimal.Zero,
	}).Error)
	require.NoError(t, client.DB().Create(&models.UserPreference{
		UserID: user.ID, VehicleFilterID: &vehicle.ID,
	}).Error)

	kept := &models.Vehicle{ID: uuid.New(), UserID: stranger.ID, Make: "Mitsubishi", Model: "Lancer Evo"}
	require.NoError(t, client.DB().Create(kept).Error)

	err := svc.Delete(context.Background(), user.ID, "session-1", DeleteRequest{Password: "pace-notes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"session-1"}, revoker.revoked)

	for _, model := range []any{
		&models.Vehicle{}, &models.InventoryItem{}, &models.UsageLog{},
		&models.StocktakeRecord{}, &models.UserPreference{},
	} {
		var count int64
		require.NoError(t, client.DB().Model(model).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count)
	}

	var users int64
	require.NoError(t, client.DB().Model(&models.User{}).Where("id = ?", user.ID).Count(&users).Error)
	assert.Zero(t, users)

	// the other account is untouched
	var strangersVehicles int64
	require.NoError(t, client.DB().Model(&models.Vehicle{}).Where("user_id = ?", stranger.ID).Count(&strangersVehicles).Error)
	assert.Equal(t, int64(1), strangersVehicles)
}

func TestDeleteWrongPassword(t *testing.T) {
	svc, client, revoker := newAccountService(t)
	user := seedUser(t, client, "pace-notes")

	err := svc.Delete(context.Background(), user.ID, "session-1", DeleteRequest{Password: "wrong"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Empty(t, revoker.revoked)

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, client, _ := newAccountService(t)
	source := seedUser(t, client, "pace-notes")
	target := seedUser(t, client, "pace-notes")

	vehicle := &models.Vehicle{ID: uuid.New(), UserID: source.ID, Make: "Ford", Model: "Fiesta R5"}
	require.NoError(t, client.DB().Create(vehicle).Error)
	item := &models.InventoryItem{
		ID: uuid.New(), UserID: source.ID, Name: "Brake Pads", Category: "parts",
		Quantity: 4, Price: decimal.NewFromFloat(25),
		VehicleIDs: dbtypes.UUIDArray{vehicle.ID},
	}
	require.NoError(t, client.DB().Create(item).Error)
	group := &models.SetupGroup{ID: uuid.New(), UserID: source.ID, VehicleID: vehicle.ID, Name: "Finland"}
	require.NoError(t, client.DB().Create(group).Error)
	setup := &models.Setup{
		ID: uuid.New(), UserID: source.ID, VehicleID: vehicle.ID,
		GroupID: &group.ID, Name: "Gravel base",
	}
	require.NoError(t, client.DB().Create(setup).Error)
	require.NoError(t, client.DB().Create(&models.UsageLog{
		ID: uuid.New(), UserID: source.ID, ItemID: item.ID, QuantityUsed: 2,
	}).Error)
	require.NoError(t, client.DB().Create(&models.StocktakeRecord{
		ID: uuid.New(), UserID: source.ID,
		Lines:                models.StocktakeLines{{ItemID: item.ID, ItemName: item.Name}},
		TotalValueDifference: decimal.Zero,
	}).Error)

	payload, err := svc.Export(context.Background(), source.ID)
	require.NoError(t, err)
	assert.Equal(t, exportVersion, payload.Version)
	require.Len(t, payload.Vehicles, 1)
	require.Len(t, payload.Inventory, 1)
	require.Len(t, payload.Setups, 1)
	require.Len(t, payload.Groups, 1)
	require.Len(t, payload.UsageLogs, 1)
	require.Len(t, payload.Stocktakes, 1)

	summary, err := svc.Import(context.Background(), target.ID, *payload)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Vehicles)
	assert.Equal(t, 1, summary.Inventory)
	assert.Equal(t, 1, summary.Setups)
	assert.Equal(t, 1, summary.UsageLogs)
	assert.Equal(t, 1, summary.Stocktakes)

	// references are remapped onto the freshly created rows
	var importedVehicle models.Vehicle
	require.NoError(t, client.DB().First(&importedVehicle, "user_id = ?", target.ID).Error)
	assert.NotEqual(t, vehicle.ID, importedVehicle.ID)

	var importedItem models.InventoryItem
	require.NoError(t, client.DB().First(&importedItem, "user_id = ?", target.ID).Error)
	require.Len(t, importedItem.VehicleIDs, 1)
	assert.Equal(t, importedVehicle.ID, importedItem.VehicleIDs[0])

	var importedSetup models.Setup
	require.NoError(t, client.DB().First(&importedSetup, "user_id = ?", target.ID).Error)
	assert.Equal(t, importedVehicle.ID, importedSetup.VehicleID)
	require.NotNil(t, importedSetup.GroupID)
	assert.NotEqual(t, group.ID, *importedSetup.GroupID)

	var importedLog models.UsageLog
	require.NoError(t, client.DB().First(&importedLog, "user_id = ?", target.ID).Error)
	assert.Equal(t, importedItem.ID, importedLog.ItemID)

	// the source account still has its original rows
	var sourceVehicles int64
	require.NoError(t, client.DB().Model(&models.Vehicle{}).Where("user_id = ?", source.ID).Count(&sourceVehicles).Error)
	assert.Equal(t, int64(1), sourceVehicles)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	svc, client, _ := newAccountService(t)
	user := seedUser(t, client, "pace-notes")

	_, err := svc.Import(context.Background(), user.ID, ExportPayload{Version: 99})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
