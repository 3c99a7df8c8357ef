package setups

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const sqliteUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-a' || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

func setupSetupsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:setups_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	groups := `
CREATE TABLE IF NOT EXISTS setup_groups (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  user_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  name TEXT NOT NULL,
  track_name TEXT NOT NULL DEFAULT '',
  date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	sheets := `
CREATE TABLE IF NOT EXISTS setups (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
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
);`
	require.NoError(t, conn.Exec(groups).Error)
	require.NoError(t, conn.Exec(sheets).Error)
	return conn
}

func TestSetupLifecycle(t *testing.T) {
	conn := setupSetupsTestDB(t)
	svc, err := NewService(conn)
	require.NoError(t, err)

	userID := uuid.New()
	vehicleID := uuid.New()

	created, err := svc.Create(context.Background(), userID, UpsertSetupRequest{
		VehicleID:    vehicleID,
		Name:         "Gravel base",
		Conditions:   "dry gravel",
		TyreCompound: "soft",
		TyrePressFL:  1.8,
		Rating:       4,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.8, created.TyrePressFL)

	updated, err := svc.Update(context.Background(), userID, created.ID, UpsertSetupRequest{
		VehicleID: vehicleID,
		Name:      "Gravel base",
		Rating:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	// full replace clears fields omitted from the payload
	assert.Empty(t, updated.TyreCompound)

	byVehicle, err := svc.ListByVehicle(context.Background(), userID, vehicleID)
	require.NoError(t, err)
	require.Len(t, byVehicle, 1)

	require.NoError(t, svc.Delete(context.Background(), userID, created.ID))
	_, err = svc.Get(context.Background(), userID, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSetupRejectsForeignGroup(t *testing.T) {
	conn := setupSetupsTestDB(t)
	svc, err := NewService(conn)
	require.NoError(t, err)

	owner := uuid.New()
	vehicleID := uuid.New()
	group, err := svc.CreateGroup(context.Background(), owner, UpsertGroupRequest{
		VehicleID: vehicleID,
		Name:      "Rally Sweden",
	})
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = svc.Create(context.Background(), stranger, UpsertSetupRequest{
		VehicleID: vehicleID,
		Name:      "Snow base",
		GroupID:   &group.ID,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteGroupDetachesSetups(t *testing.T) {
	conn := setupSetupsTestDB(t)
	svc, err := NewService(conn)
	require.NoError(t, err)

	userID := uuid.New()
	vehicleID := uuid.New()
	group, err := svc.CreateGroup(context.Background(), userID, UpsertGroupRequest{
		VehicleID: vehicleID,
		Name:      "Tarmac tests",
		TrackName: "Col de Turini",
	})
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), userID, UpsertSetupRequest{
		VehicleID: vehicleID,
		Name:      "Tarmac wet",
		GroupID:   &group.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup(context.Background(), userID, group.ID))

	var row models.Setup
	require.NoError(t, conn.First(&row, "id = ?", created.ID).Error)
	assert.Nil(t, row.GroupID)

	groups, err := svc.ListGroupsByVehicle(context.Background(), userID, vehicleID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSetupRatingValidation(t *testing.T) {
	conn := setupSetupsTestDB(t)
	svc, err := NewService(conn)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), UpsertSetupRequest{
		VehicleID: uuid.New(),
		Name:      "Over the top",
		Rating:    9,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
