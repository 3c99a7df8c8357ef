package vehicles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const sqliteUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-a' || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

func setupVehiclesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:vehicles_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  user_id TEXT NOT NULL,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  registration TEXT NOT NULL DEFAULT '',
  vin TEXT NOT NULL DEFAULT '',
  photo TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func TestVehicleLifecycle(t *testing.T) {
	conn := setupVehiclesTestDB(t)
	svc, err := NewService(conn)
	require.NoError(t, err)

	userID := uuid.New()
	created, err := svc.Create(context.Background(), userID, UpsertVehicleRequest{
		Make:         "  Subaru ",
		Model:        "Impreza GC8",
		Registration: "RLY-555",
	})
	require.NoError(t, err)
	assert.Equal(t, "Subaru", created.Make)

	got, err := svc.Get(context.Background(), userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "RLY-555", got.Registration)

	updated, err := svc.Update(context.Background(), userID, created.ID, UpsertVehicleRequest{
		Make:  "Subaru",
		Model: "Impreza GC8",
		VIN:   "JF1GC8550123",
	})
	require.NoError(t, err)
	assert.Equal(t, "JF1GC8550123", updated.VIN)
	// replaced fields not in the request are cleared
	assert.Empty(t, updated.Registration)

	require.NoError(t, svc.Delete(context.Background(), userID, created.ID))

	_, err = svc.Get(context.Background(), userID, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestVehicleScopedToOwner(t *testing.T) {
	conn := setupVehiclesTestDB(t)
	svc, err := NewService(conn)
	require.NoError(t, err)

	owner := uuid.New()
	created, err := svc.Create(context.Background(), owner, UpsertVehicleRequest{
		Make:  "Ford",
		Model: "Escort MK2",
	})
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = svc.Get(context.Background(), stranger, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.Delete(context.Background(), stranger, created.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	list, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestVehicleCreateValidation(t *testing.T) {
	conn := setupVehiclesTestDB(t)
	svc, err := NewService(conn)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), UpsertVehicleRequest{
		Make:  "   ",
		Model: "Impreza",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
