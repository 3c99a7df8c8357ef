package stocktake

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

type fakeSessionStore struct {
	values  map[string]string
	lastTTL time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{values: make(map[string]string)}
}

func (f *fakeSessionStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeSessionStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	f.lastTTL = ttl
	return nil
}

func (f *fakeSessionStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeSessionStore) StocktakeSessionKey(userID string) string {
	return "rally:stocktake:session:" + userID
}

func testLines(n int) []models.StocktakeLine {
	items := make([]models.InventoryItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.InventoryItem{ID: uuid.New(), Name: "Part", Quantity: i + 1})
	}
	return Start(items)
}

func TestSessionManagerRequiresTTL(t *testing.T) {
	_, err := NewSessionManager(newFakeSessionStore(), 0)
	require.Error(t, err)

	_, err = NewSessionManager(nil, time.Hour)
	require.Error(t, err)
}

func TestBeginWithModeOpensCounting(t *testing.T) {
	store := newFakeSessionStore()
	mgr, err := NewSessionManager(store, 2*time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	session, err := mgr.Begin(context.Background(), userID, enums.StocktakeModeDevice, nil, testLines(2))
	require.NoError(t, err)

	assert.Equal(t, enums.StocktakePhaseCounting, session.Phase)
	assert.Equal(t, 2*time.Hour, store.lastTTL)

	loaded, err := mgr.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, loaded.UserID)
	assert.Len(t, loaded.Lines, 2)
}

func TestBeginWithoutModeWaitsInModeSelect(t *testing.T) {
	mgr, err := NewSessionManager(newFakeSessionStore(), time.Hour)
	require.NoError(t, err)

	session, err := mgr.Begin(context.Background(), uuid.New(), "", nil, testLines(1))
	require.NoError(t, err)
	assert.Equal(t, enums.StocktakePhaseModeSelect, session.Phase)
}

func TestBeginReplacesExistingSession(t *testing.T) {
	mgr, err := NewSessionManager(newFakeSessionStore(), time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	_, err = mgr.Begin(context.Background(), userID, enums.StocktakeModeDevice, nil, testLines(3))
	require.NoError(t, err)

	_, err = mgr.Begin(context.Background(), userID, enums.StocktakeModePDF, nil, testLines(1))
	require.NoError(t, err)

	loaded, err := mgr.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, enums.StocktakeModePDF, loaded.Mode)
	assert.Len(t, loaded.Lines, 1)
}

func TestLoadMissingSession(t *testing.T) {
	mgr, err := NewSessionManager(newFakeSessionStore(), time.Hour)
	require.NoError(t, err)

	_, err = mgr.Load(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAbandonIsIdempotent(t *testing.T) {
	mgr, err := NewSessionManager(newFakeSessionStore(), time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	_, err = mgr.Begin(context.Background(), userID, enums.StocktakeModeDevice, nil, testLines(1))
	require.NoError(t, err)

	require.NoError(t, mgr.Abandon(context.Background(), userID))
	require.NoError(t, mgr.Abandon(context.Background(), userID))

	_, err = mgr.Load(context.Background(), userID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSessionTransitions(t *testing.T) {
	session := &Session{Phase: enums.StocktakePhaseModeSelect}

	require.NoError(t, session.Transition(enums.StocktakePhaseCounting))
	require.NoError(t, session.Transition(enums.StocktakePhaseSummary))

	// summary can bounce back to counting for more edits
	require.NoError(t, session.Transition(enums.StocktakePhaseCounting))
	require.NoError(t, session.Transition(enums.StocktakePhaseSummary))

	require.NoError(t, session.Transition(enums.StocktakePhaseSaved))
	require.NoError(t, session.Transition(enums.StocktakePhaseApplied))

	// applied is terminal
	err := session.Transition(enums.StocktakePhaseCounting)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestSessionRejectsSkippedPhases(t *testing.T) {
	session := &Session{Phase: enums.StocktakePhaseModeSelect}

	err := session.Transition(enums.StocktakePhaseSaved)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, enums.StocktakePhaseModeSelect, session.Phase)
}
