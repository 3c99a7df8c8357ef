package stocktake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

// Session is one user's in-progress count. It lives in redis with a TTL so
// an abandoned session evaporates on its own and a late write after
// teardown targets a key that no longer exists.
type Session struct {
	UserID    uuid.UUID              `json:"user_id"`
	Mode      enums.StocktakeMode    `json:"mode"`
	Phase     enums.StocktakePhase   `json:"phase"`
	VehicleID *uuid.UUID             `json:"vehicle_id,omitempty"`
	Lines     []models.StocktakeLine `json:"lines"`
	StartedAt time.Time              `json:"started_at"`
}

type sessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StocktakeSessionKey(userID string) string
}

// SessionManager persists counting sessions per user. Exactly one
// in-progress session exists per user at a time.
type SessionManager struct {
	store sessionStore
	ttl   time.Duration
}

// NewSessionManager builds a session manager over the shared redis client.
func NewSessionManager(store sessionStore, ttl time.Duration) (*SessionManager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionManager{store: store, ttl: ttl}, nil
}

// Begin replaces any existing session for the user with a fresh one. With a
// mode already chosen the session opens in the counting phase, otherwise it
// waits in mode selection.
func (m *SessionManager) Begin(ctx context.Context, userID uuid.UUID, mode enums.StocktakeMode, vehicleID *uuid.UUID, lines []models.StocktakeLine) (*Session, error) {
	session := &Session{
		UserID:    userID,
		Mode:      mode,
		Phase:     enums.StocktakePhaseModeSelect,
		VehicleID: vehicleID,
		Lines:     lines,
		StartedAt: time.Now().UTC(),
	}
	if mode.IsValid() {
		session.Phase = enums.StocktakePhaseCounting
	}
	if err := m.put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Load fetches the user's in-progress session.
func (m *SessionManager) Load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	raw, err := m.store.Get(ctx, m.store.StocktakeSessionKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no counting session in progress")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load counting session")
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode counting session")
	}
	return &session, nil
}

// Save writes the session back, refreshing its TTL.
func (m *SessionManager) Save(ctx context.Context, session *Session) error {
	return m.put(ctx, session)
}

// Abandon drops the user's session. Dropping a missing session is not an
// error, abandonment is always safe.
func (m *SessionManager) Abandon(ctx context.Context, userID uuid.UUID) error {
	if err := m.store.Del(ctx, m.store.StocktakeSessionKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "abandon counting session")
	}
	return nil
}

func (m *SessionManager) put(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode counting session")
	}
	key := m.store.StocktakeSessionKey(session.UserID.String())
	if err := m.store.Set(ctx, key, string(payload), m.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store counting session")
	}
	return nil
}

// Transition moves the session's phase, enforcing the dialog flow:
// mode_select -> counting <-> summary -> saved -> applied.
func (s *Session) Transition(next enums.StocktakePhase) error {
	allowed := map[enums.StocktakePhase][]enums.StocktakePhase{
		enums.StocktakePhaseModeSelect: {enums.StocktakePhaseCounting},
		enums.StocktakePhaseCounting:   {enums.StocktakePhaseSummary},
		enums.StocktakePhaseSummary:    {enums.StocktakePhaseCounting, enums.StocktakePhaseSaved},
		enums.StocktakePhaseSaved:      {enums.StocktakePhaseApplied},
		enums.StocktakePhaseApplied:    {},
	}

	for _, candidate := range allowed[s.Phase] {
		if candidate == next {
			s.Phase = next
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move counting session from %s to %s", s.Phase, next))
}
