package stocktake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/internal/inventory"
	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
	"github.com/rallycommand/rallycommand-backend/pkg/metrics"
)

// Service drives the counting workflow: an in-progress session in redis,
// saved records in the database, and the one-way write-back into inventory.
type Service interface {
	StartSession(ctx context.Context, userID uuid.UUID, req StartSessionRequest) (*SessionDTO, error)
	GetSession(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	ChooseMode(ctx context.Context, userID uuid.UUID, req ChooseModeRequest) (*SessionDTO, error)
	RecordLine(ctx context.Context, userID uuid.UUID, req RecordLineRequest) (*SessionDTO, error)
	SessionSummary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error)
	ResumeCounting(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	AbandonSession(ctx context.Context, userID uuid.UUID) error

	Save(ctx context.Context, userID uuid.UUID, req SaveRequest) (*RecordDTO, error)
	Apply(ctx context.Context, userID, recordID uuid.UUID) (*ApplyResultDTO, error)
	Get(ctx context.Context, userID, recordID uuid.UUID) (*RecordDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]*RecordDTO, error)
	Delete(ctx context.Context, userID, recordID uuid.UUID) error
}

// ServiceParams carries the service's dependencies.
type ServiceParams struct {
	DB       *db.Client
	Sessions *SessionManager
	Metrics  *metrics.StocktakeMetrics
}

type service struct {
	db       *db.Client
	sessions *SessionManager
	metrics  *metrics.StocktakeMetrics
}

// NewService constructs the stocktake service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewStocktakeMetrics(nil)
	}
	return &service{
		db:       params.DB,
		sessions: params.Sessions,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) StartSession(ctx context.Context, userID uuid.UUID, req StartSessionRequest) (*SessionDTO, error) {
	var mode enums.StocktakeMode
	if req.Mode != "" {
		parsed, err := enums.ParseStocktakeMode(req.Mode)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		mode = parsed
	}

	items, err := inventory.NewRepository(s.db.DB()).List(ctx, userID, inventory.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot inventory")
	}
	if req.VehicleID != nil {
		items = filterByVehicle(items, *req.VehicleID)
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no inventory items to count")
	}

	session, err := s.sessions.Begin(ctx, userID, mode, req.VehicleID, Start(items))
	if err != nil {
		return nil, err
	}
	s.metrics.IncSessionStarted()
	return sessionDTO(session), nil
}

func (s *service) GetSession(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sessionDTO(session), nil
}

func (s *service) ChooseMode(ctx context.Context, userID uuid.UUID, req ChooseModeRequest) (*SessionDTO, error) {
	mode, err := enums.ParseStocktakeMode(req.Mode)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Transition(enums.StocktakePhaseCounting); err != nil {
		return nil, err
	}
	session.Mode = mode
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return sessionDTO(session), nil
}

func (s *service) RecordLine(ctx context.Context, userID uuid.UUID, req RecordLineRequest) (*SessionDTO, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Phase != enums.StocktakePhaseCounting {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "session is not in the counting phase")
	}

	lines, err := RecordCount(session.Lines, req.Index, req.ActualQuantity)
	if err != nil {
		return nil, err
	}
	session.Lines = lines
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return sessionDTO(session), nil
}

func (s *service) SessionSummary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Phase == enums.StocktakePhaseCounting {
		if err := session.Transition(enums.StocktakePhaseSummary); err != nil {
			return nil, err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return summaryDTO(Summarize(session.Lines)), nil
}

func (s *service) ResumeCounting(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Transition(enums.StocktakePhaseCounting); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return sessionDTO(session), nil
}

func (s *service) AbandonSession(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.Abandon(ctx, userID)
}

// Save finalizes the session into an immutable record. The validation guard
// runs before any I/O so a rejected save leaves nothing behind.
func (s *service) Save(ctx context.Context, userID uuid.UUID, req SaveRequest) (*RecordDTO, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if CountedLines(session.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line must be counted before saving")
	}
	// Saving mid-count is allowed, the summary phase is implied.
	if session.Phase == enums.StocktakePhaseCounting {
		if err := session.Transition(enums.StocktakePhaseSummary); err != nil {
			return nil, err
		}
	}
	if err := session.Transition(enums.StocktakePhaseSaved); err != nil {
		return nil, err
	}

	summary := Summarize(session.Lines)
	record := &models.StocktakeRecord{
		UserID:               userID,
		Lines:                session.Lines,
		Notes:                strings.TrimSpace(req.Notes),
		Status:               enums.StocktakeStatusSaved,
		TotalItemsCounted:    summary.TotalItemsCounted,
		ItemsMatched:         summary.Matched,
		ItemsOver:            len(summary.Over),
		ItemsUnder:           len(summary.Under),
		TotalValueDifference: summary.TotalValueDifference,
	}
	if err := NewRepository(s.db.DB()).Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create stocktake record")
	}

	// The record is the durable artifact now. The session has served its
	// purpose, so a failure to drop it only costs redis a TTL'd key.
	_ = s.sessions.Abandon(ctx, userID)

	s.metrics.IncRecordSaved()
	return recordDTO(record), nil
}

// Apply writes counted corrections back into inventory, exactly once per
// record. Each discrepant line updates its item only when the live quantity
// still matches the snapshot, drifted or deleted items are skipped and
// reported instead of clobbered.
func (s *service) Apply(ctx context.Context, userID, recordID uuid.UUID) (*ApplyResultDTO, error) {
	record, err := s.findRecord(ctx, s.db.DB(), userID, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != enums.StocktakeStatusSaved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stocktake has already been applied")
	}

	appliedAt := time.Now().UTC()
	result := &ApplyResultDTO{
		RecordID:  recordID,
		Skipped:   []SkippedLineDTO{},
		AppliedAt: appliedAt,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := inventory.NewRepository(tx)
		for _, line := range record.Lines {
			if line.Difference == 0 {
				continue
			}
			affected, err := itemRepo.SetQuantityIfExpected(ctx, userID, line.ItemID, line.ExpectedQuantity, line.ActualQuantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply correction")
			}
			if affected == 0 {
				result.Skipped = append(result.Skipped, SkippedLineDTO{
					ItemID:   line.ItemID,
					ItemName: line.ItemName,
					Reason:   "quantity changed since the count, or item was deleted",
				})
				continue
			}
			result.LinesApplied++
		}

		affected, err := NewRepository(tx).MarkApplied(ctx, userID, recordID, appliedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark stocktake applied")
		}
		if affected == 0 {
			// A concurrent apply won the status guard. Roll the item
			// updates back by failing the transaction.
			return pkgerrors.New(pkgerrors.CodeStateConflict, "stocktake has already been applied")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRecordApplied()
	s.metrics.AddLinesDrifted(len(result.Skipped))
	return result, nil
}

func (s *service) Get(ctx context.Context, userID, recordID uuid.UUID) (*RecordDTO, error) {
	record, err := s.findRecord(ctx, s.db.DB(), userID, recordID)
	if err != nil {
		return nil, err
	}
	return recordDTO(record), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]*RecordDTO, error) {
	records, err := NewRepository(s.db.DB()).List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stocktakes")
	}

	out := make([]*RecordDTO, 0, len(records))
	for i := range records {
		out = append(out, recordDTO(&records[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, userID, recordID uuid.UUID) error {
	affected, err := NewRepository(s.db.DB()).Delete(ctx, userID, recordID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete stocktake")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stocktake not found")
	}
	return nil
}

func (s *service) findRecord(ctx context.Context, conn *gorm.DB, userID, recordID uuid.UUID) (*models.StocktakeRecord, error) {
	record, err := NewRepository(conn).FindByID(ctx, userID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stocktake not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup stocktake")
	}
	return record, nil
}

// filterByVehicle keeps items fitted to the vehicle. Items linked to no
// vehicle at all are general stock and always count.
func filterByVehicle(items []models.InventoryItem, vehicleID uuid.UUID) []models.InventoryItem {
	filtered := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if len(item.VehicleIDs) == 0 {
			filtered = append(filtered, item)
			continue
		}
		for _, id := range item.VehicleIDs {
			if id == vehicleID {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}
