package stocktake

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
)

// StartSessionRequest opens a new counting session, replacing any existing
// one. Mode is optional, a session started without one waits in mode
// selection. VehicleID narrows the snapshot to items fitted to that vehicle.
type StartSessionRequest struct {
	Mode      string     `json:"mode"`
	VehicleID *uuid.UUID `json:"vehicle_id"`
}

// ChooseModeRequest picks the counting mode for a session waiting in mode
// selection.
type ChooseModeRequest struct {
	Mode string `json:"mode" validate:"required"`
}

// RecordLineRequest sets the counted quantity for one line of the session.
type RecordLineRequest struct {
	Index          int `json:"index"`
	ActualQuantity int `json:"actual_quantity"`
}

// SaveRequest finalizes the session into a stocktake record.
type SaveRequest struct {
	Notes string `json:"notes"`
}

// SessionDTO is the transport shape of an in-progress counting session.
type SessionDTO struct {
	Mode         enums.StocktakeMode    `json:"mode"`
	Phase        enums.StocktakePhase   `json:"phase"`
	VehicleID    *uuid.UUID             `json:"vehicle_id,omitempty"`
	Lines        []models.StocktakeLine `json:"lines"`
	CountedLines int                    `json:"counted_lines"`
	StartedAt    time.Time              `json:"started_at"`
}

// SummaryDTO reports the session's discrepancies before saving.
type SummaryDTO struct {
	Matched              int                    `json:"matched"`
	Over                 []models.StocktakeLine `json:"over"`
	Under                []models.StocktakeLine `json:"under"`
	TotalItemsCounted    int                    `json:"total_items_counted"`
	TotalValueDifference decimal.Decimal        `json:"total_value_difference"`
}

// RecordDTO is the transport shape of a saved stocktake record.
type RecordDTO struct {
	ID                   uuid.UUID              `json:"id"`
	Lines                []models.StocktakeLine `json:"lines"`
	Notes                string                 `json:"notes"`
	Status               enums.StocktakeStatus  `json:"status"`
	TotalItemsCounted    int                    `json:"total_items_counted"`
	ItemsMatched         int                    `json:"items_matched"`
	ItemsOver            int                    `json:"items_over"`
	ItemsUnder           int                    `json:"items_under"`
	TotalValueDifference decimal.Decimal        `json:"total_value_difference"`
	CreatedAt            time.Time              `json:"created_at"`
	AppliedAt            *time.Time             `json:"applied_at,omitempty"`
}

// SkippedLineDTO names one line apply could not write back.
type SkippedLineDTO struct {
	ItemID   uuid.UUID `json:"item_id"`
	ItemName string    `json:"item_name"`
	Reason   string    `json:"reason"`
}

// ApplyResultDTO reports what apply changed and what it had to skip.
type ApplyResultDTO struct {
	RecordID     uuid.UUID        `json:"record_id"`
	LinesApplied int              `json:"lines_applied"`
	Skipped      []SkippedLineDTO `json:"skipped"`
	AppliedAt    time.Time        `json:"applied_at"`
}

func sessionDTO(session *Session) *SessionDTO {
	if session == nil {
		return nil
	}
	return &SessionDTO{
		Mode:         session.Mode,
		Phase:        session.Phase,
		VehicleID:    session.VehicleID,
		Lines:        session.Lines,
		CountedLines: CountedLines(session.Lines),
		StartedAt:    session.StartedAt,
	}
}

func summaryDTO(summary Summary) *SummaryDTO {
	return &SummaryDTO{
		Matched:              summary.Matched,
		Over:                 summary.Over,
		Under:                summary.Under,
		TotalItemsCounted:    summary.TotalItemsCounted,
		TotalValueDifference: summary.TotalValueDifference,
	}
}

func recordDTO(record *models.StocktakeRecord) *RecordDTO {
	if record == nil {
		return nil
	}
	return &RecordDTO{
		ID:                   record.ID,
		Lines:                record.Lines,
		Notes:                record.Notes,
		Status:               record.Status,
		TotalItemsCounted:    record.TotalItemsCounted,
		ItemsMatched:         record.ItemsMatched,
		ItemsOver:            record.ItemsOver,
		ItemsUnder:           record.ItemsUnder,
		TotalValueDifference: record.TotalValueDifference,
		CreatedAt:            record.CreatedAt,
		AppliedAt:            record.AppliedAt,
	}
}
