package usage

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
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
	"github.com/rallycommand/rallycommand-backend/pkg/pagination"
)

// LogDTO is the transport shape for one usage entry.
type LogDTO struct {
	ID           uuid.UUID `json:"id"`
	ItemID       uuid.UUID `json:"item_id"`
	QuantityUsed int       `json:"quantity_used"`
	Reason       string    `json:"reason"`
	EventName    string    `json:"event_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateLogRequest records stock being consumed from an item.
type CreateLogRequest struct {
	ItemID       uuid.UUID `json:"item_id" validate:"required"`
	QuantityUsed int       `json:"quantity_used" validate:"required,gt=0"`
	Reason       string    `json:"reason"`
	EventName    string    `json:"event_name"`
}

// LogPage is one cursor page of usage history, newest first.
type LogPage struct {
	Logs       []*LogDTO `json:"logs"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// Service logs usage and deducts stock atomically.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateLogRequest) (*LogDTO, error)
	ListByItem(ctx context.Context, userID, itemID uuid.UUID, params pagination.Params) (*LogPage, error)
}

type service struct {
	db *db.Client
}

// NewService constructs a usage service.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: client}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateLogRequest) (*LogDTO, error) {
	if req.QuantityUsed <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity_used must be positive")
	}

	var log *models.UsageLog
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		itemRepo := inventory.NewRepository(tx)

		if _, err := itemRepo.FindByID(ctx, userID, req.ItemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
		}

		affected, err := itemRepo.AdjustQuantity(ctx, userID, req.ItemID, -req.QuantityUsed)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deduct stock")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock for usage")
		}

		log = &models.UsageLog{
			UserID:       userID,
			ItemID:       req.ItemID,
			QuantityUsed: req.QuantityUsed,
			Reason:       strings.TrimSpace(req.Reason),
			EventName:    strings.TrimSpace(req.EventName),
		}
		if err := tx.WithContext(ctx).Create(log).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create usage log")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fromModel(log), nil
}

func (s *service) ListByItem(ctx context.Context, userID, itemID uuid.UUID, params pagination.Params) (*LogPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	query := s.db.DB().WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var logs []models.UsageLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list usage logs")
	}

	page, next := pagination.NextCursor(logs, params.Limit, func(m models.UsageLog) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	out := make([]*LogDTO, 0, len(page))
	for i := range page {
		out = append(out, fromModel(&page[i]))
	}
	return &LogPage{Logs: out, NextCursor: next}, nil
}

func fromModel(m *models.UsageLog) *LogDTO {
	if m == nil {
		return nil
	}
	return &LogDTO{
		ID:           m.ID,
		ItemID:       m.ItemID,
		QuantityUsed: m.QuantityUsed,
		Reason:       m.Reason,
		EventName:    m.EventName,
		CreatedAt:    m.CreatedAt,
	}
}
