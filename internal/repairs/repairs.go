package repairs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	dbtypes "github.com/rallycommand/rallycommand-backend/pkg/db/types"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

// PartDTO is one part consumed during a repair.
type PartDTO struct {
	Name            string          `json:"name" validate:"required"`
	Source          string          `json:"source"`
	InventoryItemID *uuid.UUID      `json:"inventory_item_id,omitempty"`
	Quantity        int             `json:"quantity" validate:"gt=0"`
	Cost            decimal.Decimal `json:"cost"`
}

// RepairDTO is the transport shape for one repair log.
type RepairDTO struct {
	ID             uuid.UUID       `json:"id"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	CauseOfDamage  string          `json:"cause_of_damage"`
	AffectedArea   string          `json:"affected_area"`
	PartsUsed      []PartDTO       `json:"parts_used"`
	TotalPartsCost decimal.Decimal `json:"total_parts_cost"`
	RepairDetails  string          `json:"repair_details"`
	Technicians    []string        `json:"technicians"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// UpsertRepairRequest creates or replaces a repair log.
type UpsertRepairRequest struct {
	VehicleID     uuid.UUID `json:"vehicle_id" validate:"required"`
	CauseOfDamage string    `json:"cause_of_damage"`
	AffectedArea  string    `json:"affected_area"`
	PartsUsed     []PartDTO `json:"parts_used" validate:"dive"`
	RepairDetails string    `json:"repair_details"`
	Technicians   []string  `json:"technicians"`
}

// Service owns repair log CRUD. Total parts cost is always recomputed
// server-side from the submitted parts list.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req UpsertRepairRequest) (*RepairDTO, error)
	Get(ctx context.Context, userID, repairID uuid.UUID) (*RepairDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]*RepairDTO, error)
	ListByVehicle(ctx context.Context, userID, vehicleID uuid.UUID) ([]*RepairDTO, error)
	Update(ctx context.Context, userID, repairID uuid.UUID, req UpsertRepairRequest) (*RepairDTO, error)
	Delete(ctx context.Context, userID, repairID uuid.UUID) error
}

type service struct {
	db *gorm.DB
}

// NewService constructs a repairs service over the shared connection.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req UpsertRepairRequest) (*RepairDTO, error) {
	repair, err := buildRepair(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(repair).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create repair log")
	}
	return fromModel(repair), nil
}

func (s *service) Get(ctx context.Context, userID, repairID uuid.UUID) (*RepairDTO, error) {
	repair, err := s.findOwned(ctx, userID, repairID)
	if err != nil {
		return nil, err
	}
	return fromModel(repair), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]*RepairDTO, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *service) ListByVehicle(ctx context.Context, userID, vehicleID uuid.UUID) ([]*RepairDTO, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("user_id = ? AND vehicle_id = ?", userID, vehicleID))
}

func (s *service) Update(ctx context.Context, userID, repairID uuid.UUID, req UpsertRepairRequest) (*RepairDTO, error) {
	current, err := s.findOwned(ctx, userID, repairID)
	if err != nil {
		return nil, err
	}

	next, err := buildRepair(userID, req)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := s.db.WithContext(ctx).Save(next).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update repair log")
	}
	return fromModel(next), nil
}

func (s *service) Delete(ctx context.Context, userID, repairID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, repairID).
		Delete(&models.RepairLog{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "delete repair log")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "repair log not found")
	}
	return nil
}

func (s *service) list(ctx context.Context, query *gorm.DB) ([]*RepairDTO, error) {
	var rows []models.RepairLog
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list repair logs")
	}

	out := make([]*RepairDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) findOwned(ctx context.Context, userID, repairID uuid.UUID) (*models.RepairLog, error) {
	var repair models.RepairLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, repairID).
		First(&repair).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "repair log not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup repair log")
	}
	return &repair, nil
}

func buildRepair(userID uuid.UUID, req UpsertRepairRequest) (*models.RepairLog, error) {
	parts := make(models.RepairParts, 0, len(req.PartsUsed))
	total := decimal.Zero
	for _, p := range req.PartsUsed {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "part name is required")
		}
		if p.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "part quantity must be positive")
		}
		if p.Cost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "part cost cannot be negative")
		}
		parts = append(parts, models.RepairPart{
			Name:            name,
			Source:          strings.TrimSpace(p.Source),
			InventoryItemID: p.InventoryItemID,
			Quantity:        p.Quantity,
			Cost:            p.Cost,
		})
		total = total.Add(p.Cost.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	return &models.RepairLog{
		UserID:         userID,
		VehicleID:      req.VehicleID,
		CauseOfDamage:  strings.TrimSpace(req.CauseOfDamage),
		AffectedArea:   strings.TrimSpace(req.AffectedArea),
		PartsUsed:      parts,
		TotalPartsCost: total,
		RepairDetails:  req.RepairDetails,
		Technicians:    dbtypes.StringArray(req.Technicians),
	}, nil
}

func fromModel(m *models.RepairLog) *RepairDTO {
	if m == nil {
		return nil
	}
	parts := make([]PartDTO, 0, len(m.PartsUsed))
	for _, p := range m.PartsUsed {
		parts = append(parts, PartDTO{
			Name:            p.Name,
			Source:          p.Source,
			InventoryItemID: p.InventoryItemID,
			Quantity:        p.Quantity,
			Cost:            p.Cost,
		})
	}
	return &RepairDTO{
		ID:             m.ID,
		VehicleID:      m.VehicleID,
		CauseOfDamage:  m.CauseOfDamage,
		AffectedArea:   m.AffectedArea,
		PartsUsed:      parts,
		TotalPartsCost: m.TotalPartsCost,
		RepairDetails:  m.RepairDetails,
		Technicians:    append([]string(nil), []string(m.Technicians)...),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
