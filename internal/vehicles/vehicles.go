package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

// VehicleDTO is the transport shape for one vehicle.
type VehicleDTO struct {
	ID           uuid.UUID `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Registration string    `json:"registration"`
	VIN          string    `json:"vin"`
	Photo        string    `json:"photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpsertVehicleRequest is the payload for creating or replacing a vehicle.
type UpsertVehicleRequest struct {
	Make         string `json:"make" validate:"required"`
	Model        string `json:"model" validate:"required"`
	Registration string `json:"registration"`
	VIN          string `json:"vin"`
	Photo        string `json:"photo"`
}

// Service owns vehicle CRUD.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req UpsertVehicleRequest) (*VehicleDTO, error)
	Get(ctx context.Context, userID, vehicleID uuid.UUID) (*VehicleDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]*VehicleDTO, error)
	Update(ctx context.Context, userID, vehicleID uuid.UUID, req UpsertVehicleRequest) (*VehicleDTO, error)
	Delete(ctx context.Context, userID, vehicleID uuid.UUID) error
}

type service struct {
	db *gorm.DB
}

// NewService constructs a vehicles service over the shared connection.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req UpsertVehicleRequest) (*VehicleDTO, error) {
	vehicle, err := buildVehicle(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vehicle")
	}
	return fromModel(vehicle), nil
}

func (s *service) Get(ctx context.Context, userID, vehicleID uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.findOwned(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}
	return fromModel(vehicle), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]*VehicleDTO, error) {
	var rows []models.Vehicle
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vehicles")
	}

	out := make([]*VehicleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, vehicleID uuid.UUID, req UpsertVehicleRequest) (*VehicleDTO, error) {
	current, err := s.findOwned(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}

	next, err := buildVehicle(userID, req)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := s.db.WithContext(ctx).Save(next).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update vehicle")
	}
	return fromModel(next), nil
}

func (s *service) Delete(ctx context.Context, userID, vehicleID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, vehicleID).
		Delete(&models.Vehicle{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "delete vehicle")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, userID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, vehicleID).
		First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup vehicle")
	}
	return &vehicle, nil
}

func buildVehicle(userID uuid.UUID, req UpsertVehicleRequest) (*models.Vehicle, error) {
	carMake := strings.TrimSpace(req.Make)
	carModel := strings.TrimSpace(req.Model)
	if carMake == "" || carModel == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make and model are required")
	}
	return &models.Vehicle{
		UserID:       userID,
		Make:         carMake,
		Model:        carModel,
		Registration: strings.TrimSpace(req.Registration),
		VIN:          strings.TrimSpace(req.VIN),
		Photo:        strings.TrimSpace(req.Photo),
	}, nil
}

func fromModel(m *models.Vehicle) *VehicleDTO {
	if m == nil {
		return nil
	}
	return &VehicleDTO{
		ID:           m.ID,
		Make:         m.Make,
		Model:        m.Model,
		Registration: m.Registration,
		VIN:          m.VIN,
		Photo:        m.Photo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
