package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const cacheTTL = 12 * time.Hour

// filterCache is the subset of the redis client the service needs.
type filterCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	VehicleFilterKey(userID string) string
}

// VehicleFilterDTO reports the user's active vehicle filter, nil when the
// whole garage is shown.
type VehicleFilterDTO struct {
	VehicleID *uuid.UUID `json:"vehicle_id"`
}

// SetVehicleFilterRequest pins the inventory views to one vehicle.
type SetVehicleFilterRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
}

// Service manages per-user UI preferences. The database row is the source
// of truth, redis only shaves the lookup off the hot inventory paths.
type Service interface {
	GetVehicleFilter(ctx context.Context, userID uuid.UUID) (*VehicleFilterDTO, error)
	SetVehicleFilter(ctx context.Context, userID uuid.UUID, req SetVehicleFilterRequest) (*VehicleFilterDTO, error)
	ClearVehicleFilter(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams carries the service's dependencies.
type ServiceParams struct {
	DB    *db.Client
	Cache filterCache
}

type service struct {
	db    *db.Client
	cache filterCache
}

// NewService constructs a preferences service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	return &service{db: params.DB, cache: params.Cache}, nil
}

func (s *service) GetVehicleFilter(ctx context.Context, userID uuid.UUID) (*VehicleFilterDTO, error) {
	// a cold or broken cache both fall through to the database
	key := s.cache.VehicleFilterKey(userID.String())
	if cached, err := s.cache.Get(ctx, key); err == nil {
		return decodeCached(cached), nil
	}

	var pref models.UserPreference
	err := s.db.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VehicleFilterDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load preference")
	}

	s.fillCache(ctx, key, pref.VehicleFilterID)
	return &VehicleFilterDTO{VehicleID: pref.VehicleFilterID}, nil
}

func (s *service) SetVehicleFilter(ctx context.Context, userID uuid.UUID, req SetVehicleFilterRequest) (*VehicleFilterDTO, error) {
	if req.VehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle_id is required")
	}

	var count int64
	err := s.db.DB().WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("user_id = ? AND id = ?", userID, req.VehicleID).
		Count(&count).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup vehicle")
	}
	if count == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}

	vehicleID := req.VehicleID
	pref := models.UserPreference{UserID: userID, VehicleFilterID: &vehicleID}
	err = s.db.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vehicle_filter_id", "updated_at"}),
		}).
		Create(&pref).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store preference")
	}

	s.fillCache(ctx, s.cache.VehicleFilterKey(userID.String()), &vehicleID)
	return &VehicleFilterDTO{VehicleID: &vehicleID}, nil
}

func (s *service) ClearVehicleFilter(ctx context.Context, userID uuid.UUID) error {
	err := s.db.DB().WithContext(ctx).
		Model(&models.UserPreference{}).
		Where("user_id = ?", userID).
		Update("vehicle_filter_id", nil).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear preference")
	}

	// drop instead of rewrite so a failed invalidation self-heals via TTL
	_ = s.cache.Del(ctx, s.cache.VehicleFilterKey(userID.String()))
	return nil
}

func (s *service) fillCache(ctx context.Context, key string, vehicleID *uuid.UUID) {
	value := ""
	if vehicleID != nil {
		value = vehicleID.String()
	}
	_ = s.cache.Set(ctx, key, value, cacheTTL)
}

func decodeCached(raw string) *VehicleFilterDTO {
	if raw == "" {
		return &VehicleFilterDTO{}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return &VehicleFilterDTO{}
	}
	return &VehicleFilterDTO{VehicleID: &id}
}
