package setups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

// Service owns setup sheets and their groups.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req UpsertSetupRequest) (*SetupDTO, error)
	Get(ctx context.Context, userID, setupID uuid.UUID) (*SetupDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]*SetupDTO, error)
	ListByVehicle(ctx context.Context, userID, vehicleID uuid.UUID) ([]*SetupDTO, error)
	Update(ctx context.Context, userID, setupID uuid.UUID, req UpsertSetupRequest) (*SetupDTO, error)
	Delete(ctx context.Context, userID, setupID uuid.UUID) error

	CreateGroup(ctx context.Context, userID uuid.UUID, req UpsertGroupRequest) (*GroupDTO, error)
	ListGroupsByVehicle(ctx context.Context, userID, vehicleID uuid.UUID) ([]*GroupDTO, error)
	UpdateGroup(ctx context.Context, userID, groupID uuid.UUID, req UpsertGroupRequest) (*GroupDTO, error)
	DeleteGroup(ctx context.Context, userID, groupID uuid.UUID) error
}

type service struct {
	db *gorm.DB
}

// NewService constructs a setups service over the shared connection.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req UpsertSetupRequest) (*SetupDTO, error) {
	setup, err := s.buildSetup(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(setup).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create setup")
	}
	return fromSetupModel(setup), nil
}

func (s *service) Get(ctx context.Context, userID, setupID uuid.UUID) (*SetupDTO, error) {
	setup, err := s.findOwnedSetup(ctx, userID, setupID)
	if err != nil {
		return nil, err
	}
	return fromSetupModel(setup), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]*SetupDTO, error) {
	return s.listSetups(ctx, s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *service) ListByVehicle(ctx context.Context, userID, vehicleID uuid.UUID) ([]*SetupDTO, error) {
	return s.listSetups(ctx, s.db.WithContext(ctx).Where("user_id = ? AND vehicle_id = ?", userID, vehicleID))
}

func (s *service) Update(ctx context.Context, userID, setupID uuid.UUID, req UpsertSetupRequest) (*SetupDTO, error) {
	current, err := s.findOwnedSetup(ctx, userID, setupID)
	if err != nil {
		return nil, err
	}

	next, err := s.buildSetup(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := s.db.WithContext(ctx).Save(next).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update setup")
	}
	return fromSetupModel(next), nil
}

func (s *service) Delete(ctx context.Context, userID, setupID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, setupID).
		Delete(&models.Setup{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "delete setup")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "setup not found")
	}
	return nil
}

func (s *service) CreateGroup(ctx context.Context, userID uuid.UUID, req UpsertGroupRequest) (*GroupDTO, error) {
	group, err := buildGroup(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create setup group")
	}
	return fromGroupModel(group), nil
}

func (s *service) ListGroupsByVehicle(ctx context.Context, userID, vehicleID uuid.UUID) ([]*GroupDTO, error) {
	var rows []models.SetupGroup
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list setup groups")
	}

	out := make([]*GroupDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromGroupModel(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdateGroup(ctx context.Context, userID, groupID uuid.UUID, req UpsertGroupRequest) (*GroupDTO, error) {
	current, err := s.findOwnedGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	next, err := buildGroup(userID, req)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := s.db.WithContext(ctx).Save(next).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update setup group")
	}
	return fromGroupModel(next), nil
}

// DeleteGroup removes the group and detaches its setups rather than deleting
// them.
func (s *service) DeleteGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	if _, err := s.findOwnedGroup(ctx, userID, groupID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Setup{}).
			Where("user_id = ? AND group_id = ?", userID, groupID).
			UpdateColumn("group_id", nil).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "detach setups")
		}
		if err := tx.Where("user_id = ? AND id = ?", userID, groupID).
			Delete(&models.SetupGroup{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete setup group")
		}
		return nil
	})
}

func (s *service) listSetups(ctx context.Context, query *gorm.DB) ([]*SetupDTO, error) {
	var rows []models.Setup
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list setups")
	}

	out := make([]*SetupDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromSetupModel(&rows[i]))
	}
	return out, nil
}

func (s *service) findOwnedSetup(ctx context.Context, userID, setupID uuid.UUID) (*models.Setup, error) {
	var setup models.Setup
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, setupID).
		First(&setup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setup not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup setup")
	}
	return &setup, nil
}

func (s *service) findOwnedGroup(ctx context.Context, userID, groupID uuid.UUID) (*models.SetupGroup, error) {
	var group models.SetupGroup
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, groupID).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setup group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup setup group")
	}
	return &group, nil
}

func (s *service) buildSetup(ctx context.Context, userID uuid.UUID, req UpsertSetupRequest) (*models.Setup, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	if req.GroupID != nil {
		if _, err := s.findOwnedGroup(ctx, userID, *req.GroupID); err != nil {
			return nil, err
		}
	}

	return &models.Setup{
		UserID:          userID,
		VehicleID:       req.VehicleID,
		GroupID:         req.GroupID,
		Name:            name,
		Conditions:      req.Conditions,
		TyreCompound:    req.TyreCompound,
		TyreType:        req.TyreType,
		TyreSize:        req.TyreSize,
		TyreCondition:   req.TyreCondition,
		TyrePressFL:     req.TyrePressFL,
		TyrePressFR:     req.TyrePressFR,
		TyrePressRL:     req.TyrePressRL,
		TyrePressRR:     req.TyrePressRR,
		RideHeightFL:    req.RideHeightFL,
		RideHeightFR:    req.RideHeightFR,
		RideHeightRL:    req.RideHeightRL,
		RideHeightRR:    req.RideHeightRR,
		CamberFront:     req.CamberFront,
		CamberRear:      req.CamberRear,
		ToeFront:        req.ToeFront,
		ToeRear:         req.ToeRear,
		SpringRateFront: req.SpringRateFront,
		SpringRateRear:  req.SpringRateRear,
		DamperFront:     req.DamperFront,
		DamperRear:      req.DamperRear,
		ARBFront:        req.ARBFront,
		ARBRear:         req.ARBRear,
		AeroFront:       req.AeroFront,
		AeroRear:        req.AeroRear,
		EventName:       strings.TrimSpace(req.EventName),
		EventDate:       req.EventDate,
		Rating:          req.Rating,
		Notes:           req.Notes,
	}, nil
}

func buildGroup(userID uuid.UUID, req UpsertGroupRequest) (*models.SetupGroup, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return &models.SetupGroup{
		UserID:    userID,
		VehicleID: req.VehicleID,
		Name:      name,
		TrackName: strings.TrimSpace(req.TrackName),
		Date:      req.Date,
	}, nil
}
