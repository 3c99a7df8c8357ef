package setups

import (
	"time"

	"github.com/google/uuid"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
)

// SetupDTO is the transport shape for one setup sheet.
type SetupDTO struct {
	ID        uuid.UUID  `json:"id"`
	VehicleID uuid.UUID  `json:"vehicle_id"`
	GroupID   *uuid.UUID `json:"group_id,omitempty"`

	Name       string `json:"name"`
	Conditions string `json:"conditions"`

	TyreCompound  string  `json:"tyre_compound"`
	TyreType      string  `json:"tyre_type"`
	TyreSize      string  `json:"tyre_size"`
	TyreCondition string  `json:"tyre_condition"`
	TyrePressFL   float64 `json:"tyre_pressure_fl"`
	TyrePressFR   float64 `json:"tyre_pressure_fr"`
	TyrePressRL   float64 `json:"tyre_pressure_rl"`
	TyrePressRR   float64 `json:"tyre_pressure_rr"`

	RideHeightFL    float64 `json:"ride_height_fl"`
	RideHeightFR    float64 `json:"ride_height_fr"`
	RideHeightRL    float64 `json:"ride_height_rl"`
	RideHeightRR    float64 `json:"ride_height_rr"`
	CamberFront     float64 `json:"camber_front"`
	CamberRear      float64 `json:"camber_rear"`
	ToeFront        float64 `json:"toe_front"`
	ToeRear         float64 `json:"toe_rear"`
	SpringRateFront float64 `json:"spring_rate_front"`
	SpringRateRear  float64 `json:"spring_rate_rear"`
	DamperFront     float64 `json:"damper_front"`
	DamperRear      float64 `json:"damper_rear"`
	ARBFront        float64 `json:"arb_front"`
	ARBRear         float64 `json:"arb_rear"`
	AeroFront       string  `json:"aero_front"`
	AeroRear        string  `json:"aero_rear"`

	EventName string     `json:"event_name"`
	EventDate *time.Time `json:"event_date,omitempty"`
	Rating    int        `json:"rating"`
	Notes     string     `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertSetupRequest creates or fully replaces a setup sheet.
type UpsertSetupRequest struct {
	VehicleID uuid.UUID  `json:"vehicle_id" validate:"required"`
	GroupID   *uuid.UUID `json:"group_id,omitempty"`

	Name       string `json:"name" validate:"required"`
	Conditions string `json:"conditions"`

	TyreCompound  string  `json:"tyre_compound" validate:"omitempty,oneof=soft medium hard"`
	TyreType      string  `json:"tyre_type"`
	TyreSize      string  `json:"tyre_size"`
	TyreCondition string  `json:"tyre_condition" validate:"omitempty,oneof=new roaded used worn"`
	TyrePressFL   float64 `json:"tyre_pressure_fl"`
	TyrePressFR   float64 `json:"tyre_pressure_fr"`
	TyrePressRL   float64 `json:"tyre_pressure_rl"`
	TyrePressRR   float64 `json:"tyre_pressure_rr"`

	RideHeightFL    float64 `json:"ride_height_fl"`
	RideHeightFR    float64 `json:"ride_height_fr"`
	RideHeightRL    float64 `json:"ride_height_rl"`
	RideHeightRR    float64 `json:"ride_height_rr"`
	CamberFront     float64 `json:"camber_front"`
	CamberRear      float64 `json:"camber_rear"`
	ToeFront        float64 `json:"toe_front"`
	ToeRear         float64 `json:"toe_rear"`
	SpringRateFront float64 `json:"spring_rate_front"`
	SpringRateRear  float64 `json:"spring_rate_rear"`
	DamperFront     float64 `json:"damper_front"`
	DamperRear      float64 `json:"damper_rear"`
	ARBFront        float64 `json:"arb_front"`
	ARBRear         float64 `json:"arb_rear"`
	AeroFront       string  `json:"aero_front"`
	AeroRear        string  `json:"aero_rear"`

	EventName string     `json:"event_name"`
	EventDate *time.Time `json:"event_date,omitempty"`
	Rating    int        `json:"rating" validate:"gte=0,lte=5"`
	Notes     string     `json:"notes"`
}

// GroupDTO is the transport shape for a setup group.
type GroupDTO struct {
	ID        uuid.UUID  `json:"id"`
	VehicleID uuid.UUID  `json:"vehicle_id"`
	Name      string     `json:"name"`
	TrackName string     `json:"track_name"`
	Date      *time.Time `json:"date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UpsertGroupRequest creates or replaces a setup group.
type UpsertGroupRequest struct {
	VehicleID uuid.UUID  `json:"vehicle_id" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	TrackName string     `json:"track_name"`
	Date      *time.Time `json:"date,omitempty"`
}

func fromSetupModel(m *models.Setup) *SetupDTO {
	if m == nil {
		return nil
	}
	return &SetupDTO{
		ID:              m.ID,
		VehicleID:       m.VehicleID,
		GroupID:         m.GroupID,
		Name:            m.Name,
		Conditions:      m.Conditions,
		TyreCompound:    m.TyreCompound,
		TyreType:        m.TyreType,
		TyreSize:        m.TyreSize,
		TyreCondition:   m.TyreCondition,
		TyrePressFL:     m.TyrePressFL,
		TyrePressFR:     m.TyrePressFR,
		TyrePressRL:     m.TyrePressRL,
		TyrePressRR:     m.TyrePressRR,
		RideHeightFL:    m.RideHeightFL,
		RideHeightFR:    m.RideHeightFR,
		RideHeightRL:    m.RideHeightRL,
		RideHeightRR:    m.RideHeightRR,
		CamberFront:     m.CamberFront,
		CamberRear:      m.CamberRear,
		ToeFront:        m.ToeFront,
		ToeRear:         m.ToeRear,
		SpringRateFront: m.SpringRateFront,
		SpringRateRear:  m.SpringRateRear,
		DamperFront:     m.DamperFront,
		DamperRear:      m.DamperRear,
		ARBFront:        m.ARBFront,
		ARBRear:         m.ARBRear,
		AeroFront:       m.AeroFront,
		AeroRear:        m.AeroRear,
		EventName:       m.EventName,
		EventDate:       m.EventDate,
		Rating:          m.Rating,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromGroupModel(m *models.SetupGroup) *GroupDTO {
	if m == nil {
		return nil
	}
	return &GroupDTO{
		ID:        m.ID,
		VehicleID: m.VehicleID,
		Name:      m.Name,
		TrackName: m.TrackName,
		Date:      m.Date,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
