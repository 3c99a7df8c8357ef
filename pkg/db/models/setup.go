package models

import (
	"time"

	"github.com/google/uuid"
)

// Setup captures a full chassis and tyre configuration for one event.
type Setup struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	VehicleID uuid.UUID  `gorm:"column:vehicle_id;type:uuid;not null;index" json:"vehicle_id"`
	GroupID   *uuid.UUID `gorm:"column:group_id;type:uuid;index" json:"group_id,omitempty"`

	Name       string `gorm:"column:name;not null" json:"name"`
	Conditions string `gorm:"column:conditions;not null;default:''" json:"conditions"`

	TyreCompound  string  `gorm:"column:tyre_compound;not null;default:''" json:"tyre_compound"`
	TyreType      string  `gorm:"column:tyre_type;not null;default:''" json:"tyre_type"`
	TyreSize      string  `gorm:"column:tyre_size;not null;default:''" json:"tyre_size"`
	TyreCondition string  `gorm:"column:tyre_condition;not null;default:''" json:"tyre_condition"`
	TyrePressFL   float64 `gorm:"column:tyre_pressure_fl;not null;default:0" json:"tyre_pressure_fl"`
	TyrePressFR   float64 `gorm:"column:tyre_pressure_fr;not null;default:0" json:"tyre_pressure_fr"`
	TyrePressRL   float64 `gorm:"column:tyre_pressure_rl;not null;default:0" json:"tyre_pressure_rl"`
	TyrePressRR   float64 `gorm:"column:tyre_pressure_rr;not null;default:0" json:"tyre_pressure_rr"`

	RideHeightFL    float64 `gorm:"column:ride_height_fl;not null;default:0" json:"ride_height_fl"`
	RideHeightFR    float64 `gorm:"column:ride_height_fr;not null;default:0" json:"ride_height_fr"`
	RideHeightRL    float64 `gorm:"column:ride_height_rl;not null;default:0" json:"ride_height_rl"`
	RideHeightRR    float64 `gorm:"column:ride_height_rr;not null;default:0" json:"ride_height_rr"`
	CamberFront     float64 `gorm:"column:camber_front;not null;default:0" json:"camber_front"`
	CamberRear      float64 `gorm:"column:camber_rear;not null;default:0" json:"camber_rear"`
	ToeFront        float64 `gorm:"column:toe_front;not null;default:0" json:"toe_front"`
	ToeRear         float64 `gorm:"column:toe_rear;not null;default:0" json:"toe_rear"`
	SpringRateFront float64 `gorm:"column:spring_rate_front;not null;default:0" json:"spring_rate_front"`
	SpringRateRear  float64 `gorm:"column:spring_rate_rear;not null;default:0" json:"spring_rate_rear"`
	DamperFront     float64 `gorm:"column:damper_front;not null;default:0" json:"damper_front"`
	DamperRear      float64 `gorm:"column:damper_rear;not null;default:0" json:"damper_rear"`
	ARBFront        float64 `gorm:"column:arb_front;not null;default:0" json:"arb_front"`
	ARBRear         float64 `gorm:"column:arb_rear;not null;default:0" json:"arb_rear"`
	AeroFront       string  `gorm:"column:aero_front;not null;default:''" json:"aero_front"`
	AeroRear        string  `gorm:"column:aero_rear;not null;default:''" json:"aero_rear"`

	EventName string     `gorm:"column:event_name;not null;default:''" json:"event_name"`
	EventDate *time.Time `gorm:"column:event_date" json:"event_date,omitempty"`
	Rating    int        `gorm:"column:rating;not null;default:0" json:"rating"`
	Notes     string     `gorm:"column:notes;not null;default:''" json:"notes"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
