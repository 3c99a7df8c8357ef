package enums

import "fmt"

// StocktakeStatus tracks whether a stocktake record has been written back to inventory.
type StocktakeStatus string

const (
	StocktakeStatusSaved   StocktakeStatus = "saved"
	StocktakeStatusApplied StocktakeStatus = "applied"
)

var validStocktakeStatuses = []StocktakeStatus{
	StocktakeStatusSaved,
	StocktakeStatusApplied,
}

// String implements fmt.Stringer.
func (s StocktakeStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StocktakeStatus.
func (s StocktakeStatus) IsValid() bool {
	for _, candidate := range validStocktakeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStocktakeStatus converts raw input into a StocktakeStatus.
func ParseStocktakeStatus(value string) (StocktakeStatus, error) {
	for _, candidate := range validStocktakeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stocktake status %q", value)
}

// StocktakeMode selects how a counting session is performed, either item by
// item on the device or against a printed worksheet.
type StocktakeMode string

const (
	StocktakeModeDevice StocktakeMode = "device"
	StocktakeModePDF    StocktakeMode = "pdf"
)

var validStocktakeModes = []StocktakeMode{
	StocktakeModeDevice,
	StocktakeModePDF,
}

// String implements fmt.Stringer.
func (m StocktakeMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known StocktakeMode.
func (m StocktakeMode) IsValid() bool {
	for _, candidate := range validStocktakeModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseStocktakeMode converts raw input into a StocktakeMode.
func ParseStocktakeMode(value string) (StocktakeMode, error) {
	for _, candidate := range validStocktakeModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stocktake mode %q", value)
}

// StocktakePhase describes where an in-progress counting session sits in its flow.
type StocktakePhase string

const (
	StocktakePhaseModeSelect StocktakePhase = "mode_select"
	StocktakePhaseCounting   StocktakePhase = "counting"
	StocktakePhaseSummary    StocktakePhase = "summary"
	StocktakePhaseSaved      StocktakePhase = "saved"
	StocktakePhaseApplied    StocktakePhase = "applied"
)

var validStocktakePhases = []StocktakePhase{
	StocktakePhaseModeSelect,
	StocktakePhaseCounting,
	StocktakePhaseSummary,
	StocktakePhaseSaved,
	StocktakePhaseApplied,
}

// String implements fmt.Stringer.
func (p StocktakePhase) String() string {
	return string(p)
}

// IsValid reports whether the value is a known StocktakePhase.
func (p StocktakePhase) IsValid() bool {
	for _, candidate := range validStocktakePhases {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseStocktakePhase converts raw input into a StocktakePhase.
func ParseStocktakePhase(value string) (StocktakePhase, error) {
	for _, candidate := range validStocktakePhases {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stocktake phase %q", value)
}
