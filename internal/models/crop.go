package models

import "time"

// Crop types known to the static tables. Anything else resolves to the
// generic fallback rows, never to an error.
const (
	CropWheat     = "wheat"
	CropRice      = "rice"
	CropCotton    = "cotton"
	CropSugarcane = "sugarcane"
	CropMaize     = "maize"
)

// Growth stages (lifecycle phases).
const (
	StageSowing     = "sowing"
	StageVegetative = "vegetative"
	StageFlowering  = "flowering"
	StageHarvesting = "harvesting"
)

// Health statuses.
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthFair      = "fair"
	HealthPoor      = "poor"
)

// CropProfile describes what is growing and how it is doing.
type CropProfile struct {
	Type         string    `json:"type"`  // wheat | rice | cotton | ...
	Stage        string    `json:"stage"` // sowing | vegetative | flowering | harvesting
	PlantedDate  time.Time `json:"planted_date,omitempty"`
	HealthStatus string    `json:"health_status"` // excellent | good | fair | poor
}

// CropCoefficients holds the per-phase Kc multipliers for one crop.
type CropCoefficients struct {
	Initial float64 `json:"initial"`
	Mid     float64 `json:"mid"`
	End     float64 `json:"end"`
}

// MoistureBand is the optimal soil-moisture window for one crop.
type MoistureBand struct {
	MinPct         float64 `json:"min_pct"`
	MaxPct         float64 `json:"max_pct"`
	CriticalLowPct float64 `json:"critical_low_pct"`
}
