package service

import (
	"context"
	"fmt"

	"krishimitra/internal/models"
)

// IrrigationConfig holds the rule constants. The amount scaling and
// confidence falloff are demo-calibrated values carried over from the
// original tables; they are tunable, not derived.
type IrrigationConfig struct {
	// OverMoisturePct is the ceiling above which watering must stop.
	OverMoisturePct float64
	// CriticalMoisturePct escalates the over-irrigation stop to critical.
	CriticalMoisturePct float64
	// BaseAmountMm is the starting dose when irrigation is needed.
	BaseAmountMm float64
	// DeficitScaleMmPerPct adds water per percent below the optimal minimum.
	DeficitScaleMmPerPct float64
	// ExtraTempC is the temperature above which ExtraAmountMm is added.
	ExtraTempC float64
	// ExtraAmountMm is the hot-day supplement.
	ExtraAmountMm float64
	// ReduceGracePct widens the "slightly over" band before urgency rises.
	ReduceGracePct float64
}

// DefaultIrrigationConfig returns the stock constants.
func DefaultIrrigationConfig() IrrigationConfig {
	return IrrigationConfig{
		OverMoisturePct:      80,
		CriticalMoisturePct:  90,
		BaseAmountMm:         10,
		DeficitScaleMmPerPct: 0.5,
		ExtraTempC:           35,
		ExtraAmountMm:        10,
		ReduceGracePct:       5,
	}
}

type IrrigationService struct {
	readings Readings
	cfg      IrrigationConfig
}

func NewIrrigationService(readings Readings, cfg IrrigationConfig) *IrrigationService {
	return &IrrigationService{readings: readings, cfg: cfg}
}

// Evaluate reads the snapshot at invocation time and applies the rules.
// Verdicts are never cached; two back-to-back calls with no intervening
// update are identical.
func (s *IrrigationService) Evaluate(ctx context.Context) (models.IrrigationVerdict, error) {
	state, err := s.readings.Get(ctx)
	if err != nil {
		return models.IrrigationVerdict{}, err
	}
	return s.EvaluateState(state), nil
}

// EvaluateState applies the ordered rules to a snapshot. First matching
// rule wins; order is the tie-break policy.
func (s *IrrigationService) EvaluateState(state models.FarmState) models.IrrigationVerdict {
	m := state.Sensors.SoilMoisturePct
	temp := state.Sensors.TemperatureC
	band := moistureBandFor(state.Crop.Type)

	// Rule 1: rain present dominates everything.
	if state.Sensors.IsRaining {
		return models.IrrigationVerdict{
			ShouldAct:     false,
			Action:        models.ActionStop,
			AmountMm:      0,
			Urgency:       models.UrgencyLow,
			ConfidencePct: 95,
			Reason:        "It is raining; skip irrigation and let the rain soak in.",
			ReasonHindi:   "बारिश हो रही है, सिंचाई रोक दें। बारिश का पानी काफी है।",
		}
	}

	// Rule 2: over-irrigation risk.
	if m > s.cfg.OverMoisturePct {
		urgency := models.UrgencyHigh
		if m > s.cfg.CriticalMoisturePct {
			urgency = models.UrgencyCritical
		}
		return models.IrrigationVerdict{
			ShouldAct:     true,
			Action:        models.ActionStop,
			AmountMm:      0,
			Urgency:       urgency,
			ConfidencePct: confidenceInBand(m, s.cfg.OverMoisturePct, 100),
			Reason:        fmt.Sprintf("Soil moisture %.0f%% is too high; stop watering to avoid root damage.", m),
			ReasonHindi:   fmt.Sprintf("मिट्टी में नमी %.0f%% बहुत ज्यादा है, पानी देना बंद करें वरना जड़ें खराब होंगी।", m),
		}
	}

	// Rule 3: inside the optimal band.
	if m >= band.MinPct && m <= band.MaxPct {
		return models.IrrigationVerdict{
			ShouldAct:     false,
			Action:        models.ActionWait,
			AmountMm:      0,
			Urgency:       models.UrgencyLow,
			ConfidencePct: confidenceInBand(m, band.MinPct, band.MaxPct),
			Reason:        fmt.Sprintf("Soil moisture %.0f%% is in the optimal range for %s; no water needed.", m, cropLabel(state.Crop.Type)),
			ReasonHindi:   fmt.Sprintf("मिट्टी की नमी %.0f%% सही है, अभी पानी की जरूरत नहीं।", m),
		}
	}

	// Rule 4: critically dry.
	if m < band.CriticalLowPct {
		amount := s.doseFor(band.MinPct-m, temp, state.Crop)
		return models.IrrigationVerdict{
			ShouldAct:     true,
			Action:        models.ActionIrrigate,
			AmountMm:      amount,
			Urgency:       models.UrgencyCritical,
			ConfidencePct: confidenceInBand(m, 0, band.CriticalLowPct),
			Reason:        fmt.Sprintf("Soil moisture %.0f%% is critically low; irrigate %.0f mm immediately.", m, amount),
			ReasonHindi:   fmt.Sprintf("मिट्टी बहुत सूखी है (%.0f%%)! तुरंत %.0f मिमी पानी दें।", m, amount),
		}
	}

	// Rule 5: below optimal but above critical.
	if m < band.MinPct {
		amount := s.doseFor(band.MinPct-m, temp, state.Crop)
		urgency := models.UrgencyMedium
		if m < (band.CriticalLowPct+band.MinPct)/2 {
			urgency = models.UrgencyHigh
		}
		return models.IrrigationVerdict{
			ShouldAct:     true,
			Action:        models.ActionIrrigate,
			AmountMm:      amount,
			Urgency:       urgency,
			ConfidencePct: confidenceInBand(m, band.CriticalLowPct, band.MinPct),
			Reason:        fmt.Sprintf("Soil moisture %.0f%% is below the optimal %.0f%%; irrigate about %.0f mm.", m, band.MinPct, amount),
			ReasonHindi:   fmt.Sprintf("मिट्टी की नमी %.0f%% कम है, करीब %.0f मिमी पानी दें।", m, amount),
		}
	}

	// Rule 6: slightly above optimal but under the stop ceiling.
	urgency := models.UrgencyLow
	if m > band.MaxPct+s.cfg.ReduceGracePct {
		urgency = models.UrgencyMedium
	}
	return models.IrrigationVerdict{
		ShouldAct:     true,
		Action:        models.ActionReduce,
		AmountMm:      0,
		Urgency:       urgency,
		ConfidencePct: confidenceInBand(m, band.MaxPct, s.cfg.OverMoisturePct),
		Reason:        fmt.Sprintf("Soil moisture %.0f%% is a little above optimal; reduce the next watering.", m),
		ReasonHindi:   fmt.Sprintf("नमी %.0f%% थोड़ी ज्यादा है, अगली सिंचाई कम करें।", m),
	}
}

// doseFor computes the irrigation amount for a moisture deficit, scaled by
// the crop's stage coefficient, with the hot-day supplement above ExtraTempC
// added on top unscaled.
func (s *IrrigationService) doseFor(deficitPct, tempC float64, crop models.CropProfile) float64 {
	if deficitPct < 0 {
		deficitPct = 0
	}
	amount := (s.cfg.BaseAmountMm + deficitPct*s.cfg.DeficitScaleMmPerPct) * kcFor(crop)
	if tempC > s.cfg.ExtraTempC {
		amount += s.cfg.ExtraAmountMm
	}
	return amount
}

// confidenceInBand is maximal at the band center and falls off linearly
// toward the edges (100 at center, 60 at a boundary).
func confidenceInBand(v, lo, hi float64) float64 {
	if hi <= lo {
		return 60
	}
	center := (lo + hi) / 2
	half := (hi - lo) / 2
	dist := v - center
	if dist < 0 {
		dist = -dist
	}
	if dist > half {
		dist = half
	}
	return 100 - 40*dist/half
}

// cropLabel renders a crop type for reason strings; unknown types pass
// through as written.
func cropLabel(cropType string) string {
	if cropType == "" {
		return "your crop"
	}
	return cropType
}
