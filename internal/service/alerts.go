package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"krishimitra/internal/models"

	"github.com/google/uuid"
)

// AlertService sweeps the snapshot against the same thresholds the
// irrigation engine uses, so the two never disagree about "critical". It
// remembers two bits between sweeps: whether the previous evaluation saw
// high moisture (for the two-consecutive-readings rule) and whether an
// irrigation action was pending (for weather_cancel).
type AlertService struct {
	readings   Readings
	irrigation Irrigation
	cfg        IrrigationConfig

	mu           sync.Mutex
	prevHigh     bool
	pendingIrrig bool
}

func NewAlertService(readings Readings, irrigation Irrigation, cfg IrrigationConfig) *AlertService {
	return &AlertService{readings: readings, irrigation: irrigation, cfg: cfg}
}

// Scan evaluates the current snapshot and returns zero or more alerts.
func (s *AlertService) Scan(ctx context.Context) ([]models.AlertRecord, error) {
	state, err := s.readings.Get(ctx)
	if err != nil {
		return nil, err
	}
	verdict := s.irrigation.EvaluateState(state)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	m := state.Sensors.SoilMoisturePct
	band := moistureBandFor(state.Crop.Type)
	var alerts []models.AlertRecord

	// Over-irrigation: immediately above the critical ceiling, or above the
	// stop ceiling twice in a row. Same constants the irrigation rules use.
	high := m > s.cfg.OverMoisturePct
	if m > s.cfg.CriticalMoisturePct || (high && s.prevHigh) {
		severity := models.SeverityMedium
		if m > s.cfg.CriticalMoisturePct {
			severity = models.SeverityHigh
		}
		alerts = append(alerts, models.AlertRecord{
			ID:        uuid.NewString(),
			Kind:      models.AlertOverIrrigation,
			Severity:  severity,
			Message:   fmt.Sprintf("Soil moisture %.0f%% is too high; the field is waterlogged.", m),
			MessageHi: fmt.Sprintf("मिट्टी में नमी %.0f%% बहुत ज्यादा है, खेत में पानी भर गया है।", m),
			Timestamp: now,
		})
	}

	// Under-irrigation: below the crop's optimal minimum.
	if m < band.MinPct {
		severity := models.SeverityMedium
		if m < band.CriticalLowPct {
			severity = models.SeverityHigh
		}
		alerts = append(alerts, models.AlertRecord{
			ID:        uuid.NewString(),
			Kind:      models.AlertUnderIrrigation,
			Severity:  severity,
			Message:   fmt.Sprintf("Soil moisture %.0f%% is below the optimal %.0f%% for %s.", m, band.MinPct, cropLabel(state.Crop.Type)),
			MessageHi: fmt.Sprintf("मिट्टी की नमी %.0f%% जरूरत से कम है, सिंचाई की सोचें।", m),
			Timestamp: now,
		})
	}

	// Weather cancel: rain arrived while an irrigation action was pending.
	if state.Sensors.IsRaining && s.pendingIrrig {
		alerts = append(alerts, models.AlertRecord{
			ID:        uuid.NewString(),
			Kind:      models.AlertWeatherCancel,
			Severity:  models.SeverityLow,
			Message:   "Rain has started; the planned irrigation is cancelled.",
			MessageHi: "बारिश शुरू हो गई है, सिंचाई की जरूरत नहीं रही।",
			Timestamp: now,
		})
	}

	s.prevHigh = high
	s.pendingIrrig = verdict.Action == models.ActionIrrigate && !state.Sensors.IsRaining

	return alerts, nil
}
