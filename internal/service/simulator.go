package service

import (
	"context"
	"math/rand"
	"time"

	"krishimitra/internal/logger"
	"krishimitra/internal/models"
)

// ----------- Simulation constants -----------
const (
	driftMoistureMaxPct = 3.0 // random walk step per tick
	driftTempMaxC       = 1.0
	driftHumidityMaxPct = 2.0
	rainStartThreshold  = 85.0 // rain probability above which rain begins
	rainStopThreshold   = 40.0 // below this, ongoing rain stops
	rainSoakPctPerTick  = 4.0  // moisture gained per tick while raining
)

// SimulatorService drifts the demo sensor values over time so the app has
// moving data without hardware. It writes through the same update path a
// real sensor would use, so decision semantics are unaffected.
type SimulatorService struct {
	readings Readings
	log      *logger.Logger
}

func NewSimulatorService(readings Readings, log *logger.Logger) *SimulatorService {
	return &SimulatorService{readings: readings, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			state, err := s.readings.Get(ctx)
			if err != nil {
				s.log.Debugw("simulator_get_failed", "err", err)
				continue
			}
			update := s.nextStep(state.Sensors)
			if _, err := s.readings.UpdateSensors(ctx, update); err != nil {
				s.log.Debugw("simulator_update_failed", "err", err)
			}
		}
	}
}

// nextStep produces a small random walk from the current reading, clamped
// to plausible physical ranges.
func (s *SimulatorService) nextStep(r models.SensorReading) models.SensorUpdate {
	moisture := clampRange(r.SoilMoisturePct+symmetricStep(driftMoistureMaxPct), randomMoistureMin, randomMoistureMax)
	temp := clampRange(r.TemperatureC+symmetricStep(driftTempMaxC), randomTempMin, randomTempMax)
	humidity := clampRange(r.HumidityPct+symmetricStep(driftHumidityMaxPct), randomHumidityMin, randomHumidityMax)
	rainProb := clampRange(r.RainProbability+symmetricStep(10), 0, 100)

	raining := r.IsRaining
	if !raining && rainProb > rainStartThreshold {
		raining = true
	} else if raining && rainProb < rainStopThreshold {
		raining = false
	}
	if raining {
		moisture = clampRange(moisture+rainSoakPctPerTick, randomMoistureMin, 100)
	}

	return models.SensorUpdate{
		SoilMoisturePct: &moisture,
		TemperatureC:    &temp,
		HumidityPct:     &humidity,
		IsRaining:       &raining,
		RainProbability: &rainProb,
	}
}

func symmetricStep(max float64) float64 {
	return (rand.Float64()*2 - 1) * max
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
