package service

import (
	"context"
	"math/rand"
	"time"

	"krishimitra/internal/models"
	"krishimitra/internal/repository"
)

// Documented defaults used when no snapshot has ever been saved. Decision
// engines operate on these rather than failing.
const (
	defaultSoilMoisturePct = 50.0
	defaultTemperatureC    = 28.0
	defaultHumidityPct     = 60.0
)

// Plausible physical ranges for the demo randomizer.
const (
	randomMoistureMin = 10.0
	randomMoistureMax = 90.0
	randomTempMin     = 15.0
	randomTempMax     = 40.0
	randomHumidityMin = 20.0
	randomHumidityMax = 95.0
)

type ReadingService struct {
	farmRepo repository.FarmRepo
}

func NewReadingService(farmRepo repository.FarmRepo) *ReadingService {
	return &ReadingService{farmRepo: farmRepo}
}

// Get returns the current snapshot by value. If none was ever saved, a
// baseline snapshot with documented defaults is returned.
func (s *ReadingService) Get(ctx context.Context) (models.FarmState, error) {
	state, err := s.farmRepo.Load(ctx)
	if err != nil {
		return models.FarmState{}, err
	}
	if state.ID == 0 {
		return baselineFarmState(), nil
	}
	state.UpdatedAt = state.UpdatedAt.UTC()
	return state, nil
}

// UpdateSensors merges non-nil fields into the sensor snapshot and stamps
// LastUpdated. Two rapid updates are last-write-wins in call order.
func (s *ReadingService) UpdateSensors(ctx context.Context, u models.SensorUpdate) (models.SensorReading, error) {
	state, err := s.Get(ctx)
	if err != nil {
		return models.SensorReading{}, err
	}

	now := time.Now().UTC()
	r := state.Sensors
	if u.SoilMoisturePct != nil {
		r.SoilMoisturePct = clampPct(*u.SoilMoisturePct)
	}
	if u.TemperatureC != nil {
		r.TemperatureC = *u.TemperatureC
	}
	if u.HumidityPct != nil {
		r.HumidityPct = clampPct(*u.HumidityPct)
	}
	if u.IsRaining != nil {
		r.IsRaining = *u.IsRaining
	}
	if u.RainProbability != nil {
		r.RainProbability = clampPct(*u.RainProbability)
	}
	r.LastUpdated = now

	state.Sensors = r
	state.UpdatedAt = now
	if err := s.farmRepo.Save(ctx, state); err != nil {
		return models.SensorReading{}, err
	}
	return r, nil
}

// SetWeather replaces the weather snapshot.
func (s *ReadingService) SetWeather(ctx context.Context, w models.WeatherSnapshot) error {
	state, err := s.Get(ctx)
	if err != nil {
		return err
	}
	state.Weather = w
	state.UpdatedAt = time.Now().UTC()
	return s.farmRepo.Save(ctx, state)
}

// SetCrop replaces the crop profile. Unknown types/stages are stored as
// given; the engines resolve them through fallback rows, never errors.
func (s *ReadingService) SetCrop(ctx context.Context, c models.CropProfile) error {
	state, err := s.Get(ctx)
	if err != nil {
		return err
	}
	state.Crop = c
	state.UpdatedAt = time.Now().UTC()
	return s.farmRepo.Save(ctx, state)
}

// Randomize produces a fresh sensor snapshot within plausible physical
// ranges. Demo aid only; it flows through the same save path as a real
// sensor update.
func (s *ReadingService) Randomize(ctx context.Context) (models.SensorReading, error) {
	state, err := s.Get(ctx)
	if err != nil {
		return models.SensorReading{}, err
	}

	now := time.Now().UTC()
	rainProb := rand.Float64() * 100
	r := models.SensorReading{
		SoilMoisturePct: randomInRange(randomMoistureMin, randomMoistureMax),
		TemperatureC:    randomInRange(randomTempMin, randomTempMax),
		HumidityPct:     randomInRange(randomHumidityMin, randomHumidityMax),
		IsRaining:       rainProb > 75,
		RainProbability: rainProb,
		LastUpdated:     now,
	}

	state.Sensors = r
	state.UpdatedAt = now
	if err := s.farmRepo.Save(ctx, state); err != nil {
		return models.SensorReading{}, err
	}
	return r, nil
}

// baselineFarmState is the documented-default snapshot for a farm that has
// never reported a reading.
func baselineFarmState() models.FarmState {
	now := time.Now().UTC()
	return models.FarmState{
		ID: 1, // DB schema enforces single-row state with id=1
		Sensors: models.SensorReading{
			SoilMoisturePct: defaultSoilMoisturePct,
			TemperatureC:    defaultTemperatureC,
			HumidityPct:     defaultHumidityPct,
			IsRaining:       false,
			RainProbability: 20,
			LastUpdated:     now,
		},
		Weather: models.WeatherSnapshot{
			CurrentTempC:    defaultTemperatureC,
			ForecastTempC:   defaultTemperatureC + 2,
			RainfallMm:      0,
			RainProbability: 20,
			Condition:       models.ConditionSunny,
		},
		Crop: models.CropProfile{
			Type:         models.CropWheat,
			Stage:        models.StageVegetative,
			HealthStatus: models.HealthGood,
		},
		UpdatedAt: now,
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func randomInRange(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}
