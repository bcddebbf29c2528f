package service

import (
	"context"
	"testing"
	"time"

	"krishimitra/internal/models"
)

func TestReadings_BaselineDefaults(t *testing.T) {
	t.Parallel()

	// Empty repo: Load returns the zero value, Get substitutes defaults.
	s := NewReadingService(&fakeFarmRepo{})

	state, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Sensors.SoilMoisturePct != defaultSoilMoisturePct {
		t.Errorf("moisture default: want %.0f, got %.0f", defaultSoilMoisturePct, state.Sensors.SoilMoisturePct)
	}
	if state.Sensors.TemperatureC != defaultTemperatureC {
		t.Errorf("temperature default: want %.0f, got %.0f", defaultTemperatureC, state.Sensors.TemperatureC)
	}
	if state.Sensors.HumidityPct != defaultHumidityPct {
		t.Errorf("humidity default: want %.0f, got %.0f", defaultHumidityPct, state.Sensors.HumidityPct)
	}
	if state.Crop.Type != models.CropWheat {
		t.Errorf("baseline crop: want wheat, got %q", state.Crop.Type)
	}
}

func TestReadings_UpdateMergesPartialFields(t *testing.T) {
	t.Parallel()

	repo := &fakeFarmRepo{loadResp: wheatState(55, 30, false)}
	s := NewReadingService(repo)
	before := repo.loadResp.Sensors

	moisture := 42.0
	r, err := s.UpdateSensors(context.Background(), models.SensorUpdate{SoilMoisturePct: &moisture})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.SoilMoisturePct != 42 {
		t.Errorf("moisture: want 42, got %.1f", r.SoilMoisturePct)
	}
	if r.TemperatureC != before.TemperatureC {
		t.Errorf("unset field must survive the merge: want %.1f, got %.1f", before.TemperatureC, r.TemperatureC)
	}
	if r.HumidityPct != before.HumidityPct {
		t.Errorf("unset field must survive the merge: want %.1f, got %.1f", before.HumidityPct, r.HumidityPct)
	}
	if !r.LastUpdated.After(before.LastUpdated.Add(-time.Second)) {
		t.Errorf("last_updated must be stamped, got %v", r.LastUpdated)
	}
	if len(repo.savedCalls) != 1 {
		t.Fatalf("update must persist exactly once, got %d saves", len(repo.savedCalls))
	}
}

func TestReadings_UpdateClampsPercentages(t *testing.T) {
	t.Parallel()

	repo := &fakeFarmRepo{loadResp: wheatState(55, 30, false)}
	s := NewReadingService(repo)

	over := 130.0
	under := -5.0
	r, err := s.UpdateSensors(context.Background(), models.SensorUpdate{
		SoilMoisturePct: &over,
		HumidityPct:     &under,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.SoilMoisturePct != 100 {
		t.Errorf("moisture must clamp to 100, got %.1f", r.SoilMoisturePct)
	}
	if r.HumidityPct != 0 {
		t.Errorf("humidity must clamp to 0, got %.1f", r.HumidityPct)
	}
}

func TestReadings_RandomizeStaysInRange(t *testing.T) {
	t.Parallel()

	repo := &fakeFarmRepo{loadResp: wheatState(55, 30, false)}
	s := NewReadingService(repo)

	for i := 0; i < 100; i++ {
		r, err := s.Randomize(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.SoilMoisturePct < randomMoistureMin || r.SoilMoisturePct > randomMoistureMax {
			t.Fatalf("moisture %.1f outside [%.0f, %.0f]", r.SoilMoisturePct, randomMoistureMin, randomMoistureMax)
		}
		if r.TemperatureC < randomTempMin || r.TemperatureC > randomTempMax {
			t.Fatalf("temperature %.1f outside [%.0f, %.0f]", r.TemperatureC, randomTempMin, randomTempMax)
		}
		if r.HumidityPct < randomHumidityMin || r.HumidityPct > randomHumidityMax {
			t.Fatalf("humidity %.1f outside [%.0f, %.0f]", r.HumidityPct, randomHumidityMin, randomHumidityMax)
		}
		if r.IsRaining && r.RainProbability <= 75 {
			t.Fatalf("rain flag requires probability > 75, got %.1f", r.RainProbability)
		}
	}
}

func TestReadings_SetCropAcceptsUnknownType(t *testing.T) {
	t.Parallel()

	repo := &fakeFarmRepo{loadResp: wheatState(55, 30, false)}
	s := NewReadingService(repo)

	err := s.SetCrop(context.Background(), models.CropProfile{Type: "dragonfruit", Stage: "germination"})
	if err != nil {
		t.Fatalf("unknown crop must be stored, not rejected: %v", err)
	}
	if len(repo.savedCalls) != 1 || repo.savedCalls[0].Crop.Type != "dragonfruit" {
		t.Fatalf("crop profile must be persisted as given: %+v", repo.savedCalls)
	}
}
