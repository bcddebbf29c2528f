package service

import (
	"context"
	"testing"

	"krishimitra/internal/models"
)

func TestFertilizer_LookupIsTotal(t *testing.T) {
	t.Parallel()
	s := NewFertilizerService(nil)

	crops := []string{
		models.CropWheat, models.CropRice, models.CropCotton,
		models.CropSugarcane, models.CropMaize, "dragonfruit", "",
	}
	stages := []string{
		models.StageSowing, models.StageVegetative, models.StageFlowering,
		models.StageHarvesting, "germination", "",
	}

	for _, crop := range crops {
		for _, stage := range stages {
			adv := s.RecommendFor(models.CropProfile{Type: crop, Stage: stage, HealthStatus: models.HealthGood})
			if adv.Fertilizer == "" {
				t.Errorf("(%q, %q): lookup must always return a recommendation", crop, stage)
			}
			if adv.Reason == "" || adv.ReasonHindi == "" {
				t.Errorf("(%q, %q): both reason strings must be set", crop, stage)
			}
		}
	}
}

func TestFertilizer_RiceFloweringIsMOP(t *testing.T) {
	t.Parallel()
	s := NewFertilizerService(nil)

	adv := s.RecommendFor(models.CropProfile{
		Type:         models.CropRice,
		Stage:        models.StageFlowering,
		HealthStatus: models.HealthGood,
	})

	want := fertilizerTable[fertilizerKey{models.CropRice, models.StageFlowering}]
	if adv.Fertilizer != want.Fertilizer || adv.Quantity != want.Quantity || adv.Timing != want.Timing {
		t.Fatalf("rice/flowering must return the MOP row verbatim, got %+v", adv)
	}
	if adv.Fertilizer != "MOP (Muriate of Potash)" {
		t.Fatalf("want the potassium row, got %q", adv.Fertilizer)
	}
	if len(adv.Warnings) != 0 {
		t.Fatalf("good health must not add warnings, got %v", adv.Warnings)
	}
}

func TestFertilizer_UnknownPairFallsBack(t *testing.T) {
	t.Parallel()
	s := NewFertilizerService(nil)

	adv := s.RecommendFor(models.CropProfile{Type: models.CropCotton, Stage: models.StageHarvesting})
	if adv.Fertilizer != fallbackFertilizer.Fertilizer {
		t.Fatalf("missing pair must use the fallback row, got %q", adv.Fertilizer)
	}
}

func TestFertilizer_HealthWarnings(t *testing.T) {
	t.Parallel()
	s := NewFertilizerService(nil)

	poor := s.RecommendFor(models.CropProfile{Type: models.CropWheat, Stage: models.StageVegetative, HealthStatus: models.HealthPoor})
	if len(poor.Warnings) != 1 {
		t.Fatalf("poor health: want 1 warning, got %v", poor.Warnings)
	}

	fair := s.RecommendFor(models.CropProfile{Type: models.CropWheat, Stage: models.StageVegetative, HealthStatus: models.HealthFair})
	if len(fair.Warnings) != 1 {
		t.Fatalf("fair health: want 1 warning, got %v", fair.Warnings)
	}

	// Warnings must not leak into the shared table rows.
	clean := s.RecommendFor(models.CropProfile{Type: models.CropWheat, Stage: models.StageVegetative, HealthStatus: models.HealthGood})
	if len(clean.Warnings) != 0 {
		t.Fatalf("table row mutated by earlier warning append: %v", clean.Warnings)
	}
}

func TestFertilizer_RecommendUsesStoredProfile(t *testing.T) {
	t.Parallel()

	repo := &fakeFarmRepo{loadResp: models.FarmState{
		ID:   1,
		Crop: models.CropProfile{Type: models.CropRice, Stage: models.StageFlowering, HealthStatus: models.HealthGood},
	}}
	s := NewFertilizerService(NewReadingService(repo))

	adv, err := s.Recommend(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Fertilizer != "MOP (Muriate of Potash)" {
		t.Fatalf("want rice/flowering row, got %q", adv.Fertilizer)
	}
}
