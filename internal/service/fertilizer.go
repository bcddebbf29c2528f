package service

import (
	"context"
	"strings"

	"krishimitra/internal/models"
)

type FertilizerService struct {
	readings Readings
}

func NewFertilizerService(readings Readings) *FertilizerService {
	return &FertilizerService{readings: readings}
}

// Recommend looks up the advice for the current crop profile.
func (s *FertilizerService) Recommend(ctx context.Context) (models.FertilizerAdvice, error) {
	state, err := s.readings.Get(ctx)
	if err != nil {
		return models.FertilizerAdvice{}, err
	}
	return s.RecommendFor(state.Crop), nil
}

// RecommendFor is the pure (crop, stage) lookup. Unknown pairs resolve to
// the generic fallback row; the lookup is total by contract. Health-driven
// warnings are appended, not a second rule engine.
func (s *FertilizerService) RecommendFor(crop models.CropProfile) models.FertilizerAdvice {
	key := fertilizerKey{
		crop:  strings.ToLower(strings.TrimSpace(crop.Type)),
		stage: strings.ToLower(strings.TrimSpace(crop.Stage)),
	}
	advice, ok := fertilizerTable[key]
	if !ok {
		advice = fallbackFertilizer
	}

	switch crop.HealthStatus {
	case models.HealthPoor:
		advice.Warnings = append(advice.Warnings,
			"Crop health is poor: halve the nitrogen dose until the crop recovers and check for pests first.")
	case models.HealthFair:
		advice.Warnings = append(advice.Warnings,
			"Crop health is fair: apply in smaller splits and watch the response before the full dose.")
	}
	return advice
}
