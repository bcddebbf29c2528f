package service

import (
	"context"
	"time"

	"krishimitra/internal/logger"
	"krishimitra/internal/models"
	"krishimitra/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Readings owns the farm snapshot: sensor values, weather and crop profile.
// Get returns by value; callers never hold a mutable reference.
type Readings interface {
	Get(ctx context.Context) (models.FarmState, error)
	UpdateSensors(ctx context.Context, u models.SensorUpdate) (models.SensorReading, error)
	SetWeather(ctx context.Context, w models.WeatherSnapshot) error
	SetCrop(ctx context.Context, c models.CropProfile) error
	Randomize(ctx context.Context) (models.SensorReading, error)
}

// Intent maps a free-form utterance to an intent, confidence and entities.
// Pure and stateless: same input always yields the same result.
type Intent interface {
	Classify(text string) models.IntentResult
}

// Irrigation evaluates the ordered watering rules against the snapshot.
type Irrigation interface {
	Evaluate(ctx context.Context) (models.IrrigationVerdict, error)
	EvaluateState(s models.FarmState) models.IrrigationVerdict
}

// Fertilizer is the (crop, stage) recommendation lookup.
type Fertilizer interface {
	Recommend(ctx context.Context) (models.FertilizerAdvice, error)
	RecommendFor(c models.CropProfile) models.FertilizerAdvice
}

// Alerts sweeps the snapshot against the irrigation thresholds.
type Alerts interface {
	Scan(ctx context.Context) ([]models.AlertRecord, error)
}

// Assistant is the local answer path: classify, decide, compose.
type Assistant interface {
	AcceptUtterance(ctx context.Context, text string) (models.BilingualResponse, error)
}

// Gateway routes requests to the remote advisory endpoint with bounded
// retries, falling back to the local engines transparently. State-changing
// requests made while offline are queued and replayed FIFO on reconnect.
type Gateway interface {
	Chat(ctx context.Context, message string) (models.BilingualResponse, error)
	IrrigationAdvice(ctx context.Context) (models.BilingualResponse, error)
	Snapshot(ctx context.Context) (models.FarmState, error)
	Weather(ctx context.Context) (models.WeatherSnapshot, error)
	PushStateChange(ctx context.Context, path, body string)
	Status(ctx context.Context) models.SyncStatus
	RunHealthLoop(ctx context.Context, tick time.Duration)
}

// Simulator runs the background loop that drifts the demo sensor values.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Config carries the tunables main() reads from viper.
type Config struct {
	Irrigation IrrigationConfig
	Remote     RemoteConfig
	SigningKey string
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Readings
	Intent
	Irrigation
	Fertilizer
	Alerts
	Assistant
	Gateway
	Simulator
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, log *logger.Logger, cfg Config) *Service {
	readings := NewReadingService(repos.Farm)
	intent := NewIntentClassifier()
	irrigation := NewIrrigationService(readings, cfg.Irrigation)
	fertilizer := NewFertilizerService(readings)
	alerts := NewAlertService(readings, irrigation, cfg.Irrigation)
	assistant := NewAssistantService(intent, readings, irrigation, fertilizer, alerts, repos.KV)

	return &Service{
		Readings:      readings,
		Intent:        intent,
		Irrigation:    irrigation,
		Fertilizer:    fertilizer,
		Alerts:        alerts,
		Assistant:     assistant,
		Gateway:       NewGatewayService(assistant, irrigation, readings, repos.Queue, repos.KV, log, cfg.Remote),
		Simulator:     NewSimulatorService(readings, log),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey),
	}
}
