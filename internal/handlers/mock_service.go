package handlers

import (
	"context"
	"net/http"
	"time"

	"krishimitra/internal/models"
	"krishimitra/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockReadings struct {
	state        models.FarmState
	getErr       error
	updateErr    error
	lastUpdate   models.SensorUpdate
	updateCalls  int
	setWeatherN  int
	setCropN     int
	lastWeather  models.WeatherSnapshot
	lastCrop     models.CropProfile
	randomizeN   int
	randomizeErr error
}

func (m *mockReadings) Get(ctx context.Context) (models.FarmState, error) {
	return m.state, m.getErr
}
func (m *mockReadings) UpdateSensors(ctx context.Context, u models.SensorUpdate) (models.SensorReading, error) {
	m.updateCalls++
	m.lastUpdate = u
	if m.updateErr != nil {
		return models.SensorReading{}, m.updateErr
	}
	return m.state.Sensors, nil
}
func (m *mockReadings) SetWeather(ctx context.Context, w models.WeatherSnapshot) error {
	m.setWeatherN++
	m.lastWeather = w
	return nil
}
func (m *mockReadings) SetCrop(ctx context.Context, c models.CropProfile) error {
	m.setCropN++
	m.lastCrop = c
	return nil
}
func (m *mockReadings) Randomize(ctx context.Context) (models.SensorReading, error) {
	m.randomizeN++
	return m.state.Sensors, m.randomizeErr
}

type mockIrrigation struct {
	verdict models.IrrigationVerdict
	err     error
}

func (m *mockIrrigation) Evaluate(ctx context.Context) (models.IrrigationVerdict, error) {
	return m.verdict, m.err
}
func (m *mockIrrigation) EvaluateState(s models.FarmState) models.IrrigationVerdict {
	return m.verdict
}

type mockFertilizer struct {
	advice models.FertilizerAdvice
	err    error
}

func (m *mockFertilizer) Recommend(ctx context.Context) (models.FertilizerAdvice, error) {
	return m.advice, m.err
}
func (m *mockFertilizer) RecommendFor(c models.CropProfile) models.FertilizerAdvice {
	return m.advice
}

type mockAlerts struct {
	alerts []models.AlertRecord
	err    error
}

func (m *mockAlerts) Scan(ctx context.Context) ([]models.AlertRecord, error) {
	return m.alerts, m.err
}

type mockGateway struct {
	chatResp   models.BilingualResponse
	chatErr    error
	advice     models.BilingualResponse
	adviceErr  error
	snapshot   models.FarmState
	snapErr    error
	weather    models.WeatherSnapshot
	weatherErr error
	status     models.SyncStatus
	pushCalls  int
	lastPushed string
	lastPath   string
	lastChat   string
}

func (m *mockGateway) Chat(ctx context.Context, message string) (models.BilingualResponse, error) {
	m.lastChat = message
	return m.chatResp, m.chatErr
}
func (m *mockGateway) IrrigationAdvice(ctx context.Context) (models.BilingualResponse, error) {
	return m.advice, m.adviceErr
}
func (m *mockGateway) Snapshot(ctx context.Context) (models.FarmState, error) {
	return m.snapshot, m.snapErr
}
func (m *mockGateway) Weather(ctx context.Context) (models.WeatherSnapshot, error) {
	return m.weather, m.weatherErr
}
func (m *mockGateway) PushStateChange(ctx context.Context, path, body string) {
	m.pushCalls++
	m.lastPath = path
	m.lastPushed = body
}
func (m *mockGateway) Status(ctx context.Context) models.SyncStatus {
	return m.status
}
func (m *mockGateway) RunHealthLoop(ctx context.Context, tick time.Duration) {}

// ---- Test helpers ----

// newTestRouter builds a Gin engine in test mode with routes registered.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

// authHeader returns a valid Authorization header for mocked auth.
func authHeader(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}
