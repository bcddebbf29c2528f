package models

import "time"

// SensorReading is the current field snapshot. Exactly one exists per farm;
// partial updates merge into it and stamp LastUpdated.
type SensorReading struct {
	SoilMoisturePct float64   `json:"soil_moisture_pct"` // 0–100
	TemperatureC    float64   `json:"temperature_c"`     // °C
	HumidityPct     float64   `json:"humidity_pct"`      // 0–100
	IsRaining       bool      `json:"is_raining"`
	RainProbability float64   `json:"rain_probability_pct"`
	LastUpdated     time.Time `json:"last_updated"`
}

// SensorUpdate carries a partial sensor mutation; nil fields are left as-is.
type SensorUpdate struct {
	SoilMoisturePct *float64 `json:"soil_moisture_pct,omitempty"`
	TemperatureC    *float64 `json:"temperature_c,omitempty"`
	HumidityPct     *float64 `json:"humidity_pct,omitempty"`
	IsRaining       *bool    `json:"is_raining,omitempty"`
	RainProbability *float64 `json:"rain_probability_pct,omitempty"`
}

// Weather conditions.
const (
	ConditionSunny        = "sunny"
	ConditionCloudy       = "cloudy"
	ConditionRainy        = "rainy"
	ConditionPartlyCloudy = "partly_cloudy"
)

// WeatherSnapshot is the last known local weather picture. Offline is
// transport-only: set when the reply was served from the local store
// instead of the remote, never persisted as true.
type WeatherSnapshot struct {
	CurrentTempC    float64 `json:"current_temp_c"`
	ForecastTempC   float64 `json:"forecast_temp_c"`
	RainfallMm      float64 `json:"rainfall_mm"`
	RainProbability float64 `json:"rain_probability_pct"`
	Condition       string  `json:"condition"` // sunny | cloudy | rainy | partly_cloudy
	ForecastText    string  `json:"forecast_text,omitempty"`
	Offline         bool    `json:"offline,omitempty"`
}

// FarmState bundles everything the decision engines read: the sensor
// snapshot, the weather snapshot and the crop profile. Persisted as a
// single row (id=1).
type FarmState struct {
	ID        int             `json:"id"`
	Sensors   SensorReading   `json:"sensors"`
	Weather   WeatherSnapshot `json:"weather"`
	Crop      CropProfile     `json:"crop"`
	UpdatedAt time.Time       `json:"updated_at"`
	// Offline marks a reply served from the local store instead of the
	// remote. Transport-only, never persisted as true.
	Offline bool `json:"offline,omitempty"`
}
