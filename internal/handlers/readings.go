package handlers

import (
	"encoding/json"
	"net/http"

	"krishimitra/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errGetSnapshot   = "failed to load snapshot"
	errUpdateSensors = "failed to update sensors"
	errSetWeather    = "failed to update weather"
	errSetCrop       = "failed to update crop profile"
)

// SensorUpdateRequest is an exported model for Swagger docs of the manual
// entry payload. All fields optional; present ones are merged.
type SensorUpdateRequest struct {
	SoilMoisturePct *float64 `json:"soil_moisture_pct,omitempty" example:"35"`
	TemperatureC    *float64 `json:"temperature_c,omitempty" example:"30"`
	HumidityPct     *float64 `json:"humidity_pct,omitempty" example:"55"`
	IsRaining       *bool    `json:"is_raining,omitempty" example:"false"`
	RainProbability *float64 `json:"rain_probability_pct,omitempty" example:"20"`
}

// @Summary      Current snapshot
// @Description  Sensor readings, weather and crop profile in one object. Served via the remote when reachable; offline=true marks a reply from the local store.
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.FarmState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensors [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.services.Gateway.Snapshot(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "snapshot_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// @Summary      Manual sensor entry
// @Description  Merges the provided fields into the sensor snapshot and stamps last_updated. The change is mirrored to the remote, queued while offline.
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        body  body   SensorUpdateRequest  true  "Partial sensor update"
// @Success      200   {object}  models.SensorReading
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/sensors [post]
// @Security     BearerAuth
func (h *Handler) updateSensors(c *gin.Context) {
	var req models.SensorUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	reading, err := h.services.Readings.UpdateSensors(ctx, req)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateSensors, "sensors_update_failed", err)
		return
	}

	// Mirror the mutation to the remote; the gateway queues it if offline.
	if body, err := json.Marshal(req); err == nil {
		h.services.Gateway.PushStateChange(ctx, "/sensors", string(body))
	}

	c.JSON(http.StatusOK, reading)
}

// @Summary      Randomize sensors (demo)
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.SensorReading
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensors/randomize [post]
// @Security     BearerAuth
func (h *Handler) randomizeSensors(c *gin.Context) {
	ctx := c.Request.Context()
	reading, err := h.services.Readings.Randomize(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateSensors, "sensors_randomize_failed", err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

// @Summary      Current weather snapshot
// @Description  Served via the remote when reachable; offline=true marks a reply from the local store.
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.WeatherSnapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/weather [get]
// @Security     BearerAuth
func (h *Handler) getWeather(c *gin.Context) {
	ctx := c.Request.Context()
	weather, err := h.services.Gateway.Weather(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "weather_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, weather)
}

// @Summary      Set weather snapshot
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        body  body   models.WeatherSnapshot  true  "Weather payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/weather [post]
// @Security     BearerAuth
func (h *Handler) setWeather(c *gin.Context) {
	var req models.WeatherSnapshot
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	if err := h.services.Readings.SetWeather(ctx, req); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetWeather, "weather_set_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Current crop profile
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.CropProfile
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/crop [get]
// @Security     BearerAuth
func (h *Handler) getCrop(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.services.Readings.Get(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "crop_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, state.Crop)
}

// @Summary      Set crop profile
// @Description  Unknown crop types or stages are accepted; the engines resolve them through fallback rows.
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        body  body   models.CropProfile  true  "Crop payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/crop [post]
// @Security     BearerAuth
func (h *Handler) setCrop(c *gin.Context) {
	var req models.CropProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	if err := h.services.Readings.SetCrop(ctx, req); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSetCrop, "crop_set_failed", err)
		return
	}

	if body, err := json.Marshal(req); err == nil {
		h.services.Gateway.PushStateChange(ctx, "/crop", string(body))
	}

	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
