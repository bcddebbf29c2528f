package handlers

import (
	"net/http"

	"krishimitra/internal/models"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errChatFailed       = "failed to answer"
	errIrrigationFailed = "failed to evaluate irrigation"
	errFertilizerFailed = "failed to look up fertilizer advice"
	errAlertsFailed     = "failed to scan alerts"
	errInvalidBodyPref  = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for the assistant.
type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatRequest is an exported model for Swagger docs of the chat payload.
type ChatRequest struct {
	// Utterance in any mix of Hindi, transliterated Hindi and English
	Message string `json:"message" example:"paani dena hai kya"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Ask the advisor
// @Description  Classifies the utterance and answers via the remote advisory endpoint, falling back to the local engines. The reply carries offline=true when answered locally.
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Param        body  body   ChatRequest  true  "Utterance payload"
// @Success      200   {object}  models.BilingualResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/assistant/chat [post]
// @Security     BearerAuth
func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	resp, err := h.services.Gateway.Chat(ctx, req.Message)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errChatFailed, "chat_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Irrigation advice
// @Tags         advisor
// @Produce      json
// @Success      200  {object}  models.BilingualResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/irrigation [get]
// @Security     BearerAuth
func (h *Handler) irrigationAdvice(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.services.Gateway.IrrigationAdvice(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errIrrigationFailed, "irrigation_advice_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Fertilizer advice
// @Tags         advisor
// @Produce      json
// @Success      200  {object}  models.FertilizerAdvice
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/fertilizer [get]
// @Security     BearerAuth
func (h *Handler) fertilizerAdvice(c *gin.Context) {
	ctx := c.Request.Context()
	adv, err := h.services.Fertilizer.Recommend(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errFertilizerFailed, "fertilizer_advice_failed", err)
		return
	}
	c.JSON(http.StatusOK, adv)
}

// @Summary      Active alerts
// @Tags         advisor
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, alerts"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/alerts [get]
// @Security     BearerAuth
func (h *Handler) getAlerts(c *gin.Context) {
	ctx := c.Request.Context()
	alerts, err := h.services.Alerts.Scan(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errAlertsFailed, "alerts_scan_failed", err)
		return
	}
	if alerts == nil {
		alerts = []models.AlertRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// @Summary      Sync status
// @Description  Gateway connectivity state and pending replay-queue depth.
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.SyncStatus
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/sync/status [get]
// @Security     BearerAuth
func (h *Handler) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Gateway.Status(c.Request.Context()))
}
