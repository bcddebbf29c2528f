package handlers

import (
	"krishimitra/internal/logger"
	"krishimitra/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Minimal WebSocket connection (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerAdvisorRoutes(api)
		h.registerReadingRoutes(api)
	}
}

func (h *Handler) registerAdvisorRoutes(api *gin.RouterGroup) {
	// Body example: {"message":"paani dena hai kya"}
	api.POST("/assistant/chat", h.chat)
	api.GET("/irrigation", h.irrigationAdvice)
	api.GET("/fertilizer", h.fertilizerAdvice)
	api.GET("/alerts", h.getAlerts)
	api.GET("/sync/status", h.syncStatus)
}

func (h *Handler) registerReadingRoutes(api *gin.RouterGroup) {
	sensors := api.Group("/sensors")
	{
		sensors.GET("", h.getSnapshot)
		sensors.POST("", h.updateSensors)
		sensors.POST("/randomize", h.randomizeSensors)
	}
	api.GET("/weather", h.getWeather)
	api.POST("/weather", h.setWeather)
	api.GET("/crop", h.getCrop)
	api.POST("/crop", h.setCrop)
}
