package handlers

import (
	"inferno/internal/logger"
	"inferno/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log.Named("http")}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Status stream on the same port.
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
	api := r.Group("/api/v1", h.requireOperator)
	{
		h.registerSmokerRoutes(api)
		api.GET("/logs", h.getLogs)
	}
}

func (h *Handler) registerSmokerRoutes(api *gin.RouterGroup) {
	api.GET("/mode", h.getMode)
	// Body example: {"mode":"Smoke"}
	api.POST("/mode", h.setMode)
	api.GET("/setpoint", h.getSetPoint)
	api.POST("/setpoint", h.setSetPoint)
	api.GET("/pvalue", h.getPValue)
	api.POST("/pvalue", h.setPValue)
	api.GET("/temps", h.getTemps)
	api.GET("/status", h.getStatus)
}
