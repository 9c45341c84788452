// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"camera-service/internal/config"
	"camera-service/internal/database"
	"camera-service/internal/handler"
	"camera-service/internal/middleware"
	"camera-service/internal/service"
	"camera-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config        *config.Config
	logger        *zap.Logger
	db            *database.DB
	cameraService *service.CameraService
	eventBus      *handler.EventBus
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	cameraService *service.CameraService,
	eventBus *handler.EventBus,
) *Router {
	return &Router{
		config:        config,
		logger:        logger,
		db:            db,
		cameraService: cameraService,
		eventBus:      eventBus,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.db, r.cameraService, r.config, r.logger)
	cameraHandler := handler.NewCameraHandler(r.cameraService, r.logger)
	snapshotHandler := handler.NewSnapshotHandler(r.cameraService, r.logger)
	wsHandler := handler.NewWebSocketHandler(r.config.Security.AllowedOrigins, r.logger)

	// Camera events flow from the bus to every connected client
	r.eventBus.AttachSink(wsHandler.BroadcastEvent)

	r.addHealthRoutes(router, healthHandler)

	apiV1 := router.Group("/api/v1")
	cameraHandler.RegisterRoutes(apiV1)
	snapshotHandler.RegisterRoutes(apiV1)

	r.addWebSocketRoutes(router, wsHandler)
	r.addMetricsRoutes(router)
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addHealthRoutes sets up health check routes
func (r *Router) addHealthRoutes(router *gin.Engine, handler *handler.HealthHandler) {
	handler.RegisterRoutes(router.Group(""))
}

// addWebSocketRoutes sets up WebSocket routes
func (r *Router) addWebSocketRoutes(router *gin.Engine, handler *handler.WebSocketHandler) {
	handler.RegisterRoutes(router.Group("/ws"))
}

// addMetricsRoutes exposes the Prometheus endpoint
func (r *Router) addMetricsRoutes(router *gin.Engine) {
	if !r.config.Metrics.Enabled {
		return
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
