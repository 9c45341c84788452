// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "camera-service/docs"
	"camera-service/internal/config"
	"camera-service/internal/database"
	"camera-service/internal/driver/geolux"
	"camera-service/internal/handler"
	"camera-service/internal/metrics"
	"camera-service/internal/protocol"
	"camera-service/internal/repository"
	"camera-service/internal/routes"
	"camera-service/internal/service"
	"camera-service/internal/storage"
	"camera-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	link          protocol.Link
	camera        *geolux.Camera
	store         *storage.ImageStore
	snapshotRepo  repository.SnapshotRepository
	eventBus      *handler.EventBus
	cameraService *service.CameraService

	stopMDNS    func()
	stopCleanup func()
}

// @title Camera Service API
// @version 1.0.0
// @description Snapshot capture and image transfer service for Geolux HydroCAM cameras on a serial link
// @termsOfService http://swagger.io/terms/

// @contact.name Camera Service API Support
// @contact.email support@cameraservice.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8086
// @BasePath /api/v1
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "camera-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)
	metrics.BuildInfo.WithLabelValues(cfg.App.Version, cfg.App.Environment).Set(1)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initializeCamera(); err != nil {
		return nil, fmt.Errorf("failed to initialize camera: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initializeServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initializeDatabase sets up database connection and runs migrations
func (app *Application) initializeDatabase() error {
	db, err := database.NewConnection(&app.config.Database, app.config.GetDatabaseDSN(), app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	app.database = db

	migrator := database.NewMigrator(db, app.logger, &app.config.Database)
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app.snapshotRepo = repository.NewSnapshotRepository(db, app.logger)

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeCamera opens the serial link and probes the camera
func (app *Application) initializeCamera() error {
	link, err := protocol.NewLink(&app.config.Camera, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create camera link: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := link.Open(ctx); err != nil {
		return fmt.Errorf("failed to open camera link: %w", err)
	}
	app.link = link

	camCfg := geolux.Config{
		ResponseTimeout:  app.config.Camera.ResponseTimeout,
		ByteTimeout:      app.config.Camera.ByteTimeout,
		ChunkReadTimeout: app.config.Camera.ChunkReadTimeout,
		TransferBudget:   app.config.Camera.TransferBudget,
		ChunkSize:        app.config.Camera.ChunkSize,
		ChunkRetries:     app.config.Camera.ChunkRetries,
	}
	app.camera = geolux.New(link, camCfg, app.logger)

	// A probe failure is logged, not fatal. The camera may still be
	// booting; API calls will retry on demand.
	if _, err := app.camera.GetStatus(); err != nil {
		app.logger.Warn("Camera did not answer the initial probe", zap.Error(err))
	}

	store, err := storage.NewImageStore(app.config.Storage.ImageDir, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}
	app.store = store

	app.logger.Info("Camera initialized",
		zap.String("connection", app.config.Camera.Connection),
		zap.String("address", app.config.GetCameraAddr()),
	)
	return nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() error {
	app.eventBus = handler.NewEventBus(app.logger)
	go app.eventBus.Start()

	app.cameraService = service.NewCameraService(
		app.camera,
		app.link,
		app.store,
		app.snapshotRepo,
		app.eventBus,
		app.config,
		app.logger,
	)

	app.logger.Info("Services initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() error {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.cameraService,
		app.eventBus,
	)

	router := routerManager.SetupRouter()

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "camera-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	if app.stopMDNS != nil {
		app.stopMDNS()
	}
	if app.stopCleanup != nil {
		app.stopCleanup()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	if app.link != nil {
		if err := app.link.Close(); err != nil {
			app.logger.Error("Camera link close error", zap.Error(err))
		} else {
			app.logger.Info("Camera link closed")
		}
	}

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}

	app.logger.Info("Application shutdown completed")
}

func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	stopMDNS, err := startMDNS(app.config, app.logger)
	if err != nil {
		app.logger.Warn("mDNS registration failed", zap.Error(err))
	} else {
		app.stopMDNS = stopMDNS
	}

	app.stopCleanup = app.startCleanupService()

	app.waitForShutdown()
	return nil
}

// startCleanupService periodically deletes snapshots older than the
// configured retention. Returns a function that stops the loop.
func (app *Application) startCleanupService() func() {
	if app.config.Storage.Retention <= 0 {
		return func() {}
	}

	interval := app.config.Storage.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		app.logger.Info("Snapshot cleanup service started",
			zap.Duration("retention", app.config.Storage.Retention),
			zap.Duration("interval", interval),
		)

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				before := time.Now().Add(-app.config.Storage.Retention)
				if _, err := app.cameraService.CleanupOlderThan(ctx, before); err != nil {
					app.logger.Error("Snapshot cleanup failed", zap.Error(err))
				}
				cancel()
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}
