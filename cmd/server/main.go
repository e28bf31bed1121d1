package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	financeapp "github.com/eletroerp/backend/internal/application/finance"
	inventoryapp "github.com/eletroerp/backend/internal/application/inventory"
	purchasingapp "github.com/eletroerp/backend/internal/application/purchasing"
	"github.com/eletroerp/backend/internal/infrastructure/config"
	"github.com/eletroerp/backend/internal/infrastructure/event"
	"github.com/eletroerp/backend/internal/infrastructure/logger"
	"github.com/eletroerp/backend/internal/infrastructure/persistence"
	"github.com/eletroerp/backend/internal/infrastructure/scheduler"
	"github.com/eletroerp/backend/internal/interfaces/http/handler"
	"github.com/eletroerp/backend/internal/interfaces/http/middleware"
	"github.com/eletroerp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Local overrides for development; absence is not an error
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting EletroERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Infrastructure
	txScope := persistence.NewGormTransactionScope(db.DB)
	payableRepo := persistence.NewGormPayableRepository(db.DB)

	// Application services
	ledger := inventoryapp.NewStockLedger()
	fractioningService := inventoryapp.NewFractioningService(txScope, ledger, log)
	registrationService := purchasingapp.NewRegistrationService(txScope, log)
	receivingService := purchasingapp.NewReceivingService(txScope, ledger, log)
	payableService := financeapp.NewPayableService(payableRepo, log)

	// Event bus: receiving a purchase triggers payable generation
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(financeapp.NewPurchaseReceivedHandler(payableRepo, log))
	registrationService.SetEventPublisher(eventBus)
	receivingService.SetEventPublisher(eventBus)

	ctx := context.Background()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Fractioning reconciliation scheduler
	schedulerConfig := scheduler.DefaultFractioningSchedulerConfig()
	schedulerConfig.Enabled = cfg.Fractioning.Enabled
	schedulerConfig.RunInterval = cfg.Fractioning.RunInterval
	schedulerConfig.RunOnStartup = cfg.Fractioning.RunOnStartup
	fractioningScheduler := scheduler.NewFractioningScheduler(fractioningService, log, schedulerConfig)
	if err := fractioningScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start fractioning scheduler", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewPurchaseHandler(registrationService, receivingService)).
		Register(handler.NewReconciliationHandler(fractioningService)).
		Register(handler.NewPayableHandler(payableService)).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	fractioningScheduler.Stop()
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
