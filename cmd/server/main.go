package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cafe-pos/internal/ai"
	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/catalog"
	"cafe-pos/internal/config"
	"cafe-pos/internal/database"
	"cafe-pos/internal/events"
	"cafe-pos/internal/expenses"
	"cafe-pos/internal/handlers"
	"cafe-pos/internal/inventory"
	"cafe-pos/internal/orders"
	"cafe-pos/internal/reports"
	"cafe-pos/internal/settings"
	"cafe-pos/internal/staff"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if format == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.With().Timestamp().Logger()
}

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	log.Logger = logger

	// 2. Init DB
	dbLevel := gormlogger.Warn
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		dbLevel = gormlogger.Info
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	db, err := database.Connect(database.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN, LogLevel: dbLevel}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database unavailable")
	}

	// 3. Services
	hub := events.NewHub(32)
	auditLog := audit.New(db, logger)
	orderSvc := orders.NewService(db, auditLog, hub, logger)
	reportEngine := reports.NewEngine(db)
	catalogStore := catalog.NewStore(db, auditLog)
	inventoryStore := inventory.NewStore(db, auditLog)
	assistant := ai.NewAgent(cfg.GeminiAPIKey, cfg.GeminiModel, catalogStore, inventoryStore, reportEngine, orderSvc, logger)
	if !assistant.Enabled() {
		logger.Warn().Msg("GEMINI_API_KEY not set, /api/ask is disabled")
	}

	router := handlers.NewRouter(handlers.Deps{
		Log:          logger,
		Tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Audit:        auditLog,
		Hub:          hub,
		Orders:       orderSvc,
		Reports:      reportEngine,
		Catalog:      catalogStore,
		Inventory:    inventoryStore,
		Expenses:     expenses.NewStore(db, auditLog),
		Staff:        staff.NewStore(db, auditLog),
		Settings:     settings.NewStore(db, auditLog),
		Assistant:    assistant,
		CORSOrigins:  cfg.CORSOrigins,
		UploadDir:    cfg.UploadDir,
		WebDir:       cfg.WebDir,
		StrictStatus: cfg.StrictStatus,
	})

	// 4. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("server exiting")
}
