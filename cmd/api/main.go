package main

import (
	"log"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/CTroeung1/MSM-inventory-system/internal/ai"
	"github.com/CTroeung1/MSM-inventory-system/internal/config"
	"github.com/CTroeung1/MSM-inventory-system/internal/database"
	"github.com/CTroeung1/MSM-inventory-system/internal/handlers"
	"github.com/CTroeung1/MSM-inventory-system/internal/inventory"
	"github.com/CTroeung1/MSM-inventory-system/internal/location"
	"github.com/CTroeung1/MSM-inventory-system/internal/logger"
	"github.com/CTroeung1/MSM-inventory-system/internal/printer"
	"github.com/CTroeung1/MSM-inventory-system/internal/routes"
	"github.com/CTroeung1/MSM-inventory-system/internal/taggroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.Must(logger.New())
	defer zlog.Sync()

	// --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB(cfg.Database.DSN)
	if err != nil {
		zlog.Fatal("failed to connect to primary database", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		zlog.Fatal("failed to ensure database schema", zap.Error(err))
	}

	// --- AI Database Connection (Read-Only) ---
	// The assistant's SQL tool runs on this pool; when no read-only DSN is
	// configured we fall back to the primary pool and rely on the tool's
	// SELECT-only guard.
	dbReadOnly := db
	if cfg.Database.ReadOnlyDSN != "" {
		dbReadOnly, err = database.OpenDB(cfg.Database.ReadOnlyDSN)
		if err != nil {
			zlog.Fatal("failed to connect to read-only database", zap.Error(err))
		}
		defer dbReadOnly.Close()
	} else {
		zlog.Warn("no read-only DSN configured, AI assistant uses the primary pool")
	}

	// --- AI Service (optional) ---
	var aiService *ai.Service
	if cfg.AI.GeminiKey != "" {
		aiService, err = ai.NewService(cfg.AI.GeminiKey, dbReadOnly, logger.Named(zlog, "ai"))
		if err != nil {
			zlog.Fatal("failed to initialize AI service", zap.Error(err))
		}
	} else {
		zlog.Warn("GEMINI_API_KEY not set, AI chat disabled")
	}

	app := &handlers.Handlers{
		DB:         db,
		DBReadOnly: dbReadOnly,
		Inventory:  inventory.NewService(db, logger.Named(zlog, "inventory")),
		Locations:  location.NewService(db),
		TagGroups:  taggroup.NewService(db),
		AIService:  aiService,
		Dispatcher: printer.NewDispatcher(cfg.Print.BambuBridgeURL),
		Log:        logger.Named(zlog, "http"),
		Cfg:        cfg,
	}

	// --- Background Workers (Cron) ---
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Print.SweepSchedule, app.SweepStalePrintJobs); err != nil {
		zlog.Fatal("failed to schedule print job sweeper", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := routes.SetupRouter(app)

	zlog.Info("starting inventory API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
