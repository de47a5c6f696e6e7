// Package main is the entry point for the slicing-pie dashboard API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/bartlangelaan/slicing-pie-sub000/config"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/aggregate"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/classify"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/report"
	usecasesync "github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/sync"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/usecase/tax"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/infra/db"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/infra/logging"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/infra/server/router"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/cache"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/controller"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/entrypoint/middleware"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/moneybird"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/persistence"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.Server.Environment)

	slog.Info("Starting slicing-pie API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Load and validate the ledger account table before anything else; a
	// misconfigured table would misattribute money silently.
	accountTable := entity.DefaultAccountTable()
	if cfg.Ledger.AccountTablePath != "" {
		loaded, err := entity.LoadAccountTable(cfg.Ledger.AccountTablePath)
		if err != nil {
			slog.Error("Failed to load account table", "path", cfg.Ledger.AccountTablePath, "error", err)
			os.Exit(1)
		}
		accountTable = loaded
	}
	if err := accountTable.Validate(); err != nil {
		slog.Error("Invalid account table", "error", err)
		os.Exit(1)
	}

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := database.AutoMigrate(
		&model.RecordModel{},
		&model.SyncStateModel{},
		&model.SyncTaskModel{},
	); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Redis report cache. Reports degrade to uncached when it is down.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()
	reportCache := cache.NewRedisCache(redisClient)

	cacheHealthChecker := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return redisClient.Ping(ctx).Err() == nil
	}

	// Repositories and the accounting gateway.
	recordRepo := persistence.NewRecordRepository(database.DB())
	taskRepo := persistence.NewSyncTaskRepository(database.DB())
	gateway := moneybird.NewClient(moneybird.Config{
		BaseURL:          cfg.Moneybird.BaseURL,
		Token:            cfg.Moneybird.Token,
		AdministrationID: cfg.Moneybird.AdministrationID,
		MaxPages:         cfg.Moneybird.MaxPages,
	})

	// Use cases.
	classifier := classify.NewClassifier(accountTable)
	aggregator := aggregate.NewAggregator(classifier)
	calculator := tax.NewCalculator()

	getReportUseCase := report.NewGetReportUseCase(recordRepo, reportCache, aggregator, calculator)
	getHoursDetailUseCase := report.NewGetHoursDetailUseCase(recordRepo, aggregator)
	triggerSyncUseCase := usecasesync.NewTriggerSyncUseCase(taskRepo)
	listTasksUseCase := usecasesync.NewListTasksUseCase(taskRepo)

	// Controllers and middleware.
	healthController := controller.NewHealthController(database.HealthCheck, cacheHealthChecker)
	reportController := controller.NewReportController(
		getReportUseCase,
		getHoursDetailUseCase,
		cfg.Auth.DemoToken,
		cfg.Auth.DemoYear,
	)
	rawController := controller.NewRawController(recordRepo)
	syncController := controller.NewSyncController(triggerSyncUseCase, listTasksUseCase)

	basicAuth := middleware.NewBasicAuth(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash)
	rateLimiter := middleware.NewRateLimiter()

	// Setup router
	r := router.NewRouter(
		healthController,
		reportController,
		rawController,
		syncController,
		basicAuth,
		rateLimiter,
	)
	engine := r.Setup(cfg.Server.Environment)

	// Sync worker.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workerWG sync.WaitGroup
	if cfg.Sync.WorkerEnabled {
		runner := usecasesync.NewRunner(taskRepo, gateway, recordRepo)
		worker := usecasesync.NewWorker(runner, usecasesync.WorkerConfig{
			PollInterval: cfg.Sync.PollInterval,
		})
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			worker.Start(workerCtx)
		}()
	} else {
		slog.Info("Sync worker disabled")
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	stopWorker()
	workerWG.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
