package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	appConfig "price-tracker/internal/config"
	"price-tracker/internal/handler/http/respond"
	pgRepo "price-tracker/internal/infra/adapter/persistence/postgres"
	"price-tracker/internal/infra/db"
	"price-tracker/internal/infra/fetcher"
	workerPkg "price-tracker/internal/infra/worker"
	alertUC "price-tracker/internal/usecase/alert"
	monitorUC "price-tracker/internal/usecase/monitor"
)

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM products LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("alert_max_concurrent", workerConfig.AlertMaxConcurrent),
		slog.Duration("monitor_timeout", workerConfig.MonitorTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	// Start metrics HTTP server
	startMetricsServer(ctx, logger)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	svc := setupMonitorService(logger, database, workerConfig)

	startCronWorker(logger, svc, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// setupMonitorService wires the monitoring use case with its dependencies:
// the repositories, the page fetcher and the alert dispatcher.
func setupMonitorService(logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig) *monitorUC.Service {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load page fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}

	alertingCfg, err := appConfig.LoadAlertingConfig(alertingConfigPath())
	if err != nil {
		logger.Error("failed to load alerting configuration", slog.Any("error", err))
		os.Exit(1)
	}
	dispatcher := alertUC.NewDispatcher(alertingCfg.BuildSinks()...)
	dispatcher.SetMaxConcurrent(cfg.AlertMaxConcurrent)

	return &monitorUC.Service{
		ProductRepo:     pgRepo.NewProductRepo(database),
		ObservationRepo: pgRepo.NewObservationRepo(database),
		Fetcher:         fetcher.NewHTTPPageFetcher(fetchCfg),
		Alerts:          dispatcher,
	}
}

// alertingConfigPath returns the alerting config file path from environment
// or the default next to the binary.
func alertingConfigPath() string {
	if path := os.Getenv("ALERTING_CONFIG"); path != "" {
		return path
	}
	return "alerting.yaml"
}

// startCronWorker starts the cron scheduler and runs the monitoring job periodically.
func startCronWorker(logger *slog.Logger, svc *monitorUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	// Load timezone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runMonitorJob(logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runMonitorJob executes a single monitoring pass with timeout and error handling.
func runMonitorJob(logger *slog.Logger, svc *monitorUC.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("monitoring pass started")

	// 監視処理のタイムアウト（設定から取得）
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MonitorTimeout)
	defer cancel()

	stats, err := svc.MonitorAll(ctx)
	if err != nil {
		// 機密情報をマスクしてログ出力
		logger.Error("monitoring pass failed", slog.Any("error", respond.SanitizeError(err)))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	// Record metrics
	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordProductsChecked(stats.Products)
	metrics.RecordAlertsTriggered(stats.Triggered)
	metrics.RecordLastSuccess()

	logger.Info("monitoring pass completed",
		slog.Int("products", stats.Products),
		slog.Int("observed", stats.Observed),
		slog.Int("failed", stats.Failed),
		slog.Int("triggered", stats.Triggered),
		slog.Duration("duration", stats.Duration),
	)
}
