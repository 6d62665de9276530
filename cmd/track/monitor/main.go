// Package main provides a CLI command for running a price check from the
// terminal, without going through the API server or waiting for the cron
// worker.
// Usage: track-monitor [product-id] [--timeout 15m] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	appConfig "price-tracker/internal/config"
	pgRepo "price-tracker/internal/infra/adapter/persistence/postgres"
	"price-tracker/internal/infra/db"
	"price-tracker/internal/infra/fetcher"
	alertUC "price-tracker/internal/usecase/alert"
	monitorUC "price-tracker/internal/usecase/monitor"
)

// PassOutput represents the JSON output format for a full monitoring pass.
type PassOutput struct {
	Products  int    `json:"products"`
	Observed  int    `json:"observed"`
	Failed    int    `json:"failed"`
	Triggered int    `json:"triggered"`
	Duration  string `json:"duration"`
}

// ObservationOutput represents the JSON output format for a single check.
type ObservationOutput struct {
	ProductID  int64  `json:"product_id"`
	Price      string `json:"price"`
	ObservedAt string `json:"observed_at"`
}

func main() {
	var (
		timeout      time.Duration
		outputFormat string
	)

	flag.DurationVar(&timeout, "timeout", 15*time.Minute, "Overall timeout for the run")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	logger := initLogger()

	// Optional positional argument restricts the run to one product.
	var productID int64
	if args := flag.Args(); len(args) > 0 {
		parsed, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || parsed <= 0 {
			fmt.Fprintln(os.Stderr, "Error: product-id must be a positive integer")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: track-monitor [product-id] [--timeout 15m] [--output json]")
			os.Exit(1)
		}
		productID = parsed
	}

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load page fetch configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Invalid page fetch configuration: %v\n", err)
		os.Exit(1)
	}

	alertingPath := os.Getenv("ALERTING_CONFIG")
	if alertingPath == "" {
		alertingPath = "alerting.yaml"
	}
	alertingCfg, err := appConfig.LoadAlertingConfig(alertingPath)
	if err != nil {
		logger.Error("failed to load alerting configuration", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: Invalid alerting configuration: %v\n", err)
		os.Exit(1)
	}

	svc := &monitorUC.Service{
		ProductRepo:     pgRepo.NewProductRepo(database),
		ObservationRepo: pgRepo.NewObservationRepo(database),
		Fetcher:         fetcher.NewHTTPPageFetcher(fetchCfg),
		Alerts:          alertUC.NewDispatcher(alertingCfg.BuildSinks()...),
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if productID > 0 {
		runSingle(ctx, svc, productID, outputFormat)
		return
	}
	runPass(ctx, svc, outputFormat)
}

func runSingle(ctx context.Context, svc *monitorUC.Service, productID int64, outputFormat string) {
	obs, err := svc.MonitorProduct(ctx, productID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Price check failed: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(ObservationOutput{
			ProductID:  obs.ProductID,
			Price:      obs.Price.StringFixed(2),
			ObservedAt: obs.ObservedAt.Format(time.RFC3339),
		})
		return
	}
	fmt.Printf("Product %d: %s (observed at %s)\n",
		obs.ProductID, obs.Price.StringFixed(2), obs.ObservedAt.Format(time.RFC3339))
}

func runPass(ctx context.Context, svc *monitorUC.Service, outputFormat string) {
	stats, err := svc.MonitorAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Monitoring pass failed: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		_ = json.NewEncoder(os.Stdout).Encode(PassOutput{
			Products:  stats.Products,
			Observed:  stats.Observed,
			Failed:    stats.Failed,
			Triggered: stats.Triggered,
			Duration:  stats.Duration.String(),
		})
		return
	}
	fmt.Printf("Checked %d products: %d observed, %d failed, %d alerts (%s)\n",
		stats.Products, stats.Observed, stats.Failed, stats.Triggered, stats.Duration)
}

// initLogger initializes a structured logger writing to stderr so that
// command output on stdout stays parseable.
func initLogger() *slog.Logger {
	logLevel := slog.LevelWarn
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
