// Package main provides a CLI command for printing the recorded price
// history of a product.
// Usage: track-history <product-id> [--limit N] [--output json]
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

	pgRepo "price-tracker/internal/infra/adapter/persistence/postgres"
	"price-tracker/internal/infra/db"
	productUC "price-tracker/internal/usecase/product"
)

// HistoryOutput represents the JSON output format for a history dump.
type HistoryOutput struct {
	ProductID    int64               `json:"product_id"`
	ProductName  string              `json:"product_name"`
	TargetPrice  string              `json:"target_price"`
	Observations []ObservationOutput `json:"observations"`
}

// ObservationOutput represents a single history row.
type ObservationOutput struct {
	Price      string `json:"price"`
	ObservedAt string `json:"observed_at"`
}

func main() {
	var (
		limit        int
		outputFormat string
	)

	flag.IntVar(&limit, "limit", 0, "Maximum number of rows to print (0 = all)")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: product-id is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: track-history <product-id> [--limit N] [--output json]")
		os.Exit(1)
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || productID <= 0 {
		fmt.Fprintln(os.Stderr, "Error: product-id must be a positive integer")
		os.Exit(1)
	}

	logger := initLogger()

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	svc := &productUC.Service{
		Repo:         pgRepo.NewProductRepo(database),
		Observations: pgRepo.NewObservationRepo(database),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	product, err := svc.Get(ctx, productID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	history, err := svc.History(ctx, productID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		out := HistoryOutput{
			ProductID:    product.ID,
			ProductName:  product.Name,
			TargetPrice:  product.TargetPrice.StringFixed(2),
			Observations: make([]ObservationOutput, 0, len(history)),
		}
		for _, obs := range history {
			out.Observations = append(out.Observations, ObservationOutput{
				Price:      obs.Price.StringFixed(2),
				ObservedAt: obs.ObservedAt.Format(time.RFC3339),
			})
		}
		_ = json.NewEncoder(os.Stdout).Encode(out)
		return
	}

	fmt.Printf("%s (target %s)\n", product.Name, product.TargetPrice.StringFixed(2))
	if len(history) == 0 {
		fmt.Println("  no observations recorded yet")
		return
	}
	for _, obs := range history {
		marker := " "
		if obs.Price.LessThanOrEqual(product.TargetPrice) {
			marker = "*" // at or below target
		}
		fmt.Printf("  %s %s  %s\n", marker, obs.ObservedAt.Format(time.RFC3339), obs.Price.StringFixed(2))
	}
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
