package worker

import (
	"fmt"
	"log/slog"
	"time"

	"price-tracker/internal/pkg/config"
)

// WorkerConfig holds the configuration for the monitoring worker.
// It controls the cron schedule, timezone, alert concurrency, and the
// timeout applied to a single monitoring pass.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// All fields have sensible defaults and validation rules so the worker
// can operate safely even with invalid or missing configuration.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the monitoring job.
	// Format: "minute hour day month weekday"
	// Example: "0 * * * *" (every hour on the hour)
	// Default: "0 * * * *"
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Example: "America/Sao_Paulo", "UTC"
	// Default: "America/Sao_Paulo"
	Timezone string

	// AlertMaxConcurrent is the maximum number of concurrent alert
	// deliveries during a monitoring pass.
	// Range: 1-50
	// Default: 10
	AlertMaxConcurrent int

	// MonitorTimeout is the maximum duration for a single monitoring pass.
	// After this timeout the pass is cancelled; per-product results
	// recorded so far are kept.
	// Default: 15 minutes
	MonitorTimeout time.Duration

	// HealthPort is the port number for the health check HTTP server.
	// Range: 1024-65535 (avoid privileged ports)
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with production-ready defaults:
// hourly monitoring in São Paulo time, a 15-minute pass timeout, and the
// conventional exporter port for health checks.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:       "0 * * * *",
		Timezone:           "America/Sao_Paulo",
		AlertMaxConcurrent: 10,
		MonitorTimeout:     15 * time.Minute,
		HealthPort:         9091,
	}
}

// Validate checks the configuration values using the reusable validators
// from internal/pkg/config. All field errors are collected and returned
// together.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cron schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidateIntRange(c.AlertMaxConcurrent, 1, 50); err != nil {
		errors = append(errors, fmt.Errorf("alert max concurrent: %w", err))
	}

	if err := config.ValidatePositiveDuration(c.MonitorTimeout); err != nil {
		errors = append(errors, fmt.Errorf("monitor timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// This function implements the fail-open strategy:
//  1. Start with DefaultConfig() as base
//  2. Load each field from environment variables
//  3. Validate each loaded value
//  4. If validation fails: use default value, log warning, increment metrics
//  5. Never return error - always return a valid configuration
//
// Environment variables:
//   - MONITOR_CRON: Cron expression (default: "0 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "America/Sao_Paulo")
//   - ALERT_MAX_CONCURRENT: Integer 1-50 (default: 10)
//   - MONITOR_TIMEOUT: Duration string, e.g., "15m" (default: 15 minutes)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	result := config.LoadEnvWithFallback("MONITOR_CRON", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("monitor_cron")
		metrics.RecordFallback("monitor_cron", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "CronSchedule"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("timezone")
		metrics.RecordFallback("timezone", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "Timezone"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvInt("ALERT_MAX_CONCURRENT", cfg.AlertMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.AlertMaxConcurrent = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("alert_max_concurrent")
		metrics.RecordFallback("alert_max_concurrent", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "AlertMaxConcurrent"),
				slog.String("warning", warning))
		}
	}

	// MONITOR_TIMEOUT must stay between 1m and 2h
	result = config.LoadEnvDuration("MONITOR_TIMEOUT", cfg.MonitorTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 2*time.Hour)
	})
	cfg.MonitorTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("monitor_timeout")
		metrics.RecordFallback("monitor_timeout", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "MonitorTimeout"),
				slog.String("warning", warning))
		}
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("health_port")
		metrics.RecordFallback("health_port", "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "HealthPort"),
				slog.String("warning", warning))
		}
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	// Always return valid config (fail-open strategy)
	return &cfg, nil
}
