package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	appConfig "price-tracker/internal/config"
	pgRepo "price-tracker/internal/infra/adapter/persistence/postgres"
	"price-tracker/internal/infra/db"
	"price-tracker/internal/infra/fetcher"

	alertUC "price-tracker/internal/usecase/alert"
	monitorUC "price-tracker/internal/usecase/monitor"
	productUC "price-tracker/internal/usecase/product"

	hhttp "price-tracker/internal/handler/http"
	hauth "price-tracker/internal/handler/http/auth"
	hproduct "price-tracker/internal/handler/http/product"
	"price-tracker/internal/handler/http/requestid"
	"price-tracker/internal/observability/tracing"
)

func main() {
	logger := initLogger()
	validateAdminCredentials(logger)
	validateJWTSecret(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := setupServer(logger, database, version)

	runServer(logger, handler, version)
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

// validateAdminCredentials refuses to start with missing or weak admin
// credentials rather than serving an API nobody can log in to.
func validateAdminCredentials(logger *slog.Logger) {
	user := os.Getenv("ADMIN_USER")
	pass := os.Getenv("ADMIN_USER_PASSWORD")
	if user == "" || pass == "" {
		logger.Error("ADMIN_USER and ADMIN_USER_PASSWORD must be set")
		os.Exit(1)
	}
	if len(pass) < 8 {
		logger.Error("ADMIN_USER_PASSWORD must be at least 8 characters")
		os.Exit(1)
	}
}

// validateJWTSecret validates the JWT_SECRET environment variable for security requirements.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	// セキュリティ: 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	// セキュリティ: よくある弱い秘密鍵を拒否
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// alertingConfigPath returns the alerting config file path from environment
// or the default next to the binary.
func alertingConfigPath() string {
	if path := os.Getenv("ALERTING_CONFIG"); path != "" {
		return path
	}
	return "alerting.yaml"
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	productRepo := pgRepo.NewProductRepo(database)
	observationRepo := pgRepo.NewObservationRepo(database)

	productSvc := &productUC.Service{Repo: productRepo, Observations: observationRepo}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load page fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}
	pageFetcher := fetcher.NewHTTPPageFetcher(fetchCfg)

	alertingCfg, err := appConfig.LoadAlertingConfig(alertingConfigPath())
	if err != nil {
		logger.Error("failed to load alerting configuration", slog.Any("error", err))
		os.Exit(1)
	}
	dispatcher := alertUC.NewDispatcher(alertingCfg.BuildSinks()...)
	monitorSvc := &monitorUC.Service{
		ProductRepo:     productRepo,
		ObservationRepo: observationRepo,
		Fetcher:         pageFetcher,
		Alerts:          dispatcher,
	}

	rootMux := setupRoutes(database, version, productSvc, monitorSvc)
	return applyMiddleware(logger, rootMux)
}

// setupRoutes registers all HTTP routes (public and protected).
func setupRoutes(
	database *sql.DB,
	version string,
	productSvc *productUC.Service,
	monitorSvc *monitorUC.Service,
) *http.ServeMux {
	// レート制限: 認証エンドポイントは1分間に5リクエストまで
	authRateLimiter := hhttp.NewRateLimiter(5, 1*time.Minute)

	// レート制限: オンデマンド監視は外部サイトへの実フェッチを伴うため
	// 1分間に10リクエストまで
	monitorRateLimiter := hhttp.NewRateLimiter(10, 1*time.Minute)

	weakPasswords := []string{"password", "123456", "admin", "test", "secret"}
	authProvider := hauth.NewBasicAuthProvider(8, weakPasswords)

	mux := http.NewServeMux()
	mux.Handle("/auth/token", authRateLimiter.Limit(hauth.TokenHandler(authProvider)))

	// ヘルスチェックエンドポイント（認証不要）
	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	hproduct.Register(mux, productSvc, monitorSvc, monitorRateLimiter)

	return mux
}

// applyMiddleware wraps the handler with the middleware chain, innermost first:
// metrics, body limit, input validation, timeout, logging, recovery, tracing,
// request ID.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler

	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.Timeout(30 * time.Second)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
