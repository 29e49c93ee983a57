package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffcal/internal/api"
	"staffcal/internal/config"
	"staffcal/internal/database"
	"staffcal/internal/domain"
	"staffcal/internal/events"
	"staffcal/internal/export"
	"staffcal/internal/logging"
	"staffcal/internal/metrics"
	"staffcal/internal/repository"
	"staffcal/internal/service"
	"staffcal/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	source, invalidator := buildBookingSource(cfg, db, redisClient, &logger)

	exporter := export.NewScheduleExporter(db, cfg.Exports.Path, logger)
	exportWorker := worker.NewExportWorker(exporter, worker.RetryPolicy{}, logger)
	go exportWorker.Start(ctx)

	bookingSvc := service.NewBookingService(db, events.NewEventBus(), exportWorker, invalidator, cfg.Booking.MaxBookingDays, &logger)
	availabilitySvc := service.NewAvailabilityService(source, &logger)
	subjectSvc := service.NewSubjectService(db, cfg.Subjects, &logger)

	httpServer := api.NewHTTPServer(cfg.API, bookingSvc, availabilitySvc, subjectSvc, exportWorker, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServers(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	if err := db.SeedSubjects(context.Background(), cfg.Subjects); err != nil {
		logger.Error().Err(err).Msg("seed subjects")
		return nil, err
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildBookingSource wires the snapshot caches: redis primary with an
// in-memory fallback when redis is configured, in-memory only otherwise.
func buildBookingSource(cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) (domain.BookingSource, service.SnapshotInvalidator) {
	ttl := time.Duration(cfg.Booking.SnapshotTTL) * time.Second

	memSource := repository.NewCachedBookingSource(db, repository.NewMemoryBookingCache(ttl), logger)
	if redisClient == nil {
		return memSource, memSource
	}

	redisSource := repository.NewCachedBookingSource(db, repository.NewRedisBookingCache(redisClient, ttl), logger)
	source := repository.NewFailoverBookingSource(redisSource, memSource, logger)
	return source, repository.MultiInvalidator{redisSource, memSource}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServers(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
