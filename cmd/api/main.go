package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/adapters/cache"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/adapters/database"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/api/handlers"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/api/middleware"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/api/routes"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/application/services"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/providers"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/clients/postgres"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/clients/redis"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/observability"
	"github.com/clearesthealth/idr-benchmarking/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Redis is optional. Without it the filter-option cache falls back to
	// the in-process FIFO cache and HTTP response caching is disabled.
	var httpCache providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, continuing without response cache")
	} else {
		defer redisClient.Close()
		httpCache = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	filterCache := cache.NewMemoryAdapter(cfg.Benchmark.FilterCacheSize)

	recordStore := database.NewDisputeAdapter(pgClient, metrics)

	cohortService := services.NewCohortService()
	benchmarkService := services.NewBenchmarkService(recordStore, cfg.Benchmark.RowCeiling)
	serviceCodeService := services.NewServiceCodeService(recordStore, cfg.Benchmark.RowCeiling)
	insightService := services.NewInsightService()
	reportService := services.NewBenchmarkReportService(cohortService, benchmarkService, serviceCodeService, insightService)
	searchService := services.NewEntitySearchService(recordStore, cfg.Benchmark.RowCeiling, cfg.Benchmark.SearchLimit)
	filterService := services.NewFilterOptionsService(recordStore, filterCache, cfg.Benchmark.RowCeiling, cfg.Benchmark.FilterCacheTTLSeconds)

	benchmarkHandler := handlers.NewBenchmarkHandler(reportService, cohortService, serviceCodeService, cfg.Benchmark.BreakdownLimit)
	entityHandler := handlers.NewEntityHandler(searchService)
	filterHandler := handlers.NewFilterHandler(filterService)

	var cacheMiddleware *middleware.CacheMiddleware
	if httpCache != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(httpCache, metrics)
	}

	router := routes.NewRouter(benchmarkHandler, entityHandler, filterHandler, cacheMiddleware, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
