package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "icefuse-kits-backend/docs"
	"icefuse-kits-backend/internal/common/config"
	"icefuse-kits-backend/internal/common/logger"
	"icefuse-kits-backend/internal/common/middleware"
	"icefuse-kits-backend/internal/features/audit"
	analyticsHTTP "icefuse-kits-backend/internal/features/analytics/delivery/http"
	analyticsService "icefuse-kits-backend/internal/features/analytics/service"
	analyticsWorker "icefuse-kits-backend/internal/features/analytics/worker"
	giveawayHTTP "icefuse-kits-backend/internal/features/giveaway/delivery/http"
	giveawayRepo "icefuse-kits-backend/internal/features/giveaway/repository/postgres"
	giveawayService "icefuse-kits-backend/internal/features/giveaway/service"
	tokenHTTP "icefuse-kits-backend/internal/features/token/delivery/http"
	tokenRepo "icefuse-kits-backend/internal/features/token/repository/postgres"
	tokenService "icefuse-kits-backend/internal/features/token/service"
	"icefuse-kits-backend/internal/platform/clickhouse"
	"icefuse-kits-backend/internal/platform/postgres"
	"icefuse-kits-backend/internal/platform/redis"
)

// @title           Icefuse Kits API
// @version         1.0
// @description     Admin and game-server backend for giveaway management, entry submission and analytics ingest.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description API token with the required scope, sent as "Bearer <token>"

// @tag.name giveaways
// @tag.description Giveaway lifecycle, entries and winner draws

// @tag.name tokens
// @tag.description API token administration

// @tag.name analytics
// @tag.description Game server event ingest

func main() {
	cfg := config.Load()

	logger.Init("icefuse-kits-backend", cfg.Debug)

	log.Info().
		Str("version", "1.0.0").
		Bool("debug", cfg.Debug).
		Msg("Starting Icefuse Kits backend")

	ctx := context.Background()

	postgresClient, err := postgres.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	log.Info().Msg("Database connection established")

	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	clickhouseConn, err := clickhouse.NewConn(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to ClickHouse")
	}
	defer clickhouseConn.Close()

	log.Info().Msg("Analytics stores connected")

	db := postgresClient.DB()
	giveawayRepository := giveawayRepo.NewPostgresRepository(db)
	tokenRepository := tokenRepo.NewPostgresRepository(db)
	auditRepository := audit.NewPostgresRepository(db)

	giveawaySvc := giveawayService.NewGiveawayService(giveawayRepository, log.Logger)
	tokenSvc := tokenService.NewTokenService(tokenRepository, log.Logger)
	analyticsSvc := analyticsService.NewAnalyticsService(redisClient, cfg.Analytics.Stream, log.Logger)
	auditRecorder := audit.NewRecorder(auditRepository, log.Logger)

	log.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log.Logger))
	router.Use(middleware.Recovery(log.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Audit(auditRecorder))

	giveawayHTTP.NewGiveawayHandler(giveawaySvc, tokenSvc, log.Logger).RegisterRoutes(v1)
	tokenHTTP.NewTokenHandler(tokenSvc, log.Logger).RegisterRoutes(v1)
	analyticsHTTP.NewAnalyticsHandler(analyticsSvc, tokenSvc, cfg.Analytics.RateLimit, cfg.Analytics.RateBurst, log.Logger).RegisterRoutes(v1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "icefuse-kits-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(checkCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database"})
			return
		}
		if err := redisClient.Ping(checkCtx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "redis"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Msg("Routes configured")

	// Time-based safety net on top of request-triggered reconciliation.
	lifecycleRunner := giveawayService.NewRunner(giveawaySvc, cfg.Lifecycle.TickInterval, log.Logger)
	lifecycleRunner.Start()
	defer lifecycleRunner.Stop()

	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()

	worker := analyticsWorker.NewWorker(redisClient, clickhouseConn, cfg.Analytics.Stream, cfg.Analytics.ConsumerGroup, log.Logger)
	go func() {
		if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Analytics worker stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
