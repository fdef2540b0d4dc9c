package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/leitstand/unitmap/internal/config"
	v1 "github.com/leitstand/unitmap/internal/handler/http/v1"
	"github.com/leitstand/unitmap/internal/reconcile"
	"github.com/leitstand/unitmap/internal/repository"
	"github.com/leitstand/unitmap/internal/service"
	"github.com/leitstand/unitmap/pkg/logger"
	"github.com/leitstand/unitmap/pkg/postgres"
	redisclient "github.com/leitstand/unitmap/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/leitstand/unitmap/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Unit Map API
// @version 1.0
// @description Unit-position reconciliation and proximity engine for the incident-dispatch board.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Repositories: roster and board are read-only views onto the data the
	// board/fleet collaborators maintain; the GPS snapshot comes from the
	// feed ingester via Redis.
	rosterRepo := repository.NewRosterRepository(dbpool)
	boardRepo := repository.NewBoardRepository(dbpool)
	gpsRepo := repository.NewGpsRepository(redisClient)
	overrideRepo := repository.NewOverrideRepository(dbpool)

	positionService := service.NewPositionService(rosterRepo, boardRepo, gpsRepo, overrideRepo, log)
	proximityService := service.NewProximityService(rosterRepo, boardRepo, gpsRepo, overrideRepo, log)

	// Reconciliation pipeline: loop -> redis queue -> delivery worker.
	renderPublisher := reconcile.NewRedisRenderPublisher(redisClient)
	loop := reconcile.NewLoop(positionService, renderPublisher, log, cfg.TickInterval, cfg.TickTimeout)
	loop.Start(ctx)
	defer loop.Stop()

	renderWorker := reconcile.NewWorker(redisClient, log, cfg)
	renderWorker.Start(ctx)

	handler := v1.NewHandler(positionService, proximityService, log, cfg)

	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
