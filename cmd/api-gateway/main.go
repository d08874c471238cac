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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	internalcache "github.com/MasoudAndiwal/school-office-api/internal/cache"
	"github.com/MasoudAndiwal/school-office-api/internal/handler"
	internalmiddleware "github.com/MasoudAndiwal/school-office-api/internal/middleware"
	"github.com/MasoudAndiwal/school-office-api/internal/repository"
	"github.com/MasoudAndiwal/school-office-api/internal/service"
	rediscache "github.com/MasoudAndiwal/school-office-api/pkg/cache"
	"github.com/MasoudAndiwal/school-office-api/pkg/config"
	"github.com/MasoudAndiwal/school-office-api/pkg/database"
	"github.com/MasoudAndiwal/school-office-api/pkg/logger"
	"github.com/MasoudAndiwal/school-office-api/pkg/middleware/cors"
	"github.com/MasoudAndiwal/school-office-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logr.Sync() }()

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	var sharedCache service.SharedCache
	if cfg.Redis.Enabled {
		redisClient, err := rediscache.NewRedis(cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		sharedCache = repository.NewSharedCacheRepository(redisClient, logr)
		logr.Info("daily schedule shared cache enabled")
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)

	periodCache := internalcache.NewPeriodCache(internalcache.Options{
		TTL:           cfg.Periods.CacheTTL,
		MaxEntries:    cfg.Periods.CacheMaxEntries,
		SweepInterval: cfg.Periods.SweepInterval,
		Logger:        logr,
	})

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	periodCache.StartSweep(sweepCtx)

	metricsSvc := service.NewMetricsService()
	periodSvc := service.NewPeriodAssignmentService(
		scheduleRepo,
		teacherRepo,
		periodCache,
		sharedCache,
		cfg.Periods.DailyScheduleTTL,
		metricsSvc,
		logr,
	)
	scheduleSvc := service.NewScheduleService(scheduleRepo, periodSvc, validator.New(), logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.Middleware())
	engine.Use(logger.GinMiddleware(logr))
	engine.Use(cors.New(cfg.CORS.AllowedOrigins))
	engine.Use(internalmiddleware.Metrics(metricsSvc))

	handler.Routes{
		Periods:    handler.NewPeriodHandler(periodSvc),
		Schedules:  handler.NewScheduleHandler(scheduleSvc),
		CacheAdmin: handler.NewCacheAdminHandler(periodSvc),
		Metrics:    handler.NewMetricsHandler(metricsSvc),
	}.Register(engine, cfg.APIPrefix)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server listening", zap.String("addr", srv.Addr), zap.String("prefix", cfg.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		periodSvc.Close()
		return err
	case <-ctx.Done():
	}

	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown incomplete", zap.Error(err))
	}

	periodSvc.Close()
	logr.Info("server stopped")
	return nil
}
