package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/attendease/attendease-api/internal/handler"
	internalmiddleware "github.com/attendease/attendease-api/internal/middleware"
	"github.com/attendease/attendease-api/internal/repository"
	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/internal/store"
	"github.com/attendease/attendease-api/pkg/cache"
	"github.com/attendease/attendease-api/pkg/config"
	"github.com/attendease/attendease-api/pkg/jobs"
	"github.com/attendease/attendease-api/pkg/logger"
	corsmiddleware "github.com/attendease/attendease-api/pkg/middleware/cors"
	reqidmiddleware "github.com/attendease/attendease-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	activeStore, err := store.Select(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to bind store", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	if fb, ok := activeStore.(*store.FallbackStore); ok {
		fb.OnFallback(metricsSvc.RecordStoreFallback)
	}

	var cacheRepo *repository.CacheRepository
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard caching disabled")
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(activeStore)
	courseRepo := repository.NewCourseRepository(activeStore)
	attendanceRepo := repository.NewAttendanceRepository(activeStore)
	notificationRepo := repository.NewNotificationRepository(activeStore)
	roomRepo := repository.NewRoomRepository(activeStore)

	cacheSvc := service.NewCacheService(cacheServiceRepo(cacheRepo), metricsSvc, cfg.Dashboard.CacheTTL, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret:       cfg.JWT.Secret,
		TokenExpiry:       cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		AdminUsername:     cfg.Admin.Username,
		AdminPasswordHash: cfg.Admin.PasswordHash,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, userRepo, validate, logr)
	studentSvc := service.NewStudentService(userRepo, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, logr, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	})
	attendanceSvc := service.NewAttendanceService(attendanceRepo, notificationSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(userRepo, courseRepo, attendanceRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	attendanceSvc.SetStatsInvalidator(dashboardSvc)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)

	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metricsSvc.SetQueueDepth("notifications", notificationSvc.QueueDepth())
			}
		}
	}()

	var cacheHealthy func(ctx context.Context) bool
	if cacheRepo != nil {
		cacheHealthy = cacheRepo.Healthy
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Users:         handler.NewUserHandler(userSvc),
		Courses:       handler.NewCourseHandler(courseSvc),
		Students:      handler.NewStudentHandler(studentSvc),
		Attendance:    handler.NewAttendanceHandler(attendanceSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Rooms:         handler.NewRoomHandler(roomSvc),
		Status:        handler.NewStatusHandler(activeStore, authSvc, cacheHealthy),
	}, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", activeStore.Kind())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// cacheServiceRepo converts a possibly-nil concrete repository into the cache
// service dependency without handing it a typed nil interface.
func cacheServiceRepo(repo *repository.CacheRepository) service.CacheRepository {
	if repo == nil {
		return nil
	}
	return repo
}
