package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/brunodmn/escola-admin-api/api/swagger"
	"github.com/brunodmn/escola-admin-api/internal/handler"
	"github.com/brunodmn/escola-admin-api/internal/middleware"
	"github.com/brunodmn/escola-admin-api/internal/repository"
	"github.com/brunodmn/escola-admin-api/internal/service"
	"github.com/brunodmn/escola-admin-api/pkg/cache"
	"github.com/brunodmn/escola-admin-api/pkg/config"
	"github.com/brunodmn/escola-admin-api/pkg/database"
	"github.com/brunodmn/escola-admin-api/pkg/logger"
)

// @title Escola Admin API
// @version 1.0.0
// @description School administration API: users, classes, students and enrollment
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, login rate limiting disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	policy := service.NewAccessPolicy()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	userSvc := service.NewUserService(userRepo, policy, validate, logr)
	classSvc := service.NewClassService(classRepo, policy, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, policy, validate, logr)
	exportSvc := service.NewExportService(classSvc, studentSvc, studentRepo, logr)
	metricsSvc := service.NewMetricsService()

	svcs := handler.Services{
		Auth:      handler.NewAuthHandler(authSvc),
		Users:     handler.NewUserHandler(userSvc),
		Classes:   handler.NewClassHandler(classSvc, exportSvc),
		Students:  handler.NewStudentHandler(studentSvc, exportSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc),
		MetricsMW: middleware.Metrics(metricsSvc),
		JWT:       middleware.JWT(authSvc),
	}
	if cfg.RateLimit.Enabled {
		svcs.RateLimit = middleware.LoginRateLimit(redisClient, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow, logr)
	}

	r := handler.NewRouter(cfg, logr, svcs)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
