package handler

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/brunodmn/escola-admin-api/internal/middleware"
	"github.com/brunodmn/escola-admin-api/internal/models"
	"github.com/brunodmn/escola-admin-api/pkg/config"
	"github.com/brunodmn/escola-admin-api/pkg/logger"
	corsmiddleware "github.com/brunodmn/escola-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/brunodmn/escola-admin-api/pkg/middleware/requestid"
	"github.com/brunodmn/escola-admin-api/pkg/response"
)

// Services groups everything the router needs to assemble the HTTP
// surface.
type Services struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Classes   *ClassHandler
	Students  *StudentHandler
	Metrics   *MetricsHandler
	MetricsMW gin.HandlerFunc
	JWT       gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

// NewRouter assembles the gin engine: middleware chain, health and
// observability endpoints and the resource routes under the API prefix.
func NewRouter(cfg *config.Config, logr *zap.Logger, svcs Services) *gin.Engine {
	r := gin.New()

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logr.Error("panic recovered", zap.Any("panic", recovered))
		stack := ""
		if cfg.Env != config.EnvProduction {
			stack = string(debug.Stack())
		}
		response.Panic(c, "Erro interno no servidor.", stack)
	}))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if svcs.MetricsMW != nil {
		r.Use(svcs.MetricsMW)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Rota não encontrada."})
	})

	r.GET("/health", svcs.Metrics.Health)
	r.GET("/metrics", svcs.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	login := []gin.HandlerFunc{}
	if svcs.RateLimit != nil {
		login = append(login, svcs.RateLimit)
	}
	login = append(login, svcs.Auth.Login)

	api.POST("/auth/register", svcs.Auth.Register)
	api.POST("/auth/login", login...)

	users := api.Group("/users", svcs.JWT)
	{
		users.GET("", middleware.RequireRoles(models.RoleAdmin), svcs.Users.List)
		users.GET("/:id", svcs.Users.Get)
		users.PUT("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), svcs.Users.Update)
		users.DELETE("/:id", svcs.Users.Delete)
	}

	classes := api.Group("/classes", svcs.JWT)
	{
		classes.GET("", svcs.Classes.List)
		classes.GET("/:id", svcs.Classes.Get)
		classes.POST("", svcs.Classes.Create)
		classes.PUT("/:id", svcs.Classes.Update)
		classes.DELETE("/:id", svcs.Classes.Delete)
		if cfg.Exports.Enabled {
			classes.GET("/:id/roster.pdf", middleware.RequireRoles(models.RoleAdmin), svcs.Classes.RosterPDF)
		}
	}

	students := api.Group("/students", svcs.JWT)
	{
		students.GET("", svcs.Students.List)
		if cfg.Exports.Enabled {
			students.GET("/export.csv", svcs.Students.ExportCSV)
		}
		students.GET("/:id", svcs.Students.Get)
		students.POST("", svcs.Students.Create)
		students.PUT("/:id", svcs.Students.Update)
		students.DELETE("/:id", svcs.Students.Delete)
	}

	return r
}
