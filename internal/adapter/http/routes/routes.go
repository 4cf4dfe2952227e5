package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"accountapp/internal/adapter/http/handler"
	"accountapp/internal/adapter/http/helper"
	"accountapp/internal/adapter/http/middleware"
	"accountapp/internal/core/telemetry"
	"accountapp/pkg/config"
)

const MsgEndpointNotFound = "Endpoint not found"

type HandlersConfig struct {
	AccountHandler *handler.AccountHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *otelzap.Logger, cfg *config.AppConfig) *gin.Engine {
	router := newRouter(logger)

	router.Use(middleware.NewHTTPSEnforcer(cfg.EnforceHTTPS || cfg.IsProduction(), logger.Logger).HTTPSMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))

	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}

	router.Use(middleware.CORSMiddleware())

	if cfg.RateLimitEnabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimits(), logger.Logger, metrics).RateLimitMiddleware())
	}

	setupRoutes(router, handlers)

	return router
}

// SetupRouterForTests skips the transport concerns that need a live
// environment: tracing, HTTPS redirects and rate limits.
func SetupRouterForTests(handlers HandlersConfig, logger *otelzap.Logger) *gin.Engine {
	router := newRouter(logger)

	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.CORSMiddleware())

	setupRoutes(router, handlers)

	return router
}

func newRouter(logger *otelzap.Logger) *gin.Engine {
	router := gin.New()

	// paths are matched exactly
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.RecoveryMiddleware(logger))

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, MsgEndpointNotFound)
	})

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig) {
	account := handlers.AccountHandler

	api := router.Group("/api")
	{
		api.POST("/signup", account.SignUp)
		api.POST("/login", account.Login)
		api.POST("/edit-profile/*id", account.EditProfile)
		api.POST("/change-password/*id", account.ChangePassword)
		api.GET("/user/*id", account.GetUser)
		api.GET("/health", account.Health)
	}
}
