package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"storefront/internal/adapter/http/handler"
	"storefront/internal/adapter/http/helper"
	"storefront/internal/adapter/http/middleware"
	"storefront/internal/adapter/logger"
	"storefront/internal/adapter/session"
	"storefront/internal/core/port"
	"storefront/internal/core/telemetry"
	"storefront/pkg/config"
)

type HandlersConfig struct {
	AuthHandler    *handler.AuthHandler
	SessionHandler *handler.SessionHandler
	CatalogHandler *handler.CatalogHandler
}

// Dependencies are the shared pieces the middleware chain needs.
type Dependencies struct {
	Accounts port.AccountRepository
	Sessions port.SessionStore
	Tokens   *helper.JWT
	Metrics  *telemetry.AppMetrics
	Logger   *logger.Logger
}

// cachedPaths are the public catalog reads served by the response cache.
var cachedPaths = []string{"/categories", "/products", "/products/:uuid"}

func SetupRouterWithConfig(handlers HandlersConfig, deps Dependencies, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()

	SetupGinMiddleware(router, deps, cfg)

	if handlers.AuthHandler != nil {
		setupAuthRoutes(router, handlers.AuthHandler)
	}

	if handlers.SessionHandler != nil {
		setupSessionRoutes(router, handlers.SessionHandler)
	}

	if handlers.CatalogHandler != nil {
		setupCatalogRoutes(router, handlers.CatalogHandler, deps.Accounts)
	}

	return router
}

// SetupGinMiddleware installs the chain in order: transport concerns,
// request context, identity, then throttling and caching which depend on
// identity.
func SetupGinMiddleware(router *gin.Engine, deps Dependencies, cfg *config.AppConfig) {
	zapLogger := deps.Logger.Zap()

	router.Use(gin.Recovery())
	router.Use(middleware.NewHTTPSEnforcer(cfg.HTTP.EnforceHTTPS, zapLogger).HTTPSMiddleware())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SessionMiddleware(deps.Sessions, session.NewCookieOptions(cfg.Session)))
	router.Use(middleware.IdentifyMiddleware(deps.Tokens))
	router.Use(middleware.NewRateLimiter(cfg.RateLimit, zapLogger, deps.Metrics).RateLimitMiddleware())

	if cfg.Cache.Enabled {
		router.Use(middleware.NewResponseCache(cfg.Cache.TTL, cachedPaths, zapLogger, deps.Metrics).CacheMiddleware())
	}
}

func setupAuthRoutes(router *gin.Engine, authHandler *handler.AuthHandler) {
	public := router.Group("/")
	{
		public.POST("/signup", authHandler.RegisterByEmailAndPassword)
		public.POST("/auth", authHandler.AuthByEmailAndPassword)
	}
}

func setupSessionRoutes(router *gin.Engine, sessionHandler *handler.SessionHandler) {
	public := router.Group("/")
	{
		public.GET("/", sessionHandler.Show)
		public.GET("/login", sessionHandler.LoginForm)
		public.POST("/login", sessionHandler.Login)
		public.GET("/logout", sessionHandler.Logout)
		public.DELETE("/logout", sessionHandler.Logout)
	}
}

func setupCatalogRoutes(router *gin.Engine, catalogHandler *handler.CatalogHandler, accounts port.AccountRepository) {
	public := router.Group("/")
	{
		public.GET("/categories", catalogHandler.GetAllCategories)
		public.GET("/products", catalogHandler.GetAllProducts)
		public.GET("/products/:uuid", catalogHandler.GetProduct)
	}

	protected := router.Group("/")
	protected.Use(middleware.RequireAccount(accounts))
	{
		protected.POST("/categories", catalogHandler.CreateCategory)
		protected.POST("/products", catalogHandler.CreateProduct)
	}
}
