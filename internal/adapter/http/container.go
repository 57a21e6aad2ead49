package http

import (
	"context"
	"fmt"

	"storefront/internal/adapter/database"
	"storefront/internal/adapter/database/postgres"
	"storefront/internal/adapter/database/repository"
	"storefront/internal/adapter/database/sqlite"
	"storefront/internal/adapter/http/handler"
	"storefront/internal/adapter/http/helper"
	"storefront/internal/adapter/http/routes"
	"storefront/internal/adapter/logger"
	"storefront/internal/core/port"
	"storefront/internal/core/service"
	"storefront/internal/core/telemetry"
	"storefront/internal/core/util"
	"storefront/pkg/config"
)

type Container struct {
	AccountRepo  port.AccountRepository
	CategoryRepo port.CategoryRepository
	ProductRepo  port.ProductRepository

	AuthService    port.AuthService
	SessionService port.SessionService
	CatalogService port.CatalogService

	AuthHandler    *handler.AuthHandler
	SessionHandler *handler.SessionHandler
	CatalogHandler *handler.CatalogHandler

	Tokens *helper.JWT
}

func NewContainer(db *database.DB, cfg *config.AppConfig, logger *logger.Logger, probe port.Telemetry) *Container {
	cursors := util.NewCursorCodec(cfg.Cursor.Secret)
	tokens := helper.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	accountRepo := repository.NewAccountRepository(db, probe)
	categoryRepo := repository.NewCategoryRepository(db, probe)
	productRepo := repository.NewProductRepository(db, cursors, probe)

	authSvc := service.NewAuthService(accountRepo, util.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	sessionSvc := service.NewSessionService(authSvc, accountRepo, probe)
	catalogSvc := service.NewCatalogService(categoryRepo, productRepo, cursors)

	return &Container{
		AccountRepo:  accountRepo,
		CategoryRepo: categoryRepo,
		ProductRepo:  productRepo,

		AuthService:    authSvc,
		SessionService: sessionSvc,
		CatalogService: catalogSvc,

		AuthHandler:    handler.NewAuthHandler(authSvc),
		SessionHandler: handler.NewSessionHandler(sessionSvc, logger),
		CatalogHandler: handler.NewCatalogHandler(catalogSvc, logger),

		Tokens: tokens,
	}
}

// Handlers returns the route table input.
func (c *Container) Handlers() routes.HandlersConfig {
	return routes.HandlersConfig{
		AuthHandler:    c.AuthHandler,
		SessionHandler: c.SessionHandler,
		CatalogHandler: c.CatalogHandler,
	}
}

// Dependencies returns the middleware inputs for a router built from c.
func (c *Container) Dependencies(store port.SessionStore, metrics *telemetry.AppMetrics, logger *logger.Logger) routes.Dependencies {
	return routes.Dependencies{
		Accounts: c.AccountRepo,
		Sessions: store,
		Tokens:   c.Tokens,
		Metrics:  metrics,
		Logger:   logger,
	}
}

// OpenDatabase connects to the store named by cfg.Driver and applies
// pending migrations.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	switch cfg.Driver {
	case "", database.SystemSQLite:
		return sqlite.New(cfg)
	case database.SystemPostgres:
		return postgres.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
