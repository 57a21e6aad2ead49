package postgres

import (
	"context"
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"storefront/db/migrations"
	"storefront/internal/adapter/database"
	"storefront/pkg/config"
)

// New connects a pgx pool to cfg.URL, migrates the schema and exposes the
// pool through database/sql so the shared repositories can use it.
func New(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("database url is not set")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	if err := RunMigrations(cfg.URL); err != nil {
		pool.Close()
		return nil, err
	}

	return database.Wrap(stdlib.OpenDBFromPool(pool), database.SystemPostgres), nil
}

func RunMigrations(dbURL string) error {
	sqlDB, err := sql.Open("pgx", dbURL)
	if err != nil {
		return errors.Wrap(err, "open migration connection")
	}
	defer sqlDB.Close()

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}

	source, err := iofs.New(migrations.FS, "postgres")
	if err != nil {
		return errors.Wrap(err, "open migration source")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, "create migration instance")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}

	return nil
}
