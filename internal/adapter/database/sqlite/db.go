package sqlite

import (
	"database/sql"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"storefront/db/migrations"
	"storefront/internal/adapter/database"
	"storefront/pkg/config"
)

// New opens the sqlite database at cfg.Path, traced by otelsql and, when
// cfg.LogQueries is set, logged through zerolog. Migrations run before the
// handle is returned.
func New(cfg config.DatabaseConfig) (*database.DB, error) {
	dsn := dataSourceName(cfg.Path)

	sqlDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("storefront"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if cfg.LogQueries {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
		sqlDB = sqldblogger.OpenDriver(dsn, sqlDB.Driver(), zerologadapter.New(logger))
	}

	if isMemory(cfg.Path) {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return database.Wrap(sqlDB, database.SystemSQLite), nil
}

// NewFromSQL wraps an already opened handle and migrates it.
func NewFromSQL(sqlDB *sql.DB) (*database.DB, error) {
	if err := RunMigrations(sqlDB); err != nil {
		return nil, err
	}

	return database.Wrap(sqlDB, database.SystemSQLite), nil
}

// RunMigrations applies the embedded sqlite migrations. The migrate
// instance is not closed since that would close sqlDB.
func RunMigrations(sqlDB *sql.DB) error {
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}

	source, err := iofs.New(migrations.FS, "sqlite")
	if err != nil {
		return errors.Wrap(err, "open migration source")
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return errors.Wrap(err, "create migration instance")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}

	return nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func dataSourceName(path string) string {
	if path == "" {
		path = "storefront.db"
	}

	if strings.Contains(path, "_foreign_keys") {
		return path
	}

	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}

	return path + "?_foreign_keys=on"
}
