package database

import (
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	SystemSQLite   = "sqlite"
	SystemPostgres = "postgres"
)

// DB is the handle shared by every repository regardless of engine. The
// query builder carries the placeholder format for System.
type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
	System       string
}

func Wrap(db *sql.DB, system string) *DB {
	var format squirrel.PlaceholderFormat = squirrel.Question

	if system == SystemPostgres {
		format = squirrel.Dollar
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(format)

	return &DB{
		DB:           db,
		QueryBuilder: &queryBuilder,
		System:       system,
	}
}

// IsUniqueViolation reports whether err came from a unique constraint or
// unique index rejecting a write.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}

// IsForeignKeyViolation reports whether err came from a foreign key check.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}

	return false
}
