package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"storefront/internal/adapter/database"
	"storefront/internal/core/domain"
	"storefront/internal/core/port"
	tel "storefront/internal/core/telemetry"
)

var accountColumns = []string{
	"id", "uuid", "email", "password_digest", "first_name", "last_name", "created_at", "updated_at",
}

type AccountRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewAccountRepository(db *database.DB, telemetry port.Telemetry) port.AccountRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &AccountRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ar *AccountRepository) FindByNormalizedEmail(ctx context.Context, email string) (domain.Account, error) {
	ctx, span := ar.telemetry.StartRepositorySpan(ctx, "FindByNormalizedEmail", "account", map[string]interface{}{
		"db.system": ar.db.System,
		"db.table":  "accounts",
	})
	defer span.End()

	startTime := time.Now()

	query := ar.db.QueryBuilder.Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"email_normalized": email}).
		Limit(1)

	account, err := ar.getOne(ctx, query)
	ar.telemetry.RecordRepositoryOperation(ctx, "FindByNormalizedEmail", "account", time.Since(startTime), ignoreNotFound(err))

	return account, err
}

func (ar *AccountRepository) GetByUUID(ctx context.Context, uid string) (domain.Account, error) {
	ctx, span := ar.telemetry.StartRepositorySpan(ctx, "GetByUUID", "account", map[string]interface{}{
		"db.system":    ar.db.System,
		"db.table":     "accounts",
		"account.uuid": uid,
	})
	defer span.End()

	startTime := time.Now()

	query := ar.db.QueryBuilder.Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"uuid": uid}).
		Limit(1)

	account, err := ar.getOne(ctx, query)
	ar.telemetry.RecordRepositoryOperation(ctx, "GetByUUID", "account", time.Since(startTime), ignoreNotFound(err))

	return account, err
}

func (ar *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	ctx, span := ar.telemetry.StartRepositorySpan(ctx, "Create", "account", map[string]interface{}{
		"db.system":    ar.db.System,
		"db.table":     "accounts",
		"account.uuid": account.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	query := ar.db.QueryBuilder.Insert("accounts").
		Columns("uuid", "email", "email_normalized", "password_digest", "first_name", "last_name", "created_at", "updated_at").
		Values(account.UUID, account.Email, domain.NormalizeEmail(account.Email), account.PasswordDigest, account.FirstName, account.LastName, account.CreatedAt, account.UpdatedAt).
		Suffix("RETURNING id")

	stmt, args, err := query.ToSql()
	if err != nil {
		span.RecordError(err)
		return domain.Account{}, errors.Wrap(err, "build account insert")
	}

	err = ar.db.QueryRowContext(ctx, stmt, args...).Scan(&account.ID)
	ar.telemetry.RecordRepositoryOperation(ctx, "Create", "account", time.Since(startTime), err)

	if database.IsUniqueViolation(err) {
		return domain.Account{}, domain.Violations{domain.Duplicate("email")}
	}

	if err != nil {
		span.RecordError(err)
		return domain.Account{}, errors.Wrap(err, "insert account")
	}

	ar.telemetry.RecordBusinessEvent(ctx, "registered", "account", account.UUID.String(), nil)

	return account, nil
}

func (ar *AccountRepository) getOne(ctx context.Context, query sq.SelectBuilder) (domain.Account, error) {
	stmt, args, err := query.ToSql()
	if err != nil {
		return domain.Account{}, errors.Wrap(err, "build account select")
	}

	var data domain.Account

	err = ar.db.QueryRowContext(ctx, stmt, args...).Scan(
		&data.ID,
		&data.UUID,
		&data.Email,
		&data.PasswordDigest,
		&data.FirstName,
		&data.LastName,
		&data.CreatedAt,
		&data.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Account{}, errors.Wrap(err, "select account")
	}

	return data, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}

	return err
}
