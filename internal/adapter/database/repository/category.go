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

type CategoryRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewCategoryRepository(db *database.DB, telemetry port.Telemetry) port.CategoryRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &CategoryRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (cr *CategoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	ctx, span := cr.telemetry.StartRepositorySpan(ctx, "GetAll", "category", map[string]interface{}{
		"db.system": cr.db.System,
		"db.table":  "categories",
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := cr.db.QueryBuilder.Select("id", "uuid", "name", "created_at", "updated_at").
		From("categories").
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build category select")
	}

	rows, err := cr.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		cr.telemetry.RecordRepositoryOperation(ctx, "GetAll", "category", time.Since(startTime), err)
		return nil, errors.Wrap(err, "select categories")
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)

	for rows.Next() {
		var data domain.Category

		if err := rows.Scan(&data.ID, &data.UUID, &data.Name, &data.CreatedAt, &data.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}

		categories = append(categories, data)
	}

	err = rows.Err()
	cr.telemetry.RecordRepositoryOperation(ctx, "GetAll", "category", time.Since(startTime), err)

	if err != nil {
		return nil, errors.Wrap(err, "iterate categories")
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(categories)})

	return categories, nil
}

func (cr *CategoryRepository) GetByUUID(ctx context.Context, uid string) (domain.Category, error) {
	ctx, span := cr.telemetry.StartRepositorySpan(ctx, "GetByUUID", "category", map[string]interface{}{
		"db.system":     cr.db.System,
		"db.table":      "categories",
		"category.uuid": uid,
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := cr.db.QueryBuilder.Select("id", "uuid", "name", "created_at", "updated_at").
		From("categories").
		Where(sq.Eq{"uuid": uid}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Category{}, errors.Wrap(err, "build category select")
	}

	var data domain.Category

	err = cr.db.QueryRowContext(ctx, stmt, args...).Scan(&data.ID, &data.UUID, &data.Name, &data.CreatedAt, &data.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		cr.telemetry.RecordRepositoryOperation(ctx, "GetByUUID", "category", time.Since(startTime), nil)
		return domain.Category{}, domain.ErrNotFound
	}

	cr.telemetry.RecordRepositoryOperation(ctx, "GetByUUID", "category", time.Since(startTime), err)

	if err != nil {
		return domain.Category{}, errors.Wrap(err, "select category")
	}

	return data, nil
}

func (cr *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	ctx, span := cr.telemetry.StartRepositorySpan(ctx, "Create", "category", map[string]interface{}{
		"db.system":     cr.db.System,
		"db.table":      "categories",
		"category.uuid": category.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := cr.db.QueryBuilder.Insert("categories").
		Columns("uuid", "name", "created_at", "updated_at").
		Values(category.UUID, category.Name, category.CreatedAt, category.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Category{}, errors.Wrap(err, "build category insert")
	}

	err = cr.db.QueryRowContext(ctx, stmt, args...).Scan(&category.ID)
	cr.telemetry.RecordRepositoryOperation(ctx, "Create", "category", time.Since(startTime), err)

	if err != nil {
		span.RecordError(err)
		return domain.Category{}, errors.Wrap(err, "insert category")
	}

	cr.telemetry.RecordBusinessEvent(ctx, "created", "category", category.UUID.String(), nil)

	return category, nil
}
