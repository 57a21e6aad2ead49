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
	"storefront/internal/core/util"
)

var productColumns = []string{
	"p.id", "p.uuid", "p.name", "p.description", "p.price", "p.quantity", "p.category_id", "p.created_at", "p.updated_at",
	"c.id", "c.uuid", "c.name", "c.created_at", "c.updated_at",
}

type ProductRepository struct {
	db        *database.DB
	cursors   *util.CursorCodec
	telemetry port.Telemetry
}

func NewProductRepository(db *database.DB, cursors *util.CursorCodec, telemetry port.Telemetry) port.ProductRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &ProductRepository{
		db:        db,
		cursors:   cursors,
		telemetry: telemetry,
	}
}

func (pr *ProductRepository) selectProducts() sq.SelectBuilder {
	return pr.db.QueryBuilder.Select(productColumns...).
		From("products p").
		Join("categories c ON c.id = p.category_id")
}

// GetAllWithCursor pages newest first. The cursor is the signed
// (created_at, id) of the last row of the previous page.
func (pr *ProductRepository) GetAllWithCursor(ctx context.Context, limit int, cursor string) ([]domain.Product, bool, error) {
	ctx, span := pr.telemetry.StartRepositorySpan(ctx, "GetAllWithCursor", "product", map[string]interface{}{
		"db.system":         pr.db.System,
		"db.table":          "products",
		"pagination.limit":  limit,
		"pagination.cursor": cursor,
	})
	defer span.End()

	startTime := time.Now()

	fail := func(err error) ([]domain.Product, bool, error) {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		pr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "product", time.Since(startTime), err)
		return []domain.Product{}, false, err
	}

	actualLimit := limit + 1

	query := pr.selectProducts().
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(actualLimit))

	if cursor != "" {
		datetimeStr, id, err := pr.cursors.Decode(cursor)
		if err != nil {
			return fail(errors.Wrap(domain.ErrInvalidCursor, err.Error()))
		}

		datetime, err := time.Parse(time.RFC3339Nano, datetimeStr)
		if err != nil {
			return fail(errors.Wrap(domain.ErrInvalidCursor, err.Error()))
		}

		query = query.Where(sq.Or{
			sq.Lt{"p.created_at": datetime},
			sq.And{
				sq.Eq{"p.created_at": datetime},
				sq.Lt{"p.id": id},
			},
		})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fail(err)
	}

	rows, err := pr.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fail(errors.Wrap(err, "select products"))
	}
	defer rows.Close()

	products := make([]domain.Product, 0, actualLimit)

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return fail(err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return fail(errors.Wrap(err, "iterate products"))
	}

	hasNext := len(products) == actualLimit
	if hasNext {
		products = products[:limit]
	}

	span.SetAttributes(map[string]interface{}{
		"db.rows_returned": len(products),
		"db.has_next":      hasNext,
	})
	span.SetStatus("ok", "")
	pr.telemetry.RecordRepositoryOperation(ctx, "GetAllWithCursor", "product", time.Since(startTime), nil)

	return products, hasNext, nil
}

func (pr *ProductRepository) GetByUUID(ctx context.Context, uid string) (domain.Product, error) {
	ctx, span := pr.telemetry.StartRepositorySpan(ctx, "GetByUUID", "product", map[string]interface{}{
		"db.system":    pr.db.System,
		"db.table":     "products",
		"product.uuid": uid,
	})
	defer span.End()

	startTime := time.Now()

	stmt, args, err := pr.selectProducts().
		Where(sq.Eq{"p.uuid": uid}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "build product select")
	}

	product, err := scanProduct(pr.db.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		pr.telemetry.RecordRepositoryOperation(ctx, "GetByUUID", "product", time.Since(startTime), nil)
		return domain.Product{}, domain.ErrNotFound
	}

	pr.telemetry.RecordRepositoryOperation(ctx, "GetByUUID", "product", time.Since(startTime), err)

	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (pr *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, span := pr.telemetry.StartRepositorySpan(ctx, "Create", "product", map[string]interface{}{
		"db.system":    pr.db.System,
		"db.table":     "products",
		"product.uuid": product.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	categoryID := product.CategoryID
	if product.Category != nil {
		categoryID = product.Category.ID
	}

	var quantity int
	if product.Quantity != nil {
		quantity = *product.Quantity
	}

	stmt, args, err := pr.db.QueryBuilder.Insert("products").
		Columns("uuid", "name", "description", "price", "quantity", "category_id", "created_at", "updated_at").
		Values(product.UUID, product.Name, product.Description, product.Price.Decimal.StringFixed(2), quantity, categoryID, product.CreatedAt, product.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "build product insert")
	}

	err = pr.db.QueryRowContext(ctx, stmt, args...).Scan(&product.ID)
	pr.telemetry.RecordRepositoryOperation(ctx, "Create", "product", time.Since(startTime), err)

	if database.IsForeignKeyViolation(err) {
		return domain.Product{}, domain.Violations{domain.Blank("category")}
	}

	if err != nil {
		span.RecordError(err)
		return domain.Product{}, errors.Wrap(err, "insert product")
	}

	product.CategoryID = categoryID
	pr.telemetry.RecordBusinessEvent(ctx, "created", "product", product.UUID.String(), nil)

	return product, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		data     domain.Product
		category domain.Category
		quantity int
	)

	err := row.Scan(
		&data.ID,
		&data.UUID,
		&data.Name,
		&data.Description,
		&data.Price,
		&quantity,
		&data.CategoryID,
		&data.CreatedAt,
		&data.UpdatedAt,
		&category.ID,
		&category.UUID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, err
	}

	if err != nil {
		return domain.Product{}, errors.Wrap(err, "scan product")
	}

	data.Quantity = &quantity
	data.Category = &category

	return data, nil
}
