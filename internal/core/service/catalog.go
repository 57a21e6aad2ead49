package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/core/domain"
	"storefront/internal/core/model/response"
	"storefront/internal/core/port"
	"storefront/internal/core/util"
)

type CatalogService struct {
	categories port.CategoryRepository
	products   port.ProductRepository
	cursors    *util.CursorCodec
}

func NewCatalogService(categories port.CategoryRepository, products port.ProductRepository, cursors *util.CursorCodec) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		cursors:    cursors,
	}
}

func (cs *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return cs.categories.GetAll(ctx)
}

func (cs *CatalogService) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	category.Name = strings.TrimSpace(category.Name)

	if err := domain.ValidateCategory(category).Err(); err != nil {
		return domain.Category{}, err
	}

	now := time.Now().UTC()
	category.UUID = uuid.New()
	category.CreatedAt = now
	category.UpdatedAt = now

	created, err := cs.categories.Create(ctx, category)

	if err != nil {
		slog.Error("Catalog#CreateCategory", "error", err, "name", category.Name)
		return domain.Category{}, err
	}

	return created, nil
}

func (cs *CatalogService) ProductsWithPagination(ctx context.Context, limit int, cursor string) (*response.CursorResponse, error) {
	rows, hasNext, err := cs.products.GetAllWithCursor(ctx, limit, cursor)

	if err != nil {
		return nil, err
	}

	data := make([]response.ProductResponse, 0, len(rows))

	for _, product := range rows {
		data = append(data, ProductToResponse(product))
	}

	var nextCursor string

	if hasNext && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = cs.cursors.Encode(last.CreatedAt.Format(time.RFC3339Nano), last.ID)
	}

	dataBytes, err := util.Serialize(data)

	if err != nil {
		slog.Error("Catalog#ProductsWithPagination", "serialize", err)
		return nil, fmt.Errorf("serializing products: %w", err)
	}

	resp := response.CursorResponse{
		Size: len(data),
		Data: dataBytes,
	}
	resp.Pagination.HasNext = hasNext
	resp.Pagination.NextCursor = nextCursor

	return &resp, nil
}

func (cs *CatalogService) Product(ctx context.Context, uid string) (domain.Product, error) {
	return cs.products.GetByUUID(ctx, uid)
}

// CreateProduct resolves categoryUUID before validating so that an unknown
// category surfaces as a blank category alongside the other violations.
func (cs *CatalogService) CreateProduct(ctx context.Context, product domain.Product, categoryUUID string) (domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)

	if categoryUUID != "" {
		category, err := cs.categories.GetByUUID(ctx, categoryUUID)

		if err == nil {
			product.CategoryID = category.ID
			product.Category = &category
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.Product{}, err
		}
	}

	if err := domain.ValidateProduct(product).Err(); err != nil {
		return domain.Product{}, err
	}

	now := time.Now().UTC()
	product.UUID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := cs.products.Create(ctx, product)

	if err != nil {
		slog.Error("Catalog#CreateProduct", "error", err, "name", product.Name)
		return domain.Product{}, err
	}

	created.Category = product.Category

	return created, nil
}

func CategoryToResponse(category domain.Category) response.CategoryResponse {
	return response.CategoryResponse{
		UUID:      category.UUID.String(),
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func ProductToResponse(product domain.Product) response.ProductResponse {
	item := response.ProductResponse{
		UUID:        product.UUID.String(),
		Name:        product.Name,
		Description: product.Description,
		InStock:     product.InStock(),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	if product.Price.Valid {
		item.Price = product.Price.Decimal.StringFixed(2)
	}

	if product.Quantity != nil {
		item.Quantity = *product.Quantity
	}

	if product.Category != nil {
		category := CategoryToResponse(*product.Category)
		item.Category = &category
	}

	return item
}

func AccountToResponse(account domain.Account) response.AccountResponse {
	return response.AccountResponse{
		UUID:      account.UUID.String(),
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
