package port

import (
	"context"

	"storefront/internal/core/domain"
	"storefront/internal/core/model/response"
)

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]domain.Category, error)
	GetByUUID(ctx context.Context, uuid string) (domain.Category, error)
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
}

type ProductRepository interface {
	GetAllWithCursor(ctx context.Context, limit int, cursor string) ([]domain.Product, bool, error)
	GetByUUID(ctx context.Context, uuid string) (domain.Product, error)
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
}

type CatalogService interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	ProductsWithPagination(ctx context.Context, limit int, cursor string) (*response.CursorResponse, error)
	Product(ctx context.Context, uuid string) (domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product, categoryUUID string) (domain.Product, error)
}
