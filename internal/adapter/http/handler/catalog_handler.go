package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	. "storefront/internal/adapter/http/helper"
	"storefront/internal/adapter/logger"
	"storefront/internal/core/domain"
	"storefront/internal/core/model/request"
	"storefront/internal/core/model/response"
	"storefront/internal/core/port"
	"storefront/internal/core/service"
	. "storefront/pkg/tracing"
)

const defaultPageSize = 10

type CatalogHandler struct {
	svc    port.CatalogService
	Logger *logger.Logger
}

func NewCatalogHandler(svc port.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (h *CatalogHandler) GetAllCategories(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.catalog.GetAllCategories", nil)
	defer span.End()

	categories, err := h.svc.Categories(ctx)

	if err != nil {
		AddSpanError(span, err)
		h.Logger.ErrorWithTrace(ctx, "Failed to get categories", zap.Error(err))
		SendInternalError(c, "Error getting categories")
		return
	}

	data := make([]response.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		data = append(data, service.CategoryToResponse(category))
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.catalog.CreateCategory", nil)
	defer span.End()

	params, err := BindParams[request.CategoryRequest](c)

	if err != nil {
		SendValidationError(c, err)
		return
	}

	category, err := h.svc.CreateCategory(ctx, domain.Category{Name: params.Name})

	if h.handleWriteError(c, span, err, "Error creating category") {
		return
	}

	AddHTTPStatus(span, http.StatusCreated)
	SendSuccess(c, http.StatusCreated, service.CategoryToResponse(category))
}

func (h *CatalogHandler) GetAllProducts(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.catalog.GetAllProducts", []attribute.KeyValue{
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	params, err := BindQuery[request.CursorRequest](c)

	if err != nil {
		SendValidationError(c, err)
		return
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	span.SetAttributes(
		attribute.String("product.cursor", params.Cursor),
		attribute.Int("product.limit", limit),
	)

	data, err := h.svc.ProductsWithPagination(ctx, limit, params.Cursor)

	if errors.Is(err, domain.ErrInvalidCursor) {
		SendBadRequestError(c, "cursor", "Invalid cursor")
		return
	}

	if err != nil {
		AddSpanError(span, err)
		h.Logger.ErrorWithTrace(ctx, "Failed to get products", zap.Error(err))
		SendInternalError(c, "Error getting products")
		return
	}

	AddHTTPStatus(span, http.StatusOK)
	c.JSON(http.StatusOK, data)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.catalog.GetProduct", nil)
	defer span.End()

	id := c.Param("uuid")

	if _, err := uuid.Parse(id); err != nil {
		SendNotFoundError(c, "Product not found")
		return
	}

	span.SetAttributes(attribute.String("product.uuid", id))

	product, err := h.svc.Product(ctx, id)

	if errors.Is(err, domain.ErrNotFound) {
		SendNotFoundError(c, "Product not found")
		return
	}

	if err != nil {
		AddSpanError(span, err)
		h.Logger.ErrorWithTrace(ctx, "Failed to get product", zap.Error(err), zap.String("product_uuid", id))
		SendInternalError(c, "Error getting product")
		return
	}

	SendSuccess(c, http.StatusOK, service.ProductToResponse(product))
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.catalog.CreateProduct", nil)
	defer span.End()

	params, err := BindParams[request.ProductRequest](c)

	if err != nil {
		SendValidationError(c, err)
		return
	}

	product := domain.Product{
		Name:        params.Name,
		Description: params.Description,
		Quantity:    params.Quantity,
	}

	if params.Price != nil {
		price, err := decimal.NewFromString(*params.Price)

		if err != nil {
			SendBadRequestError(c, "price", "Price is not a number")
			return
		}

		product.Price = decimal.NewNullDecimal(price)
	}

	created, err := h.svc.CreateProduct(ctx, product, params.CategoryID)

	if h.handleWriteError(c, span, err, "Error creating product") {
		return
	}

	AddHTTPStatus(span, http.StatusCreated)
	SendSuccess(c, http.StatusCreated, service.ProductToResponse(created))
}

// handleWriteError renders violations as 422 and anything else as 500.
// It reports whether a response was written.
func (h *CatalogHandler) handleWriteError(c *gin.Context, span trace.Span, err error, message string) bool {
	if err == nil {
		return false
	}

	var violations domain.Violations

	if errors.As(err, &violations) {
		SendViolations(c, violations)
		return true
	}

	AddSpanError(span, err)
	h.Logger.ErrorWithTrace(c.Request.Context(), message, zap.Error(err))
	SendInternalError(c, message)

	return true
}
