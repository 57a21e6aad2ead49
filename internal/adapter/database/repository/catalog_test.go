package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"storefront/internal/adapter/database"
	"storefront/internal/adapter/database/repository"
	"storefront/internal/core/domain"
	"storefront/internal/core/port"
	"storefront/internal/core/telemetry"
	"storefront/internal/core/util"
	. "storefront/pkg/test"
	"storefront/pkg/test/factory"
)

type CatalogRepositoryTestSuite struct {
	suite.Suite
	db         *database.DB
	categories port.CategoryRepository
	products   port.ProductRepository
	cursors    *util.CursorCodec
}

func (s *CatalogRepositoryTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.cursors = util.NewCursorCodec("test-secret")
	s.categories = repository.NewCategoryRepository(s.db, telemetry.NewNoOpProbe())
	s.products = repository.NewProductRepository(s.db, s.cursors, telemetry.NewNoOpProbe())
}

func (s *CatalogRepositoryTestSuite) TearDownTest() {
	s.db.Close()
}

func TestCatalogRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(CatalogRepositoryTestSuite))
}

func (s *CatalogRepositoryTestSuite) createCategory(name string) domain.Category {
	category, err := s.categories.Create(context.Background(), factory.NewCategory(map[string]any{"Name": name}))
	require.NoError(s.T(), err)

	return category
}

func (s *CatalogRepositoryTestSuite) createProduct(name string, category domain.Category, createdAt time.Time) domain.Product {
	quantity := 3

	product, err := s.products.Create(context.Background(), domain.Product{
		UUID:       uuid.New(),
		Name:       name,
		Price:      decimal.NewNullDecimal(decimal.RequireFromString("19.90")),
		Quantity:   &quantity,
		CategoryID: category.ID,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
	require.NoError(s.T(), err)

	return product
}

func (s *CatalogRepositoryTestSuite) TestRepository_Categories_CreateAndList() {
	s.createCategory("Shoes")
	s.createCategory("Books")

	categories, err := s.categories.GetAll(context.Background())

	Expect(err).ToNot(HaveOccurred())
	Expect(categories).To(HaveLen(2))
	Expect(categories[0].Name).To(Equal("Books"))
	Expect(categories[1].Name).To(Equal("Shoes"))
}

func (s *CatalogRepositoryTestSuite) TestRepository_Category_GetByUUID() {
	category := s.createCategory("Shoes")

	found, err := s.categories.GetByUUID(context.Background(), category.UUID.String())
	Expect(err).ToNot(HaveOccurred())
	Expect(found.ID).To(Equal(category.ID))

	_, err = s.categories.GetByUUID(context.Background(), uuid.NewString())
	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *CatalogRepositoryTestSuite) TestRepository_Product_CreateAndGet() {
	category := s.createCategory("Shoes")
	created := s.createProduct("Sneaker", category, time.Now().UTC())

	found, err := s.products.GetByUUID(context.Background(), created.UUID.String())

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Sneaker", found.Name)
	assert.True(s.T(), found.Price.Valid)
	assert.Equal(s.T(), "19.90", found.Price.Decimal.StringFixed(2))
	assert.Equal(s.T(), 3, *found.Quantity)
	require.NotNil(s.T(), found.Category)
	assert.Equal(s.T(), "Shoes", found.Category.Name)
}

func (s *CatalogRepositoryTestSuite) TestRepository_Product_UnknownCategoryRejected() {
	quantity := 1

	_, err := s.products.Create(context.Background(), domain.Product{
		UUID:       uuid.New(),
		Name:       "Orphan",
		Price:      decimal.NewNullDecimal(decimal.NewFromInt(1)),
		Quantity:   &quantity,
		CategoryID: 999,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	})

	violations, ok := err.(domain.Violations)
	Expect(ok).To(BeTrue())
	Expect(violations.Has(domain.BlankField, "category")).To(BeTrue())
}

func (s *CatalogRepositoryTestSuite) TestRepository_Product_GetByUUID_NotFound() {
	_, err := s.products.GetByUUID(context.Background(), uuid.NewString())

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *CatalogRepositoryTestSuite) TestRepository_Products_CursorPagination() {
	category := s.createCategory("Shoes")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s.createProduct("Product "+string(rune('A'+i)), category, base.Add(time.Duration(i)*time.Minute))
	}

	ctx := context.Background()

	page, hasNext, err := s.products.GetAllWithCursor(ctx, 2, "")
	Expect(err).ToNot(HaveOccurred())
	Expect(hasNext).To(BeTrue())
	Expect(page).To(HaveLen(2))
	Expect(page[0].Name).To(Equal("Product E"))
	Expect(page[1].Name).To(Equal("Product D"))

	last := page[len(page)-1]
	cursor := s.cursors.Encode(last.CreatedAt.Format(time.RFC3339Nano), last.ID)

	page, hasNext, err = s.products.GetAllWithCursor(ctx, 2, cursor)
	Expect(err).ToNot(HaveOccurred())
	Expect(hasNext).To(BeTrue())
	Expect(page[0].Name).To(Equal("Product C"))
	Expect(page[1].Name).To(Equal("Product B"))

	last = page[len(page)-1]
	cursor = s.cursors.Encode(last.CreatedAt.Format(time.RFC3339Nano), last.ID)

	page, hasNext, err = s.products.GetAllWithCursor(ctx, 2, cursor)
	Expect(err).ToNot(HaveOccurred())
	Expect(hasNext).To(BeFalse())
	Expect(page).To(HaveLen(1))
	Expect(page[0].Name).To(Equal("Product A"))
}

func (s *CatalogRepositoryTestSuite) TestRepository_Products_InvalidCursor() {
	_, _, err := s.products.GetAllWithCursor(context.Background(), 2, "garbage")

	Expect(err).To(MatchError(domain.ErrInvalidCursor))

	forged := util.NewCursorCodec("other-secret").Encode(time.Now().UTC().Format(time.RFC3339Nano), 1)
	_, _, err = s.products.GetAllWithCursor(context.Background(), 2, forged)

	Expect(err).To(MatchError(domain.ErrInvalidCursor))
}
