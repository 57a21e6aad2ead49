package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int
	UUID      uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          int
	UUID        uuid.UUID
	Name        string
	Description string
	Price       decimal.NullDecimal
	Quantity    *int
	CategoryID  int
	Category    *Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasCategory reports whether the product references a category, either
// loaded or by id.
func (p *Product) HasCategory() bool {
	return p.Category != nil || p.CategoryID > 0
}

func (p *Product) InStock() bool {
	return p.Quantity != nil && *p.Quantity > 0
}

// ValidateProduct checks the required fields independently; a product
// missing everything yields one violation per field.
func ValidateProduct(p Product) Violations {
	var violations Violations

	if strings.TrimSpace(p.Name) == "" {
		violations = append(violations, Blank("name"))
	}

	if !p.Price.Valid {
		violations = append(violations, Blank("price"))
	}

	if p.Quantity == nil {
		violations = append(violations, Blank("quantity"))
	}

	if !p.HasCategory() {
		violations = append(violations, Blank("category"))
	}

	return violations
}

func ValidateCategory(c Category) Violations {
	var violations Violations

	if strings.TrimSpace(c.Name) == "" {
		violations = append(violations, Blank("name"))
	}

	return violations
}
