package repository

import (
	"context"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// ProductFilter public listing filters. Category, Brand and Search are case-insensitive substrings.
type ProductFilter struct {
	Category string
	Brand    string
	Search   string
	Limit    int
	Offset   int
}

// ProductRepository persistence port for Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Deactivate soft-deletes; ErrNotFound when the id does not exist.
	Deactivate(ctx context.Context, id string) error
	// FindForReconcile returns the product a feed record maps to: same non-empty SKU,
	// or same name within the same brand. SKU matches win. Nil when nothing matches.
	FindForReconcile(ctx context.Context, sku, name, brandID string) (*entity.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	CountByBrand(ctx context.Context, brandID string) (int, error)

	ListActive(ctx context.Context, f ProductFilter) ([]*entity.ProductView, int, error)
	GetActiveView(ctx context.Context, id string) (*entity.ProductView, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.ProductView, error)
	// ListForPriceList all active products ordered by category name then product name.
	ListForPriceList(ctx context.Context) ([]*entity.ProductView, error)
}
