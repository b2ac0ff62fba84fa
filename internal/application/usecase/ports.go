package usecase

import (
	"context"
	"time"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// Listing cache keys. The cache implementation drops both on Invalidate.
const (
	CacheKeyCategories = "catalog:listing:categories"
	CacheKeyBrands     = "catalog:listing:brands"
)

// ListingCache caches the category and brand listings as JSON.
type ListingCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// PriceListRenderer renders active products into a document.
type PriceListRenderer interface {
	Render(ctx context.Context, products []*entity.ProductView, generatedAt time.Time) ([]byte, error)
}

type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, any) error         { return nil }
func (noCache) Invalidate(context.Context) error               { return nil }

func cacheOrNop(c ListingCache) ListingCache {
	if c == nil {
		return noCache{}
	}
	return c
}
