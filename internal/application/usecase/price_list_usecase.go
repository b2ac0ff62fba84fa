package usecase

import (
	"context"
	"time"

	"github.com/cozyren/catalog-api/internal/domain/repository"
)

// PriceListUseCase exports active products as a rendered price list.
type PriceListUseCase struct {
	products repository.ProductRepository
	renderer PriceListRenderer
	now      func() time.Time
}

// NewPriceListUseCase builds the use case.
func NewPriceListUseCase(products repository.ProductRepository, renderer PriceListRenderer) *PriceListUseCase {
	return &PriceListUseCase{products: products, renderer: renderer, now: time.Now}
}

// Export renders every active product, grouped by category.
func (uc *PriceListUseCase) Export(ctx context.Context) ([]byte, error) {
	products, err := uc.products.ListForPriceList(ctx)
	if err != nil {
		return nil, err
	}
	return uc.renderer.Render(ctx, products, uc.now())
}
