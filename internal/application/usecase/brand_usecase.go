package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

// BrandUseCase brand listing (cached) and admin CRUD.
type BrandUseCase struct {
	brands   repository.BrandRepository
	products repository.ProductRepository
	cache    ListingCache
}

// NewBrandUseCase builds the use case. cache may be nil.
func NewBrandUseCase(brands repository.BrandRepository, products repository.ProductRepository, cache ListingCache) *BrandUseCase {
	return &BrandUseCase{brands: brands, products: products, cache: cacheOrNop(cache)}
}

// List every brand with its active product count, ordered by name.
func (uc *BrandUseCase) List(ctx context.Context) ([]dto.BrandResponse, error) {
	return cachedListing(ctx, uc.cache, CacheKeyBrands, func(ctx context.Context) ([]dto.BrandResponse, error) {
		rows, err := uc.brands.ListWithCounts(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.BrandResponse, 0, len(rows))
		for _, r := range rows {
			count := r.ProductsCount
			resp := toBrandResponse(&r.Brand)
			resp.ProductsCount = &count
			out = append(out, resp)
		}
		return out, nil
	})
}

// Create a brand. ErrDuplicate when the name is taken.
func (uc *BrandUseCase) Create(ctx context.Context, in dto.CreateBrandRequest) (*dto.BrandResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	now := time.Now().UTC()
	b := &entity.Brand{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		LogoURL:     in.LogoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	invalidateListings(ctx, uc.cache)
	resp := toBrandResponse(b)
	return &resp, nil
}

// Update a brand; nil when it does not exist.
func (uc *BrandUseCase) Update(ctx context.Context, id string, in dto.UpdateBrandRequest) (*dto.BrandResponse, error) {
	b, err := uc.brands.GetByID(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		b.Name = name
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.LogoURL != nil {
		b.LogoURL = *in.LogoURL
	}
	b.UpdatedAt = time.Now().UTC()
	if err := uc.brands.Update(ctx, b); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	invalidateListings(ctx, uc.cache)
	resp := toBrandResponse(b)
	return &resp, nil
}

// Delete a brand nothing references. *InUseError otherwise.
func (uc *BrandUseCase) Delete(ctx context.Context, id string) error {
	guard := referenceGuard{
		kind: "brand",
		exists: func(ctx context.Context, id string) (bool, error) {
			b, err := uc.brands.GetByID(ctx, id)
			return b != nil, err
		},
		count:  uc.products.CountByBrand,
		remove: uc.brands.Delete,
	}
	if err := guard.delete(ctx, id); err != nil {
		return err
	}
	invalidateListings(ctx, uc.cache)
	return nil
}

func toBrandResponse(b *entity.Brand) dto.BrandResponse {
	return dto.BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		CreatedAt:   b.CreatedAt,
	}
}
