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

// CategoryUseCase category listing (cached) and admin CRUD.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	cache      ListingCache
}

// NewCategoryUseCase builds the use case. cache may be nil.
func NewCategoryUseCase(categories repository.CategoryRepository, products repository.ProductRepository, cache ListingCache) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, products: products, cache: cacheOrNop(cache)}
}

// List every category with its active product count, ordered by name.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	return cachedListing(ctx, uc.cache, CacheKeyCategories, func(ctx context.Context) ([]dto.CategoryResponse, error) {
		rows, err := uc.categories.ListWithCounts(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoryResponse, 0, len(rows))
		for _, r := range rows {
			count := r.ProductsCount
			resp := toCategoryResponse(&r.Category)
			resp.ProductsCount = &count
			out = append(out, resp)
		}
		return out, nil
	})
}

// Create a category. ErrDuplicate when the name is taken (case-insensitive).
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	invalidateListings(ctx, uc.cache)
	resp := toCategoryResponse(c)
	return &resp, nil
}

// Update a category; nil when it does not exist.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.categories.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	invalidateListings(ctx, uc.cache)
	resp := toCategoryResponse(c)
	return &resp, nil
}

// Delete a category nothing references. *InUseError when products (active or not) still use it.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	guard := referenceGuard{
		kind: "category",
		exists: func(ctx context.Context, id string) (bool, error) {
			c, err := uc.categories.GetByID(ctx, id)
			return c != nil, err
		},
		count:  uc.products.CountByCategory,
		remove: uc.categories.Delete,
	}
	if err := guard.delete(ctx, id); err != nil {
		return err
	}
	invalidateListings(ctx, uc.cache)
	return nil
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
