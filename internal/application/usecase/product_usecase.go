package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

// Listing and search limits.
const (
	DefaultProductLimit = 50
	MaxProductLimit     = 100
	DefaultSearchLimit  = 20
	MaxSearchLimit      = 50
)

// ProductUseCase public catalog reads and admin product CRUD.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	brands     repository.BrandRepository
	cache      ListingCache
}

// NewProductUseCase builds the use case. cache may be nil.
func NewProductUseCase(products repository.ProductRepository, categories repository.CategoryRepository, brands repository.BrandRepository, cache ListingCache) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories, brands: brands, cache: cacheOrNop(cache)}
}

// List active products, newest first.
func (uc *ProductUseCase) List(ctx context.Context, f repository.ProductFilter) (*dto.ProductListResponse, error) {
	if f.Limit < 1 || f.Limit > MaxProductLimit {
		return nil, invalid("limit must be between 1 and 100")
	}
	if f.Offset < 0 {
		return nil, invalid("offset must not be negative")
	}
	views, total, err := uc.products.ListActive(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Products: toProductResponses(views),
		Pagination: dto.PaginationResponse{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: f.Offset+len(views) < total,
		},
	}, nil
}

// Get an active product; nil when missing or inactive.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	v, err := uc.products.GetActiveView(ctx, id)
	if err != nil || v == nil {
		return nil, err
	}
	resp := toProductViewResponse(v)
	return &resp, nil
}

// Search ranks active products: exact name, name prefix, name substring, then the rest.
func (uc *ProductUseCase) Search(ctx context.Context, q string, limit int) (*dto.SearchResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("query parameter q is required")
	}
	if limit < 1 || limit > MaxSearchLimit {
		return nil, invalid("limit must be between 1 and 50")
	}
	views, err := uc.products.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	results := toProductResponses(views)
	return &dto.SearchResponse{Query: q, Results: results, Count: len(results)}, nil
}

// Create an admin product. Unknown category or brand ids are ErrInvalidInput.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if in.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}
	if in.StockQuantity < 0 {
		return nil, invalid("stock_quantity must not be negative")
	}
	specs, err := specificationsOf(in.Specifications)
	if err != nil {
		return nil, err
	}
	category, err := uc.lookupCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	brand, err := uc.lookupBrand(ctx, in.BrandID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    in.Description,
		Price:          in.Price.Round(2),
		CategoryID:     idOf(in.CategoryID),
		BrandID:        idOf(in.BrandID),
		SKU:            strings.TrimSpace(in.SKU),
		StockQuantity:  in.StockQuantity,
		Specifications: specs,
		ImageURL:       in.ImageURL,
		IsActive:       in.IsActive == nil || *in.IsActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	invalidateListings(ctx, uc.cache)
	return toAdminProductResponse(product, category, brand), nil
}

// Update applies the non-nil fields; nil when the product does not exist.
// An empty category_id or brand_id clears the reference.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, invalid("price must not be negative")
		}
		product.Price = in.Price.Round(2)
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, invalid("stock_quantity must not be negative")
		}
		product.StockQuantity = *in.StockQuantity
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if len(in.Specifications) > 0 {
		specs, err := specificationsOf(in.Specifications)
		if err != nil {
			return nil, err
		}
		product.Specifications = specs
	}
	if in.CategoryID != nil {
		product.CategoryID = idOf(in.CategoryID)
	}
	if in.BrandID != nil {
		product.BrandID = idOf(in.BrandID)
	}
	category, err := uc.lookupCategory(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	brand, err := uc.lookupBrand(ctx, product.BrandID)
	if err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now().UTC()
	if err := uc.products.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	invalidateListings(ctx, uc.cache)
	return toAdminProductResponse(product, category, brand), nil
}

// Delete soft-deletes the product. ErrNotFound when it does not exist.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.products.Deactivate(ctx, id); err != nil {
		return err
	}
	invalidateListings(ctx, uc.cache)
	return nil
}

func (uc *ProductUseCase) lookupCategory(ctx context.Context, id *string) (*entity.Category, error) {
	if idOf(id) == nil {
		return nil, nil
	}
	c, err := uc.categories.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, invalid("unknown category_id")
	}
	return c, nil
}

func (uc *ProductUseCase) lookupBrand(ctx context.Context, id *string) (*entity.Brand, error) {
	if idOf(id) == nil {
		return nil, nil
	}
	b, err := uc.brands.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, invalid("unknown brand_id")
	}
	return b, nil
}

// idOf nil for absent or blank ids.
func idOf(id *string) *string {
	if id == nil {
		return nil
	}
	s := strings.TrimSpace(*id)
	if s == "" {
		return nil
	}
	return &s
}

func specificationsOf(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return nil, invalid("specifications must be a JSON object")
	}
	return json.RawMessage(trimmed), nil
}

func toProductResponses(views []*entity.ProductView) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toProductViewResponse(v))
	}
	return out
}

func toProductViewResponse(v *entity.ProductView) dto.ProductResponse {
	resp := toProductResponse(&v.Product)
	resp.CategoryName = v.CategoryName
	resp.CategoryDescription = v.CategoryDescription
	resp.BrandName = v.BrandName
	resp.BrandDescription = v.BrandDescription
	resp.BrandLogo = v.BrandLogo
	return resp
}

func toAdminProductResponse(p *entity.Product, c *entity.Category, b *entity.Brand) *dto.ProductResponse {
	resp := toProductResponse(p)
	active := p.IsActive
	resp.IsActive = &active
	if c != nil {
		resp.CategoryName = &c.Name
		resp.CategoryDescription = &c.Description
	}
	if b != nil {
		resp.BrandName = &b.Name
		resp.BrandDescription = &b.Description
		resp.BrandLogo = &b.LogoURL
	}
	return &resp
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	specs := p.Specifications
	if len(specs) == 0 {
		specs = json.RawMessage(`{}`)
	}
	return dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		SKU:            p.SKU,
		StockQuantity:  p.StockQuantity,
		Specifications: specs,
		ImageURL:       p.ImageURL,
		CategoryID:     p.CategoryID,
		BrandID:        p.BrandID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
