package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/application/usecase"
	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

type productFixture struct {
	uc         *usecase.ProductUseCase
	products   *fakeProducts
	categories *fakeCategories
	brands     *fakeBrands
	cache      *spyCache
}

func newProductFixture() productFixture {
	f := productFixture{
		products:   newFakeProducts(),
		categories: newFakeCategories(),
		brands:     newFakeBrands(),
		cache:      newSpyCache(),
	}
	f.uc = usecase.NewProductUseCase(f.products, f.categories, f.brands, f.cache)
	return f
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_Defaults(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	f.categories.rows["c1"] = &entity.Category{ID: "c1", Name: "Инструменты"}

	resp, err := f.uc.Create(ctx, dto.CreateProductRequest{
		Name:       "  Молоток  ",
		Price:      decimal.RequireFromString("12.499"),
		CategoryID: strPtr("c1"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Молоток", resp.Name)
	assert.Equal(t, 12.5, resp.Price)
	assert.JSONEq(t, `{}`, string(resp.Specifications))
	require.NotNil(t, resp.IsActive)
	assert.True(t, *resp.IsActive)
	require.NotNil(t, resp.CategoryName)
	assert.Equal(t, "Инструменты", *resp.CategoryName)
	assert.Nil(t, resp.BrandID)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestProductCreate_Validation(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	cases := map[string]dto.CreateProductRequest{
		"missing name":     {Price: decimal.NewFromInt(1)},
		"negative price":   {Name: "x", Price: decimal.NewFromInt(-1)},
		"negative stock":   {Name: "x", StockQuantity: -3},
		"unknown category": {Name: "x", CategoryID: strPtr("nope")},
		"unknown brand":    {Name: "x", BrandID: strPtr("nope")},
		"array specs":      {Name: "x", Specifications: json.RawMessage(`[1,2]`)},
		"malformed specs":  {Name: "x", Specifications: json.RawMessage(`{`)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.products.rows)
}

func TestProductUpdate_Partial(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, dto.CreateProductRequest{
		Name:           "Дрель",
		Description:    "ударная",
		Price:          decimal.NewFromInt(100),
		SKU:            "D-1",
		Specifications: json.RawMessage(`{"power":"800W"}`),
	})
	require.NoError(t, err)

	price := decimal.NewFromInt(90)
	updated, err := f.uc.Update(ctx, created.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, 90.0, updated.Price)
	assert.Equal(t, "Дрель", updated.Name)
	assert.Equal(t, "ударная", updated.Description)
	assert.Equal(t, "D-1", updated.SKU)
	assert.JSONEq(t, `{"power":"800W"}`, string(updated.Specifications))
}

func TestProductUpdate_ClearsCategory(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	f.categories.rows["c1"] = &entity.Category{ID: "c1", Name: "A"}

	created, err := f.uc.Create(ctx, dto.CreateProductRequest{Name: "x", CategoryID: strPtr("c1")})
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, created.ID, dto.UpdateProductRequest{CategoryID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, f.products.rows[created.ID].CategoryID)
}

func TestProductUpdate_NotFound(t *testing.T) {
	f := newProductFixture()
	resp, err := f.uc.Update(context.Background(), "missing", dto.UpdateProductRequest{Name: strPtr("x")})
	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestProductDelete_SoftDeletes(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	created, err := f.uc.Create(ctx, dto.CreateProductRequest{Name: "x"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, created.ID))
	assert.False(t, f.products.rows[created.ID].IsActive)

	got, err := f.uc.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Nil(t, got, "inactive products are hidden from the catalog")

	assert.ErrorIs(t, f.uc.Delete(ctx, "missing"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listing and search
// ──────────────────────────────────────────────────────────────────────────────

func TestProductList_Pagination(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := f.uc.Create(ctx, dto.CreateProductRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := f.uc.List(ctx, repository.ProductFilter{Limit: 2, Category: "tools"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, dto.PaginationResponse{Total: 3, Limit: 2, Offset: 0, HasMore: true}, page.Pagination)
	assert.Equal(t, "tools", f.products.listArgs.Category)

	page, err = f.uc.List(ctx, repository.ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
	assert.False(t, page.Pagination.HasMore)
}

func TestProductList_RejectsBadRange(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	for _, flt := range []repository.ProductFilter{{Limit: 0}, {Limit: 101}, {Limit: 10, Offset: -1}} {
		_, err := f.uc.List(ctx, flt)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestProductSearch(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	for _, name := range []string{"Молоток", "Молоток большой", "Отвертка"} {
		_, err := f.uc.Create(ctx, dto.CreateProductRequest{Name: name})
		require.NoError(t, err)
	}

	res, err := f.uc.Search(ctx, "  молоток ", 20)
	require.NoError(t, err)
	assert.Equal(t, "молоток", res.Query)
	assert.Equal(t, 2, res.Count)

	_, err = f.uc.Search(ctx, "   ", 20)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Search(ctx, "x", 51)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
