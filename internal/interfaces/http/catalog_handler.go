package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/application/usecase"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

const (
	apiMessage = "Cozy Home Craft API"
	apiVersion = "1.0.0"

	healthTimeout = 3 * time.Second
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogHandler public read-only catalog.
type CatalogHandler struct {
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	brands     *usecase.BrandUseCase
	db         Pinger
}

// NewCatalogHandler builds the handler.
func NewCatalogHandler(products *usecase.ProductUseCase, categories *usecase.CategoryUseCase, brands *usecase.BrandUseCase, db Pinger) *CatalogHandler {
	return &CatalogHandler{products: products, categories: categories, brands: brands, db: db}
}

// Root godoc
// @Summary  API banner
// @Tags     catalog
// @Produce  json
// @Success  200  {object}  dto.InfoResponse
// @Router   / [get]
func (h *CatalogHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.InfoResponse{Message: apiMessage, Version: apiVersion})
}

// Health godoc
// @Summary  Database health
// @Tags     catalog
// @Produce  json
// @Success  200  {object}  dto.HealthResponse
// @Failure  503  {object}  dto.HealthResponse
// @Router   /api/health [get]
func (h *CatalogHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unhealthy", Database: "disconnected", Error: err.Error()})
	}
	return c.JSON(dto.HealthResponse{Status: "healthy", Database: "connected"})
}

// ListProducts godoc
// @Summary  List active products
// @Tags     catalog
// @Produce  json
// @Param    category  query  string  false  "Category name fragment"
// @Param    brand     query  string  false  "Brand name fragment"
// @Param    search    query  string  false  "Free text"
// @Param    limit     query  int     false  "1..100"  default(50)
// @Param    offset    query  int     false  "Offset"  default(0)
// @Success  200  {object}  dto.ProductListResponse
// @Failure  400  {object}  dto.ErrorResponse
// @Router   /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", usecase.DefaultProductLimit)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION", "limit must be an integer")
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION", "offset must be an integer")
	}
	out, err := h.products.List(c.UserContext(), repository.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}

// GetProduct godoc
// @Summary  Active product by id
// @Tags     catalog
// @Produce  json
// @Param    id  path  string  true  "Product id"
// @Success  200  {object}  dto.ProductResponse
// @Failure  404  {object}  dto.ErrorResponse
// @Router   /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondUseCaseError(c, err)
	}
	if out == nil {
		return respondError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
	}
	return c.JSON(out)
}

// ListCategories godoc
// @Summary  Categories with active product counts
// @Tags     catalog
// @Produce  json
// @Success  200  {array}  dto.CategoryResponse
// @Router   /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.categories.List(c.UserContext())
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}

// ListBrands godoc
// @Summary  Brands with active product counts
// @Tags     catalog
// @Produce  json
// @Success  200  {array}  dto.BrandResponse
// @Router   /api/brands [get]
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	out, err := h.brands.List(c.UserContext())
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary  Ranked product search
// @Tags     catalog
// @Produce  json
// @Param    q      query  string  true   "Query"
// @Param    limit  query  int     false  "1..50"  default(20)
// @Success  200  {object}  dto.SearchResponse
// @Failure  400  {object}  dto.ErrorResponse
// @Router   /api/search [get]
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", usecase.DefaultSearchLimit)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION", "limit must be an integer")
	}
	out, err := h.products.Search(c.UserContext(), c.Query("q"), limit)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}
