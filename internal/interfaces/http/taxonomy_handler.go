package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/application/usecase"
)

// TaxonomyHandler admin CRUD for categories and brands.
type TaxonomyHandler struct {
	categories *usecase.CategoryUseCase
	brands     *usecase.BrandUseCase
}

// NewTaxonomyHandler builds the handler.
func NewTaxonomyHandler(categories *usecase.CategoryUseCase, brands *usecase.BrandUseCase) *TaxonomyHandler {
	return &TaxonomyHandler{categories: categories, brands: brands}
}

// CreateCategory godoc
// @Summary      Create category
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Category"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/categories [post]
func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	out, err := h.categories.Create(c.UserContext(), in)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Update category
// @Tags         admin
// @Security     Bearer
// @Router       /api/admin/categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	out, err := h.categories.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	if out == nil {
		return respondError(c, fiber.StatusNotFound, "NOT_FOUND", "category not found")
	}
	return c.JSON(out)
}

// DeleteCategory godoc
// @Summary      Delete unused category
// @Tags         admin
// @Security     Bearer
// @Failure      400  {object}  dto.ErrorResponse  "IN_USE"
// @Router       /api/admin/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categories.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Category deleted successfully"})
}

// CreateBrand godoc
// @Summary      Create brand
// @Tags         admin
// @Security     Bearer
// @Router       /api/admin/brands [post]
func (h *TaxonomyHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	out, err := h.brands.Create(c.UserContext(), in)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateBrand godoc
// @Summary      Update brand
// @Tags         admin
// @Security     Bearer
// @Router       /api/admin/brands/{id} [put]
func (h *TaxonomyHandler) UpdateBrand(c *fiber.Ctx) error {
	var in dto.UpdateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	out, err := h.brands.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	if out == nil {
		return respondError(c, fiber.StatusNotFound, "NOT_FOUND", "brand not found")
	}
	return c.JSON(out)
}

// DeleteBrand godoc
// @Summary      Delete unused brand
// @Tags         admin
// @Security     Bearer
// @Router       /api/admin/brands/{id} [delete]
func (h *TaxonomyHandler) DeleteBrand(c *fiber.Ctx) error {
	if err := h.brands.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Brand deleted successfully"})
}
