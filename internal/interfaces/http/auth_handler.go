package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cozyren/catalog-api/internal/application/auth"
	"github.com/cozyren/catalog-api/internal/application/dto"
)

// AuthHandler admin login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler builds the handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}
