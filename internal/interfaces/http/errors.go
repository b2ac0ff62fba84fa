package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/application/usecase"
	"github.com/cozyren/catalog-api/internal/domain"
)

func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// respondUseCaseError maps domain and use case errors to HTTP responses.
func respondUseCaseError(c *fiber.Ctx, err error) error {
	var inUse *usecase.InUseError
	switch {
	case errors.As(err, &inUse):
		return respondError(c, fiber.StatusBadRequest, "IN_USE", inUse.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return respondError(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, domain.ErrDuplicate):
		return respondError(c, fiber.StatusConflict, "DUPLICATE", "a resource with this name already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		return respondError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	}
	log.Error().Err(err).Str("path", c.Path()).Str("request_id", requestID(c)).Msg("request failed")
	return respondError(c, fiber.StatusInternalServerError, "INTERNAL", "internal server error")
}

// queryInt parses an optional integer query parameter; absent means def.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return n, nil
}
