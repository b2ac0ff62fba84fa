package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/application/usecase"
)

// SyncHandler admin sync bookkeeping and price list export.
type SyncHandler struct {
	sync      *usecase.SyncUseCase
	priceList *usecase.PriceListUseCase
}

// NewSyncHandler builds the handler. priceList may be nil, which disables the PDF route.
func NewSyncHandler(sync *usecase.SyncUseCase, priceList *usecase.PriceListUseCase) *SyncHandler {
	return &SyncHandler{sync: sync, priceList: priceList}
}

// Trigger1C godoc
// @Summary      Record a 1C synchronisation
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.Sync1CRequest  false  "Requested sync time"
// @Success      200   {object}  dto.Sync1CResponse
// @Router       /api/admin/sync-1c [post]
func (h *SyncHandler) Trigger1C(c *fiber.Ctx) error {
	var in dto.Sync1CRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
	}
	out, err := h.sync.Trigger1C(c.UserContext(), in)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Last 1C synchronisation
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/admin/sync-status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	out, err := h.sync.Status(c.UserContext())
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}

// Log godoc
// @Summary      Sync audit log
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        type   query  string  false  "Sync type"
// @Param        limit  query  int     false  "1..100"  default(20)
// @Success      200  {object}  dto.SyncLogResponse
// @Router       /api/admin/sync-log [get]
func (h *SyncHandler) Log(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", usecase.DefaultSyncLogLimit)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "VALIDATION", "limit must be an integer")
	}
	out, err := h.sync.Log(c.UserContext(), c.Query("type"), limit)
	if err != nil {
		return respondUseCaseError(c, err)
	}
	return c.JSON(out)
}

// PriceListPDF godoc
// @Summary      Price list of active products
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/admin/price-list.pdf [get]
func (h *SyncHandler) PriceListPDF(c *fiber.Ctx) error {
	if h.priceList == nil {
		return respondError(c, fiber.StatusNotImplemented, "NOT_CONFIGURED", "price list export is disabled")
	}
	pdf, err := h.priceList.Export(c.UserContext())
	if err != nil {
		return respondUseCaseError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, "price-list.pdf"))
	return c.Send(pdf)
}
