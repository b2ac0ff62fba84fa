package http

import (
	"bytes"
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/cozyren/catalog-api/internal/application/dto"
	"github.com/cozyren/catalog-api/internal/application/ingest"
	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// HeaderWebhookToken carries the shared webhook secret.
const HeaderWebhookToken = "X-Webhook-Token"

// Ingester runs one ingestion batch; *ingest.Orchestrator implements it.
type Ingester interface {
	Ingest(ctx context.Context, req ingest.Request) (*ingest.Result, error)
}

// PayloadArchiver stores raw bodies and returns the object key.
type PayloadArchiver interface {
	Store(ctx context.Context, syncType, contentType string, body []byte) (string, error)
}

// WebhookHandler price-list ingestion endpoints.
type WebhookHandler struct {
	ingester Ingester
	archive  PayloadArchiver
	token    string
	log      zerolog.Logger
}

// NewWebhookHandler builds the handler. An empty token disables the shared-secret check.
func NewWebhookHandler(ingester Ingester, archive PayloadArchiver, token string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{ingester: ingester, archive: archive, token: token, log: log}
}

// PriceList godoc
// @Summary      1C price list webhook
// @Tags         webhooks
// @Accept       json,xml,plain
// @Produce      json
// @Success      200  {object}  dto.IngestResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /webhook/price-list [post]
func (h *WebhookHandler) PriceList(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return respondError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid webhook token")
	}
	return h.ingest(c, entity.SyncTypePriceList1C)
}

// OneC godoc
// @Summary      Generic 1C data webhook
// @Tags         webhooks
// @Router       /webhook/1c [post]
func (h *WebhookHandler) OneC(c *fiber.Ctx) error {
	if !h.authorized(c) {
		return respondError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid webhook token")
	}
	return h.ingest(c, entity.SyncType1CWebhook)
}

// ManualPriceList godoc
// @Summary      Admin price list upload
// @Tags         admin
// @Security     Bearer
// @Router       /admin/sync/price-list [post]
func (h *WebhookHandler) ManualPriceList(c *fiber.Ctx) error {
	return h.ingest(c, entity.SyncTypePriceListManual)
}

func (h *WebhookHandler) authorized(c *fiber.Ctx) bool {
	if h.token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(c.Get(HeaderWebhookToken)), []byte(h.token)) == 1
}

func (h *WebhookHandler) ingest(c *fiber.Ctx, syncType string) error {
	// fasthttp reuses the request buffer once the handler returns
	body := bytes.Clone(c.Body())
	contentType := string(c.Request().Header.ContentType())

	payload, err := ingest.DetectBody(contentType, body)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", err.Error())
	}

	ctx := c.UserContext()
	key, err := h.archive.Store(ctx, syncType, contentType, body)
	if err != nil {
		h.log.Warn().Err(err).Str("sync_type", syncType).Msg("payload archive failed")
		key = ""
	}

	res, err := h.ingester.Ingest(ctx, ingest.Request{Payload: payload, SyncType: syncType, ArchiveKey: key})
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INGEST_FAILED", err.Error())
	}
	return c.JSON(dto.IngestResponse{
		Status:  "success",
		Message: fmt.Sprintf("Обработано %d товаров", res.Processed),
		Created: res.Created,
		Updated: res.Updated,
		Errors:  res.Errors,
	})
}
