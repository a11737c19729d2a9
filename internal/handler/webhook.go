package handler

import (
	"io"
	"net/http"

	"partyhub-backend/internal/config"
	"partyhub-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// WebhookHandler exposes the four inbound notification endpoints. Each is
// keyed to its own shared secret; the raw request body must reach
// verification untouched, so no binding or middleware parses it first.
type WebhookHandler struct {
	reconcileService service.ReconcileService
	secrets          config.Stripe
}

func NewWebhookHandler(reconcileService service.ReconcileService, secrets config.Stripe) *WebhookHandler {
	return &WebhookHandler{
		reconcileService: reconcileService,
		secrets:          secrets,
	}
}

func (h *WebhookHandler) OrdersWebhook(c echo.Context) error {
	return h.handle(c, h.secrets.OrderWebhookSecret)
}

func (h *WebhookHandler) CustomOrdersWebhook(c echo.Context) error {
	return h.handle(c, h.secrets.CustomOrderWebhookSecret)
}

func (h *WebhookHandler) SubscriptionWebhook(c echo.Context) error {
	return h.handle(c, h.secrets.SubscriptionWebhookSecret)
}

func (h *WebhookHandler) ProviderPaymentWebhook(c echo.Context) error {
	return h.handle(c, h.secrets.ProviderWebhookSecret)
}

func (h *WebhookHandler) handle(c echo.Context, secret string) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read webhook body")
	}

	event, err := service.VerifyEvent(body, c.Request().Header.Get("Stripe-Signature"), secret)
	if err != nil {
		return err
	}

	// Any failure from here must produce a non-2xx so the provider retries.
	if err := h.reconcileService.HandleEvent(ctx, event); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
