package handler

import (
	"net/http"

	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/service"

	"github.com/labstack/echo/v4"
)

func userIDFromContext(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return userID, nil
}

type OrderHandler struct {
	checkoutService  service.CheckoutService
	orderService     service.OrderService
	reconcileService service.ReconcileService
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService, reconcileService service.ReconcileService) *OrderHandler {
	return &OrderHandler{
		checkoutService:  checkoutService,
		orderService:     orderService,
		reconcileService: reconcileService,
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.checkoutService.CreateOrderCheckout(ctx, userID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.OK(result))
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(ctx, userID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(order))
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListOrders(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(orders))
}

// VerifySession is the synchronous twin of the webhook: the client polls it
// after the redirect instead of waiting for the async delivery.
func (h *OrderHandler) VerifySession(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session_id")
	}

	if err := h.reconcileService.VerifySession(ctx, sessionID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(map[string]bool{"verified": true}))
}

func (h *OrderHandler) MarkDelivered(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.MarkDelivered(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(nil))
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.Cancel(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(nil))
}
