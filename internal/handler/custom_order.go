package handler

import (
	"net/http"

	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CustomOrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewCustomOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService) *CustomOrderHandler {
	return &CustomOrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

func (h *CustomOrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateCustomOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.checkoutService.CreateCustomOrderCheckout(ctx, userID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.OK(result))
}

func (h *CustomOrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListCustomOrders(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(orders))
}
