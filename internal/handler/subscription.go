package handler

import (
	"net/http"

	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type SubscriptionHandler struct {
	checkoutService service.CheckoutService
	planService     service.PlanService
	userService     service.UserService
}

func NewSubscriptionHandler(checkoutService service.CheckoutService, planService service.PlanService, userService service.UserService) *SubscriptionHandler {
	return &SubscriptionHandler{
		checkoutService: checkoutService,
		planService:     planService,
		userService:     userService,
	}
}

func (h *SubscriptionHandler) ListPlans(c echo.Context) error {
	ctx := c.Request().Context()

	plans, err := h.planService.ListPlans(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(plans))
}

func (h *SubscriptionHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	sub, err := h.userService.GetSubscription(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(sub))
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	planID := c.Param("planID")
	result, err := h.checkoutService.CreateSubscriptionCheckout(ctx, userID, planID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(result))
}
