package handler

import (
	"net/http"

	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type ProviderHandler struct {
	providerService service.ProviderService
	checkoutService service.CheckoutService
}

func NewProviderHandler(providerService service.ProviderService, checkoutService service.CheckoutService) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		checkoutService: checkoutService,
	}
}

func providerIDFromHeader(c echo.Context) (string, error) {
	providerID := c.Request().Header.Get("X-Provider-Id")
	if providerID == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing X-Provider-Id header")
	}
	return providerID, nil
}

func (h *ProviderHandler) CreateQuote(c echo.Context) error {
	ctx := c.Request().Context()

	providerID, err := providerIDFromHeader(c)
	if err != nil {
		return err
	}

	var req dto.CreateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	quote, err := h.providerService.CreateQuote(ctx, providerID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.OK(quote))
}

func (h *ProviderHandler) ListQuotes(c echo.Context) error {
	ctx := c.Request().Context()

	providerID, err := providerIDFromHeader(c)
	if err != nil {
		return err
	}

	quotes, err := h.providerService.ListQuotes(ctx, providerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(quotes))
}

func (h *ProviderHandler) MarkQuoteBooked(c echo.Context) error {
	ctx := c.Request().Context()

	providerID, err := providerIDFromHeader(c)
	if err != nil {
		return err
	}

	if err := h.providerService.MarkQuoteBooked(ctx, providerID, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(nil))
}

// PayQuote creates the checkout session the client uses to pay a provider's
// quote.
func (h *ProviderHandler) PayQuote(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	result, err := h.checkoutService.CreateQuoteCheckout(ctx, userID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(result))
}

func (h *ProviderHandler) GetBalance(c echo.Context) error {
	ctx := c.Request().Context()

	accountID := c.QueryParam("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing account_id")
	}

	balance, err := h.providerService.GetBalance(ctx, accountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(balance))
}

func (h *ProviderHandler) CreateLoginLink(c echo.Context) error {
	ctx := c.Request().Context()

	accountID := c.QueryParam("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing account_id")
	}

	url, err := h.providerService.CreateLoginLink(ctx, accountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OK(&dto.LoginLinkResponse{URL: url}))
}
