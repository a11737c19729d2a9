package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"partyhub-backend/internal/apperr"
	"partyhub-backend/internal/config"
	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/handler"
	"partyhub-backend/internal/middleware"
	"partyhub-backend/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo *echo.Echo
}

type Services struct {
	Checkout  service.CheckoutService
	Order     service.OrderService
	Reconcile service.ReconcileService
	Provider  service.ProviderService
	Plan      service.PlanService
	User      service.UserService
}

func NewServer(cfg *config.Config, svcs Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "error", v.Error)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	orderHandler := handler.NewOrderHandler(svcs.Checkout, svcs.Order, svcs.Reconcile)
	customOrderHandler := handler.NewCustomOrderHandler(svcs.Checkout, svcs.Order)
	subscriptionHandler := handler.NewSubscriptionHandler(svcs.Checkout, svcs.Plan, svcs.User)
	providerHandler := handler.NewProviderHandler(svcs.Provider, svcs.Checkout)
	userHandler := handler.NewUserHandler(svcs.User)
	webhookHandler := handler.NewWebhookHandler(svcs.Reconcile, cfg.Stripe)

	auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret)

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.POST("/users", userHandler.Register)
	api.GET("/plans", subscriptionHandler.ListPlans)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create, auth)
	orders.GET("", orderHandler.List, auth)
	orders.GET("/verify-session", orderHandler.VerifySession)
	orders.GET("/:id", orderHandler.Get, auth)
	orders.POST("/:id/deliver", orderHandler.MarkDelivered)
	orders.POST("/:id/cancel", orderHandler.Cancel)

	// -------- custom orders --------
	customOrders := api.Group("/custom-orders")
	customOrders.POST("", customOrderHandler.Create, auth)
	customOrders.GET("", customOrderHandler.List, auth)

	// -------- subscription --------
	subscription := api.Group("/subscription")
	subscription.GET("", subscriptionHandler.Get, auth)
	subscription.POST("/subscribe/:planID", subscriptionHandler.Subscribe, auth)

	// -------- provider marketplace --------
	provider := api.Group("/provider")
	provider.POST("/quotes", providerHandler.CreateQuote)
	provider.GET("/quotes", providerHandler.ListQuotes)
	provider.POST("/quotes/:id/book", providerHandler.MarkQuoteBooked)
	provider.POST("/quotes/:id/pay", providerHandler.PayQuote, auth)
	provider.GET("/balance", providerHandler.GetBalance)
	provider.POST("/login-link", providerHandler.CreateLoginLink)

	// -------- webhooks: raw body, one secret each --------
	orders.POST("/webhook", webhookHandler.OrdersWebhook)
	customOrders.POST("/webhook", webhookHandler.CustomOrdersWebhook)
	subscription.POST("/webhook", webhookHandler.SubscriptionWebhook)
	provider.POST("/payment/webhook", webhookHandler.ProviderPaymentWebhook)

	return &Server{echo: e}
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, dto.Fail(fmt.Sprintf("%v", httpErr.Message)))
		return
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		_ = c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
	case apperr.KindNotFound:
		_ = c.JSON(http.StatusNotFound, dto.Fail(err.Error()))
	case apperr.KindAuth:
		_ = c.JSON(http.StatusUnauthorized, dto.Fail(err.Error()))
	default:
		// Provider-specific detail stays in the logs, not the response.
		slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		_ = c.JSON(http.StatusInternalServerError, dto.Fail("internal server error"))
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
