package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"partyhub-backend/internal/apperr"
	"partyhub-backend/internal/client"
	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/model"
	"partyhub-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CheckoutService interface {
	CreateOrderCheckout(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CheckoutResponse, error)
	CreateCustomOrderCheckout(ctx context.Context, userID string, req *dto.CreateCustomOrderRequest) (*dto.CheckoutResponse, error)
	CreateQuoteCheckout(ctx context.Context, userID, quoteID string) (*dto.CheckoutResponse, error)
	CreateSubscriptionCheckout(ctx context.Context, userID, planID string) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	db              *gorm.DB
	stripeClient    client.StripeClient
	productRepo     repository.ProductRepository
	orderRepo       repository.OrderRepository
	customOrderRepo repository.CustomOrderRepository
	quoteRepo       repository.QuoteRepository
	planRepo        repository.PlanRepository
}

func NewCheckoutService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	customOrderRepo repository.CustomOrderRepository,
	quoteRepo repository.QuoteRepository,
	planRepo repository.PlanRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		db:              db,
		stripeClient:    stripeClient,
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		customOrderRepo: customOrderRepo,
		quoteRepo:       quoteRepo,
		planRepo:        planRepo,
	}
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrderCheckout validates the requested items, persists the PENDING
// order before any external call, then asks Stripe for a session carrying the
// pre-computed total. A session failure after commit leaves the row PENDING
// with no external reference: harmless, and the error is surfaced.
func (s *checkoutServiceImpl) CreateOrderCheckout(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validationf("order must contain at least one item")
	}

	// Duplicate lines for the same sku merge into one item.
	productIDs := make([]string, 0, len(req.Items))
	quantityBySku := make(map[string]int32)
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, apperr.Validationf("item quantity must be positive")
		}
		if _, seen := quantityBySku[item.Sku]; !seen {
			productIDs = append(productIDs, item.Sku)
		}
		quantityBySku[item.Sku] += item.Quantity
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	if len(products) != len(productIDs) {
		return nil, apperr.Validationf("some products not found")
	}

	orderID := uuid.NewString()
	total := decimal.Zero
	currency := "USD"
	orderItems := make([]*model.OrderItem, len(products))
	for i, product := range products {
		quantity := quantityBySku[product.ID]
		total = total.Add(product.Price.Mul(decimal.NewFromInt32(quantity)))
		currency = product.Currency

		orderItems[i] = &model.OrderItem{
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Currency:  product.Currency,
		}
	}
	if !total.IsPositive() {
		return nil, apperr.Validationf("order total must be positive")
	}

	order := &model.Order{
		ID:       orderID,
		UserID:   userID,
		Status:   model.StatusPending,
		Total:    total,
		Currency: currency,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if err := s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionInput{
		Kind:        string(PayableOrder),
		DomainID:    orderID,
		UserID:      userID,
		Description: fmt.Sprintf("Party order %s", orderID),
		Amount:      toMinorUnits(total),
		Currency:    currency,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.orderRepo.SetCheckoutSession(ctx, orderID, result.SessionID); err != nil {
		slog.Warn("store checkout session id", "order_id", orderID, "error", err)
	}

	return &dto.CheckoutResponse{
		Order:       order,
		CheckoutURL: result.CheckoutURL,
	}, nil
}

func (s *checkoutServiceImpl) CreateCustomOrderCheckout(ctx context.Context, userID string, req *dto.CreateCustomOrderRequest) (*dto.CheckoutResponse, error) {
	if req.GarmentType == "" || req.GarmentSize == "" || req.Color == "" {
		return nil, apperr.Validationf("garment type, size and color are required")
	}
	if req.DesignURL == "" {
		return nil, apperr.Validationf("design url is required")
	}
	if req.RecipientName == "" || req.AddressLine1 == "" || req.City == "" || req.PostCode == "" || req.Country == "" {
		return nil, apperr.Validationf("full recipient address is required")
	}
	if !req.Total.IsPositive() {
		return nil, apperr.Validationf("total must be positive")
	}

	order := &model.CustomOrder{
		ID:       uuid.NewString(),
		UserID:   userID,
		Status:   model.StatusPending,
		Total:    req.Total,
		Currency: "USD",

		GarmentType: req.GarmentType,
		GarmentSize: req.GarmentSize,
		Color:       req.Color,
		DesignURL:   req.DesignURL,

		RecipientName: req.RecipientName,
		AddressLine1:  req.AddressLine1,
		City:          req.City,
		PostCode:      req.PostCode,
		Country:       req.Country,
	}

	if err := s.customOrderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store custom order: %w", err)
	}

	result, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionInput{
		Kind:        string(PayableCustomOrder),
		DomainID:    order.ID,
		UserID:      userID,
		Description: fmt.Sprintf("Custom %s print", req.GarmentType),
		Amount:      toMinorUnits(req.Total),
		Currency:    order.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.customOrderRepo.SetCheckoutSession(ctx, order.ID, result.SessionID); err != nil {
		slog.Warn("store checkout session id", "custom_order_id", order.ID, "error", err)
	}

	return &dto.CheckoutResponse{
		Order:       order,
		CheckoutURL: result.CheckoutURL,
	}, nil
}

func (s *checkoutServiceImpl) CreateQuoteCheckout(ctx context.Context, userID, quoteID string) (*dto.CheckoutResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("quote %s not found", quoteID)
	}
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}

	if quote.UserID != userID {
		return nil, apperr.Authf("quote does not belong to user")
	}
	if quote.Status != model.StatusPending {
		return nil, apperr.Validationf("quote is not payable in status %s", quote.Status)
	}

	result, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionInput{
		Kind:        string(PayableQuote),
		DomainID:    quote.ID,
		UserID:      userID,
		Description: fmt.Sprintf("Provider quote %s", quote.ID),
		Amount:      toMinorUnits(quote.Price),
		Currency:    quote.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.quoteRepo.SetCheckoutSession(ctx, quote.ID, result.SessionID); err != nil {
		slog.Warn("store checkout session id", "quote_id", quote.ID, "error", err)
	}

	return &dto.CheckoutResponse{
		Order:       quote,
		CheckoutURL: result.CheckoutURL,
	}, nil
}

func (s *checkoutServiceImpl) CreateSubscriptionCheckout(ctx context.Context, userID, planID string) (*dto.CheckoutResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("plan %s not found", planID)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	result, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionInput{
		Kind:     string(PayableSubscription),
		DomainID: plan.ID,
		UserID:   userID,
		PriceID:  plan.StripePriceID,
		PlanID:   plan.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &dto.CheckoutResponse{
		Order:       plan,
		CheckoutURL: result.CheckoutURL,
	}, nil
}
