package service

import (
	"context"
	"testing"
	"time"

	"partyhub-backend/internal/client"
	"partyhub-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v81"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

type mockStripeClient struct {
	mock.Mock
}

func (m *mockStripeClient) CreateCheckoutSession(ctx context.Context, in *client.CheckoutSessionInput) (*client.CheckoutSessionResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.CheckoutSessionResult), args.Error(1)
}

func (m *mockStripeClient) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func (m *mockStripeClient) GetBalance(ctx context.Context, accountID string) (*stripe.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Balance), args.Error(1)
}

func (m *mockStripeClient) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *mockStripeClient) CreateLoginLink(ctx context.Context, accountID string) (*stripe.LoginLink, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.LoginLink), args.Error(1)
}

type mockGelatoClient struct {
	mock.Mock
}

func (m *mockGelatoClient) ResolveProductUID(ctx context.Context, garmentType, size, color string) (string, error) {
	args := m.Called(ctx, garmentType, size, color)
	return args.String(0), args.Error(1)
}

func (m *mockGelatoClient) CreateOrder(ctx context.Context, req *client.GelatoOrderRequest) (*client.GelatoOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.GelatoOrderResponse), args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *mockOrderRepo) GetItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OrderItem), args.Error(1)
}

func (m *mockOrderRepo) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	args := m.Called(ctx, orderID, sessionID)
	return args.Error(0)
}

func (m *mockOrderRepo) MarkPaid(ctx context.Context, orderID, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, orderID, paymentIntentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepo) Transition(ctx context.Context, orderID string, to model.Status) (bool, error) {
	args := m.Called(ctx, orderID, to)
	return args.Bool(0), args.Error(1)
}

type mockCustomOrderRepo struct {
	mock.Mock
}

func (m *mockCustomOrderRepo) Create(ctx context.Context, order *model.CustomOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockCustomOrderRepo) FindByID(ctx context.Context, orderID string) (*model.CustomOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomOrder), args.Error(1)
}

func (m *mockCustomOrderRepo) FindByUser(ctx context.Context, userID string) ([]*model.CustomOrder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CustomOrder), args.Error(1)
}

func (m *mockCustomOrderRepo) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	args := m.Called(ctx, orderID, sessionID)
	return args.Error(0)
}

func (m *mockCustomOrderRepo) MarkPaid(ctx context.Context, orderID, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, orderID, paymentIntentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomOrderRepo) Transition(ctx context.Context, orderID string, to model.Status) (bool, error) {
	args := m.Called(ctx, orderID, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomOrderRepo) SetFulfillment(ctx context.Context, orderID, gelatoOrderID, gelatoStatus string) error {
	args := m.Called(ctx, orderID, gelatoOrderID, gelatoStatus)
	return args.Error(0)
}

type mockQuoteRepo struct {
	mock.Mock
}

func (m *mockQuoteRepo) Create(ctx context.Context, quote *model.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *mockQuoteRepo) FindByID(ctx context.Context, quoteID string) (*model.Quote, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) FindByProvider(ctx context.Context, providerID string) ([]*model.Quote, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Quote), args.Error(1)
}

func (m *mockQuoteRepo) SetCheckoutSession(ctx context.Context, quoteID, sessionID string) error {
	args := m.Called(ctx, quoteID, sessionID)
	return args.Error(0)
}

func (m *mockQuoteRepo) MarkPaid(ctx context.Context, quoteID, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, quoteID, paymentIntentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuoteRepo) Transition(ctx context.Context, quoteID string, to model.Status) (bool, error) {
	args := m.Called(ctx, quoteID, to)
	return args.Bool(0), args.Error(1)
}

type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) CreateFree(ctx context.Context, tx *gorm.DB, userID string, now time.Time) error {
	args := m.Called(ctx, tx, userID, now)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) ApplyPlan(ctx context.Context, userID, planID, planName string, price decimal.Decimal, start time.Time, end time.Time) error {
	args := m.Called(ctx, userID, planID, planName, price, start, end)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) ResetToFree(ctx context.Context, userID string, now time.Time) error {
	args := m.Called(ctx, userID, now)
	return args.Error(0)
}

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) Seed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockPlanRepo) FindByID(ctx context.Context, planID string) (*model.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *mockPlanRepo) List(ctx context.Context) ([]*model.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Plan), args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Seed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockProductRepo) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockWebhookEventRepo struct {
	mock.Mock
}

func (m *mockWebhookEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWebhookEventRepo) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	args := m.Called(ctx, eventID, eventType)
	return args.Error(0)
}

type mockFulfillmentService struct {
	mock.Mock
}

func (m *mockFulfillmentService) Dispatch(ctx context.Context, customOrderID string) error {
	args := m.Called(ctx, customOrderID)
	return args.Error(0)
}

type mockNotificationService struct {
	mock.Mock
}

func (m *mockNotificationService) SendOrderConfirmation(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *mockNotificationService) SendCustomOrderConfirmation(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *mockNotificationService) SendSubscriptionConfirmation(ctx context.Context, userID, planID string) error {
	args := m.Called(ctx, userID, planID)
	return args.Error(0)
}
