package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"partyhub-backend/internal/apperr"
	"partyhub-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"gorm.io/gorm"
)

type reconcileMocks struct {
	stripe      *mockStripeClient
	orders      *mockOrderRepo
	customs     *mockCustomOrderRepo
	quotes      *mockQuoteRepo
	subs        *mockSubscriptionRepo
	plans       *mockPlanRepo
	events      *mockWebhookEventRepo
	fulfillment *mockFulfillmentService
	notifier    *mockNotificationService
}

func newReconcileService(t *testing.T) (*reconcileServiceImpl, *reconcileMocks) {
	t.Helper()
	m := &reconcileMocks{
		stripe:      new(mockStripeClient),
		orders:      new(mockOrderRepo),
		customs:     new(mockCustomOrderRepo),
		quotes:      new(mockQuoteRepo),
		subs:        new(mockSubscriptionRepo),
		plans:       new(mockPlanRepo),
		events:      new(mockWebhookEventRepo),
		fulfillment: new(mockFulfillmentService),
		notifier:    new(mockNotificationService),
	}
	svc := NewReconcileService(
		m.stripe, m.orders, m.customs, m.quotes,
		m.subs, m.plans, m.events,
		m.fulfillment, m.notifier,
	).(*reconcileServiceImpl)
	return svc, m
}

func newEvent(t *testing.T, id, eventType string, payload any) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &stripe.Event{
		ID:   id,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func sessionPayload(kind, domainID, paymentIntentID string) map[string]any {
	return map[string]any{
		"id": "cs_test_1",
		"metadata": map[string]string{
			"kind":      kind,
			"domain_id": domainID,
			"user_id":   "user_1",
		},
		"payment_intent": paymentIntentID,
	}
}

func TestHandleEvent_OrderPaid(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_1").Return(false, nil)
	m.orders.On("MarkPaid", ctx, "ord_1", "pi_1").Return(true, nil)
	m.notifier.On("SendOrderConfirmation", ctx, "ord_1").Return(nil)
	m.events.On("MarkProcessed", ctx, "evt_1", "checkout.session.completed").Return(nil)

	event := newEvent(t, "evt_1", "checkout.session.completed", sessionPayload("order", "ord_1", "pi_1"))
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.orders.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
	m.events.AssertExpectations(t)
}

func TestHandleEvent_DuplicateEventID(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_1").Return(true, nil)

	event := newEvent(t, "evt_1", "checkout.session.completed", sessionPayload("order", "ord_1", "pi_1"))
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	m.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_DuplicateDeliverySettledOrder(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_2").Return(false, nil)
	m.orders.On("MarkPaid", ctx, "ord_1", "pi_1").Return(false, nil)
	m.orders.On("FindByID", ctx, "ord_1").Return(&model.Order{ID: "ord_1", Status: model.StatusPaid}, nil)
	m.events.On("MarkProcessed", ctx, "evt_2", "checkout.session.completed").Return(nil)

	event := newEvent(t, "evt_2", "checkout.session.completed", sessionPayload("order", "ord_1", "pi_1"))
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything)
}

func TestHandleEvent_UnknownOrderIsRetryable(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_3").Return(false, nil)
	m.orders.On("MarkPaid", ctx, "ord_missing", "pi_1").Return(false, nil)
	m.orders.On("FindByID", ctx, "ord_missing").Return(nil, gorm.ErrRecordNotFound)

	event := newEvent(t, "evt_3", "checkout.session.completed", sessionPayload("order", "ord_missing", "pi_1"))
	err := svc.HandleEvent(ctx, event)

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	m.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_CustomOrderPaidDispatchesFulfillment(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_4").Return(false, nil)
	m.customs.On("MarkPaid", ctx, "cust_1", "pi_9").Return(true, nil)
	m.fulfillment.On("Dispatch", ctx, "cust_1").Return(nil)
	m.notifier.On("SendCustomOrderConfirmation", ctx, "cust_1").Return(nil)
	m.events.On("MarkProcessed", ctx, "evt_4", "checkout.session.completed").Return(nil)

	event := newEvent(t, "evt_4", "checkout.session.completed", sessionPayload("custom_order", "cust_1", "pi_9"))
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.fulfillment.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
}

func TestHandleEvent_FulfillmentFailureSurfaces(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_5").Return(false, nil)
	m.customs.On("MarkPaid", ctx, "cust_1", "pi_9").Return(true, nil)
	m.fulfillment.On("Dispatch", ctx, "cust_1").Return(errors.New("gelato is down"))

	event := newEvent(t, "evt_5", "checkout.session.completed", sessionPayload("custom_order", "cust_1", "pi_9"))
	err := svc.HandleEvent(ctx, event)

	require.Error(t, err)
	m.notifier.AssertNotCalled(t, "SendCustomOrderConfirmation", mock.Anything, mock.Anything)
	m.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_RedeliveryAfterPaidDoesNotDispatchAgain(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	// The first delivery already moved the row to PAID; a retry after a
	// dispatch failure acks without reaching fulfillment. Recovery for an
	// untracked PAID order is operator-driven, not webhook-driven.
	m.events.On("Exists", ctx, "evt_retry").Return(false, nil)
	m.customs.On("MarkPaid", ctx, "cust_1", "pi_9").Return(false, nil)
	m.customs.On("FindByID", ctx, "cust_1").Return(&model.CustomOrder{ID: "cust_1", Status: model.StatusPaid}, nil)
	m.events.On("MarkProcessed", ctx, "evt_retry", "checkout.session.completed").Return(nil)

	event := newEvent(t, "evt_retry", "checkout.session.completed", sessionPayload("custom_order", "cust_1", "pi_9"))
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.fulfillment.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestHandleEvent_NotifierFailureDoesNotUnwindPayment(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_6").Return(false, nil)
	m.orders.On("MarkPaid", ctx, "ord_1", "pi_1").Return(true, nil)
	m.notifier.On("SendOrderConfirmation", ctx, "ord_1").Return(errors.New("smtp refused"))
	m.events.On("MarkProcessed", ctx, "evt_6", "checkout.session.completed").Return(nil)

	event := newEvent(t, "evt_6", "checkout.session.completed", sessionPayload("order", "ord_1", "pi_1"))
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.events.AssertExpectations(t)
}

func TestHandleEvent_SubscriptionSessionIsNoOp(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_7").Return(false, nil)
	m.events.On("MarkProcessed", ctx, "evt_7", "checkout.session.completed").Return(nil)

	event := newEvent(t, "evt_7", "checkout.session.completed", sessionPayload("subscription", "plus_monthly", ""))
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	m.subs.AssertNotCalled(t, "ApplyPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_InvoicePaidSetsPlanPeriod(t *testing.T) {
	fixedNow := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		duration model.PlanDuration
		wantEnd  time.Time
	}{
		{"monthly", model.PlanDurationMonthly, fixedNow.AddDate(0, 1, 0)},
		{"yearly", model.PlanDurationYearly, fixedNow.AddDate(1, 0, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newReconcileService(t)
			svc.now = func() time.Time { return fixedNow }
			ctx := context.Background()

			plan := &model.Plan{
				ID:       "plan_1",
				Name:     "Plus",
				Price:    decimal.NewFromFloat(9.99),
				Duration: tc.duration,
			}
			m.events.On("Exists", ctx, "evt_inv").Return(false, nil)
			m.plans.On("FindByID", ctx, "plan_1").Return(plan, nil)
			m.subs.On("ApplyPlan", ctx, "user_1", "plan_1", "Plus", plan.Price, fixedNow, tc.wantEnd).Return(nil)
			m.events.On("MarkProcessed", ctx, "evt_inv", "invoice.payment_succeeded").Return(nil)

			event := newEvent(t, "evt_inv", "invoice.payment_succeeded", map[string]any{
				"id": "in_1",
				"subscription_details": map[string]any{
					"metadata": map[string]string{
						"user_id": "user_1",
						"plan_id": "plan_1",
					},
				},
			})
			err := svc.HandleEvent(ctx, event)

			require.NoError(t, err)
			m.subs.AssertExpectations(t)
		})
	}
}

func TestHandleEvent_InvoiceWithoutMetadataIsIgnored(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_inv2").Return(false, nil)
	m.events.On("MarkProcessed", ctx, "evt_inv2", "invoice.payment_succeeded").Return(nil)

	event := newEvent(t, "evt_inv2", "invoice.payment_succeeded", map[string]any{"id": "in_2"})
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.subs.AssertNotCalled(t, "ApplyPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_SubscriptionCreatedOnlyNotifies(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_sub1").Return(false, nil)
	m.notifier.On("SendSubscriptionConfirmation", ctx, "user_1", "plan_1").Return(nil)
	m.events.On("MarkProcessed", ctx, "evt_sub1", "customer.subscription.created").Return(nil)

	event := newEvent(t, "evt_sub1", "customer.subscription.created", map[string]any{
		"id": "sub_1",
		"metadata": map[string]string{
			"user_id": "user_1",
			"plan_id": "plan_1",
		},
	})
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.notifier.AssertExpectations(t)
	m.subs.AssertNotCalled(t, "ApplyPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_SubscriptionDeletedRevertsToFree(t *testing.T) {
	fixedNow := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, m := newReconcileService(t)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_sub2").Return(false, nil)
	m.subs.On("ResetToFree", ctx, "user_1", fixedNow).Return(nil)
	m.events.On("MarkProcessed", ctx, "evt_sub2", "customer.subscription.deleted").Return(nil)

	event := newEvent(t, "evt_sub2", "customer.subscription.deleted", map[string]any{
		"id": "sub_1",
		"metadata": map[string]string{
			"user_id": "user_1",
		},
	})
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.subs.AssertExpectations(t)
}

func TestHandleEvent_UnknownTypeIsAcknowledged(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	m.events.On("Exists", ctx, "evt_misc").Return(false, nil)

	event := newEvent(t, "evt_misc", "charge.refunded", map[string]any{"id": "ch_1"})
	err := svc.HandleEvent(ctx, event)

	require.NoError(t, err)
	m.events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifySession_PaidSessionReconciles(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	sess := &stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: map[string]string{
			"kind":      "order",
			"domain_id": "ord_1",
		},
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"},
	}
	m.stripe.On("GetCheckoutSession", ctx, "cs_test_1").Return(sess, nil)
	m.orders.On("MarkPaid", ctx, "ord_1", "pi_1").Return(true, nil)
	m.notifier.On("SendOrderConfirmation", ctx, "ord_1").Return(nil)

	err := svc.VerifySession(ctx, "cs_test_1")

	require.NoError(t, err)
	m.orders.AssertExpectations(t)
}

func TestVerifySession_UnpaidSessionRejected(t *testing.T) {
	svc, m := newReconcileService(t)
	ctx := context.Background()

	sess := &stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
	}
	m.stripe.On("GetCheckoutSession", ctx, "cs_test_1").Return(sess, nil)

	err := svc.VerifySession(ctx, "cs_test_1")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	m.orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}
