package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"partyhub-backend/internal/apperr"
	"partyhub-backend/internal/client"
	"partyhub-backend/internal/model"
	"partyhub-backend/internal/repository"

	"github.com/stripe/stripe-go/v81"
	"gorm.io/gorm"
)

// ReconcileService maps provider events onto domain state transitions. Every
// handler is safe to run more than once with the same payload: deliveries are
// at-least-once, and duplicates may arrive concurrently.
type ReconcileService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error

	// VerifySession is the synchronous poll twin of the webhook path. It
	// fetches the session from Stripe and feeds it through the same
	// reconciliation as checkout.session.completed.
	VerifySession(ctx context.Context, sessionID string) error
}

type reconcileServiceImpl struct {
	payables     map[PayableKind]payableHandler
	stripeClient client.StripeClient
	subRepo      repository.SubscriptionRepository
	planRepo     repository.PlanRepository
	eventRepo    repository.WebhookEventRepository
	fulfillment  FulfillmentService
	notifier     NotificationService

	now func() time.Time
}

func NewReconcileService(
	stripeClient client.StripeClient,
	orderRepo repository.OrderRepository,
	customOrderRepo repository.CustomOrderRepository,
	quoteRepo repository.QuoteRepository,
	subRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	eventRepo repository.WebhookEventRepository,
	fulfillment FulfillmentService,
	notifier NotificationService,
) ReconcileService {
	s := &reconcileServiceImpl{
		stripeClient: stripeClient,
		subRepo:      subRepo,
		planRepo:     planRepo,
		eventRepo:    eventRepo,
		fulfillment:  fulfillment,
		notifier:     notifier,
		now:          time.Now,
	}

	s.payables = map[PayableKind]payableHandler{
		PayableOrder: {
			store:  orderPayable{repo: orderRepo},
			onPaid: s.notifyOrderPaid,
		},
		PayableCustomOrder: {
			store:  customOrderPayable{repo: customOrderRepo},
			onPaid: s.dispatchCustomOrder,
		},
		PayableQuote: {
			store: quotePayable{repo: quoteRepo},
		},
	}

	return s
}

func (s *reconcileServiceImpl) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event.ID != "" {
		processed, err := s.eventRepo.Exists(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("check processed events: %w", err)
		}
		if processed {
			slog.Info("webhook event already processed", "event_id", event.ID, "type", event.Type)
			return nil
		}
	}

	var err error
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if jsonErr := json.Unmarshal(event.Data.Raw, &sess); jsonErr != nil {
			return apperr.Validationf("decode checkout session payload: %v", jsonErr)
		}
		err = s.reconcileSession(ctx, &sess)

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if jsonErr := json.Unmarshal(event.Data.Raw, &invoice); jsonErr != nil {
			return apperr.Validationf("decode invoice payload: %v", jsonErr)
		}
		err = s.handleInvoicePaid(ctx, &invoice)

	case "customer.subscription.created":
		var sub stripe.Subscription
		if jsonErr := json.Unmarshal(event.Data.Raw, &sub); jsonErr != nil {
			return apperr.Validationf("decode subscription payload: %v", jsonErr)
		}
		err = s.handleSubscriptionCreated(ctx, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if jsonErr := json.Unmarshal(event.Data.Raw, &sub); jsonErr != nil {
			return apperr.Validationf("decode subscription payload: %v", jsonErr)
		}
		err = s.handleSubscriptionDeleted(ctx, &sub)

	default:
		// Unrecognized events are not an error; acknowledge so the provider
		// stops re-delivering them.
		slog.Info("unhandled webhook event type", "type", event.Type)
		return nil
	}

	if err != nil {
		return err
	}

	if event.ID != "" {
		if markErr := s.eventRepo.MarkProcessed(ctx, event.ID, string(event.Type)); markErr != nil {
			slog.Warn("mark webhook event processed", "event_id", event.ID, "error", markErr)
		}
	}

	return nil
}

func (s *reconcileServiceImpl) VerifySession(ctx context.Context, sessionID string) error {
	sess, err := s.stripeClient.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("fetch checkout session: %w", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return apperr.Validationf("session %s is not paid", sessionID)
	}

	return s.reconcileSession(ctx, sess)
}

// reconcileSession applies the PENDING→PAID transition for whatever payable
// the session's metadata points at. The conditional update in the store is
// what makes concurrent duplicate deliveries collapse to a single transition;
// side effects run only on the delivery that won.
func (s *reconcileServiceImpl) reconcileSession(ctx context.Context, sess *stripe.CheckoutSession) error {
	kind := PayableKind(sess.Metadata[client.MetadataKind])
	domainID := sess.Metadata[client.MetadataID]

	if kind == PayableSubscription {
		// Plan activation is driven by the subscription lifecycle events,
		// not by the session itself.
		return nil
	}

	handler, ok := s.payables[kind]
	if !ok || domainID == "" {
		slog.Warn("checkout session without usable metadata", "session_id", sess.ID, "kind", kind)
		return nil
	}

	var paymentIntentID string
	if sess.PaymentIntent != nil {
		paymentIntentID = sess.PaymentIntent.ID
	}

	transitioned, err := handler.store.MarkPaid(ctx, domainID, paymentIntentID)
	if err != nil {
		return fmt.Errorf("mark %s paid: %w", kind, err)
	}

	if !transitioned {
		exists, err := handler.store.Exists(ctx, domainID)
		if err != nil {
			return fmt.Errorf("check %s exists: %w", kind, err)
		}
		if !exists {
			// Non-2xx makes the provider retry; a transient lookup race is
			// retryable, not fatal.
			return apperr.NotFoundf("%s %s not found", kind, domainID)
		}
		slog.Info("duplicate payment confirmation, already settled", "kind", kind, "id", domainID)
		return nil
	}

	if handler.onPaid != nil {
		if err := handler.onPaid(ctx, domainID); err != nil {
			return fmt.Errorf("post-payment handling for %s %s: %w", kind, domainID, err)
		}
	}

	return nil
}

// notifyOrderPaid sends the confirmation email. Mail failure never unwinds
// the already-committed transition, so it is logged and swallowed here.
func (s *reconcileServiceImpl) notifyOrderPaid(ctx context.Context, orderID string) error {
	if err := s.notifier.SendOrderConfirmation(ctx, orderID); err != nil {
		slog.Error("send order confirmation", "order_id", orderID, "error", err)
	}
	return nil
}

// dispatchCustomOrder forwards the paid order to the print provider. A
// failure here is post-payment: the order stays PAID without fulfillment
// tracking, and the error surfaces so an operator (and the provider's retry)
// can pick it up.
func (s *reconcileServiceImpl) dispatchCustomOrder(ctx context.Context, orderID string) error {
	if err := s.fulfillment.Dispatch(ctx, orderID); err != nil {
		slog.Error("fulfillment dispatch failed for paid order", "custom_order_id", orderID, "error", err)
		return err
	}

	if err := s.notifier.SendCustomOrderConfirmation(ctx, orderID); err != nil {
		slog.Error("send custom order confirmation", "custom_order_id", orderID, "error", err)
	}
	return nil
}

func (s *reconcileServiceImpl) handleInvoicePaid(ctx context.Context, invoice *stripe.Invoice) error {
	var metadata map[string]string
	if invoice.SubscriptionDetails != nil {
		metadata = invoice.SubscriptionDetails.Metadata
	}

	userID := metadata[client.MetadataUserID]
	planID := metadata[client.MetadataPlanID]
	if userID == "" || planID == "" {
		slog.Warn("invoice without subscription metadata", "invoice_id", invoice.ID)
		return nil
	}

	plan, err := s.planRepo.FindByID(ctx, planID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Warn("invoice references unknown plan", "invoice_id", invoice.ID, "plan_id", planID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get plan: %w", err)
	}

	now := s.now()
	var end time.Time
	switch plan.Duration {
	case model.PlanDurationYearly:
		end = now.AddDate(1, 0, 0)
	default:
		end = now.AddDate(0, 1, 0)
	}

	if err := s.subRepo.ApplyPlan(ctx, userID, plan.ID, plan.Name, plan.Price, now, end); err != nil {
		return fmt.Errorf("apply plan to subscription: %w", err)
	}

	slog.Info("subscription renewed", "user_id", userID, "plan_id", planID, "end_date", end)
	return nil
}

// handleSubscriptionCreated only notifies. The subscription row itself is
// written by the first invoice.payment_succeeded of the new plan, which
// arrives in the same delivery burst.
func (s *reconcileServiceImpl) handleSubscriptionCreated(ctx context.Context, sub *stripe.Subscription) error {
	userID := sub.Metadata[client.MetadataUserID]
	planID := sub.Metadata[client.MetadataPlanID]
	if userID == "" || planID == "" {
		// Configuration error, not retryable.
		slog.Error("subscription created without metadata", "subscription_id", sub.ID)
		return nil
	}

	if err := s.notifier.SendSubscriptionConfirmation(ctx, userID, planID); err != nil {
		slog.Error("send subscription confirmation", "user_id", userID, "error", err)
	}
	return nil
}

func (s *reconcileServiceImpl) handleSubscriptionDeleted(ctx context.Context, sub *stripe.Subscription) error {
	userID := sub.Metadata[client.MetadataUserID]
	if userID == "" {
		slog.Error("subscription deleted without metadata", "subscription_id", sub.ID)
		return nil
	}

	if err := s.subRepo.ResetToFree(ctx, userID, s.now()); err != nil {
		return fmt.Errorf("reset subscription to free: %w", err)
	}

	slog.Info("subscription reverted to free plan", "user_id", userID)
	return nil
}
