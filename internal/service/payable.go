package service

import (
	"context"
	"errors"

	"partyhub-backend/internal/repository"

	"gorm.io/gorm"
)

// PayableKind is the metadata tag a checkout session carries so the webhook
// can find its way back to the right domain table.
type PayableKind string

const (
	PayableOrder        PayableKind = "order"
	PayableCustomOrder  PayableKind = "custom_order"
	PayableQuote        PayableKind = "quote"
	PayableSubscription PayableKind = "subscription"
)

// PayableStore is the one reconciliation surface shared by orders, custom
// orders and quotes. MarkPaid must be an atomic conditional update so that
// concurrent duplicate deliveries cannot both transition the row.
type PayableStore interface {
	MarkPaid(ctx context.Context, id, paymentIntentID string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// payableHandler pairs a store with the side effect that runs exactly once,
// on the delivery that actually performed the PENDING→PAID transition.
type payableHandler struct {
	store  PayableStore
	onPaid func(ctx context.Context, id string) error
}

type orderPayable struct {
	repo repository.OrderRepository
}

func (p orderPayable) MarkPaid(ctx context.Context, id, paymentIntentID string) (bool, error) {
	return p.repo.MarkPaid(ctx, id, paymentIntentID)
}

func (p orderPayable) Exists(ctx context.Context, id string) (bool, error) {
	_, err := p.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type customOrderPayable struct {
	repo repository.CustomOrderRepository
}

func (p customOrderPayable) MarkPaid(ctx context.Context, id, paymentIntentID string) (bool, error) {
	return p.repo.MarkPaid(ctx, id, paymentIntentID)
}

func (p customOrderPayable) Exists(ctx context.Context, id string) (bool, error) {
	_, err := p.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type quotePayable struct {
	repo repository.QuoteRepository
}

func (p quotePayable) MarkPaid(ctx context.Context, id, paymentIntentID string) (bool, error) {
	return p.repo.MarkPaid(ctx, id, paymentIntentID)
}

func (p quotePayable) Exists(ctx context.Context, id string) (bool, error) {
	_, err := p.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
