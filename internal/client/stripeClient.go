package client

import (
	"context"
	"fmt"

	"partyhub-backend/internal/apperr"

	"github.com/stripe/stripe-go/v81"
	stripeclient "github.com/stripe/stripe-go/v81/client"
)

// Metadata keys embedded on every checkout session. They are the only link
// back to the domain row when the webhook fires.
const (
	MetadataKind   = "kind"
	MetadataID     = "domain_id"
	MetadataUserID = "user_id"
	MetadataPlanID = "plan_id"
)

type CheckoutSessionInput struct {
	Kind        string
	DomainID    string
	UserID      string
	Description string

	// One-off payments: the pre-computed domain total in minor units. Stripe
	// is never asked to recompute pricing from line items.
	Amount   int64
	Currency string

	// Subscription mode: the Stripe price to subscribe to.
	PriceID string
	PlanID  string
}

type CheckoutSessionResult struct {
	SessionID   string
	CheckoutURL string
}

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, in *CheckoutSessionInput) (*CheckoutSessionResult, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
	GetBalance(ctx context.Context, accountID string) (*stripe.Balance, error)
	GetAccount(ctx context.Context, accountID string) (*stripe.Account, error)
	CreateLoginLink(ctx context.Context, accountID string) (*stripe.LoginLink, error)
}

type stripeClientImpl struct {
	api     *stripeclient.API
	baseURL string
}

func NewStripeClient(secretKey, baseURL string) StripeClient {
	return &stripeClientImpl{
		api:     stripeclient.New(secretKey, nil),
		baseURL: baseURL,
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, in *CheckoutSessionInput) (*CheckoutSessionResult, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(fmt.Sprintf("%s/checkout/success?session_id={CHECKOUT_SESSION_ID}", c.baseURL)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/checkout/cancel", c.baseURL)),
	}
	params.Context = ctx
	params.AddMetadata(MetadataKind, in.Kind)
	params.AddMetadata(MetadataID, in.DomainID)
	params.AddMetadata(MetadataUserID, in.UserID)

	if in.PriceID != "" {
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(in.PriceID),
				Quantity: stripe.Int64(1),
			},
		}
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				MetadataUserID: in.UserID,
				MetadataPlanID: in.PlanID,
			},
		}
	} else {
		// The domain total is authoritative: one line item carrying the
		// already-priced amount.
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(in.Currency),
					UnitAmount: stripe.Int64(in.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		}
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperr.Internal("stripe create checkout session", err)
	}

	return &CheckoutSessionResult{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}

func (c *stripeClientImpl) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, apperr.Internal("stripe get checkout session", err)
	}
	return sess, nil
}

func (c *stripeClientImpl) GetBalance(ctx context.Context, accountID string) (*stripe.Balance, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx
	params.SetStripeAccount(accountID)

	balance, err := c.api.Balance.Get(params)
	if err != nil {
		return nil, apperr.Internal("stripe get balance", err)
	}
	return balance, nil
}

func (c *stripeClientImpl) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	account, err := c.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, apperr.Internal("stripe get account", err)
	}
	return account, nil
}

func (c *stripeClientImpl) CreateLoginLink(ctx context.Context, accountID string) (*stripe.LoginLink, error) {
	params := &stripe.LoginLinkParams{
		Account: stripe.String(accountID),
	}
	params.Context = ctx

	link, err := c.api.LoginLinks.New(params)
	if err != nil {
		return nil, apperr.Internal("stripe create login link", err)
	}
	return link, nil
}
