package service

import (
	"partyhub-backend/internal/apperr"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// VerifyEvent authenticates a raw webhook body against the secret of the
// endpoint it arrived on. The body must be the verbatim bytes the signature
// was computed over; any re-serialization upstream breaks verification.
func VerifyEvent(body []byte, signatureHeader, secret string) (*stripe.Event, error) {
	if len(body) == 0 {
		return nil, apperr.Authf("empty webhook body")
	}

	// Endpoints can be pinned to an older API version than the SDK; the
	// signature check is what authenticates the delivery, not the version.
	event, err := webhook.ConstructEventWithOptions(body, signatureHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindAuth, Msg: "webhook signature verification failed", Err: err}
	}

	return &event, nil
}
