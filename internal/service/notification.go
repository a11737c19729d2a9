package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"partyhub-backend/internal/client"
	"partyhub-backend/internal/repository"
)

const orderConfirmationTmpl = `
<html>
<body>
	<h2>Thanks for your order!</h2>
	<p>Hi {{.Name}}, we received your payment for order <b>{{.OrderID}}</b>.</p>
	<p>Total: {{.Total}} {{.Currency}}</p>
	<p>We are getting everything ready for your party.</p>
</body>
</html>`

const customOrderConfirmationTmpl = `
<html>
<body>
	<h2>Your custom print is on its way!</h2>
	<p>Hi {{.Name}}, your payment for custom order <b>{{.OrderID}}</b> is confirmed.</p>
	<p>Total: {{.Total}} {{.Currency}}</p>
	<p>Your design has been sent to production.</p>
</body>
</html>`

const subscriptionConfirmationTmpl = `
<html>
<body>
	<h2>Subscription confirmed</h2>
	<p>Hi {{.Name}}, your <b>{{.PlanName}}</b> subscription is now active.</p>
</body>
</html>`

// NotificationService composes and sends confirmation emails. Callers treat
// failures as log-only: email must never revert a committed state change.
type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, orderID string) error
	SendCustomOrderConfirmation(ctx context.Context, orderID string) error
	SendSubscriptionConfirmation(ctx context.Context, userID, planID string) error
}

type notificationServiceImpl struct {
	mailClient      client.MailClient
	userRepo        repository.UserRepository
	orderRepo       repository.OrderRepository
	customOrderRepo repository.CustomOrderRepository
	planRepo        repository.PlanRepository

	orderTmpl        *template.Template
	customOrderTmpl  *template.Template
	subscriptionTmpl *template.Template
}

func NewNotificationService(
	mailClient client.MailClient,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	customOrderRepo repository.CustomOrderRepository,
	planRepo repository.PlanRepository,
) NotificationService {
	return &notificationServiceImpl{
		mailClient:      mailClient,
		userRepo:        userRepo,
		orderRepo:       orderRepo,
		customOrderRepo: customOrderRepo,
		planRepo:        planRepo,

		orderTmpl:        template.Must(template.New("order").Parse(orderConfirmationTmpl)),
		customOrderTmpl:  template.Must(template.New("custom_order").Parse(customOrderConfirmationTmpl)),
		subscriptionTmpl: template.Must(template.New("subscription").Parse(subscriptionConfirmationTmpl)),
	}
}

func (s *notificationServiceImpl) SendOrderConfirmation(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	body, err := render(s.orderTmpl, map[string]any{
		"Name":     user.Name,
		"OrderID":  order.ID,
		"Total":    order.Total.StringFixed(2),
		"Currency": order.Currency,
	})
	if err != nil {
		return err
	}

	return s.mailClient.Send(ctx, user.Email, "Order confirmation", body)
}

func (s *notificationServiceImpl) SendCustomOrderConfirmation(ctx context.Context, orderID string) error {
	order, err := s.customOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get custom order: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	body, err := render(s.customOrderTmpl, map[string]any{
		"Name":     user.Name,
		"OrderID":  order.ID,
		"Total":    order.Total.StringFixed(2),
		"Currency": order.Currency,
	})
	if err != nil {
		return err
	}

	return s.mailClient.Send(ctx, user.Email, "Custom order confirmation", body)
}

func (s *notificationServiceImpl) SendSubscriptionConfirmation(ctx context.Context, userID, planID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	planName := planID
	if plan, err := s.planRepo.FindByID(ctx, planID); err == nil {
		planName = plan.Name
	}

	body, err := render(s.subscriptionTmpl, map[string]any{
		"Name":     user.Name,
		"PlanName": planName,
	})
	if err != nil {
		return err
	}

	return s.mailClient.Send(ctx, user.Email, "Subscription confirmed", body)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}
