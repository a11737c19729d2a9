package service

import (
	"context"
	"fmt"

	"partyhub-backend/internal/client"
	"partyhub-backend/internal/repository"
)

// FulfillmentService forwards a paid custom order to the print provider and
// records the returned tracking reference.
type FulfillmentService interface {
	Dispatch(ctx context.Context, customOrderID string) error
}

type fulfillmentServiceImpl struct {
	gelatoClient    client.GelatoClient
	customOrderRepo repository.CustomOrderRepository
}

func NewFulfillmentService(gelatoClient client.GelatoClient, customOrderRepo repository.CustomOrderRepository) FulfillmentService {
	return &fulfillmentServiceImpl{
		gelatoClient:    gelatoClient,
		customOrderRepo: customOrderRepo,
	}
}

func (s *fulfillmentServiceImpl) Dispatch(ctx context.Context, customOrderID string) error {
	order, err := s.customOrderRepo.FindByID(ctx, customOrderID)
	if err != nil {
		return fmt.Errorf("get custom order: %w", err)
	}

	if order.GelatoOrderID != nil {
		// Already dispatched; a redelivered confirmation must not print twice.
		return nil
	}

	productUID, err := s.gelatoClient.ResolveProductUID(ctx, order.GarmentType, order.GarmentSize, order.Color)
	if err != nil {
		return fmt.Errorf("resolve product variant: %w", err)
	}

	resp, err := s.gelatoClient.CreateOrder(ctx, &client.GelatoOrderRequest{
		OrderReferenceID: order.ID,
		Currency:         order.Currency,
		Items: []client.GelatoOrderItem{
			{
				ProductUID: productUID,
				FileURLs:   []string{order.DesignURL},
				Quantity:   1,
			},
		},
		ShippingAddress: client.GelatoRecipient{
			Name:         order.RecipientName,
			AddressLine1: order.AddressLine1,
			City:         order.City,
			PostCode:     order.PostCode,
			Country:      order.Country,
		},
	})
	if err != nil {
		return fmt.Errorf("submit fulfillment order: %w", err)
	}

	if err := s.customOrderRepo.SetFulfillment(ctx, order.ID, resp.ID, resp.FulfillmentStatus); err != nil {
		return fmt.Errorf("record fulfillment reference: %w", err)
	}

	return nil
}
