package service

import (
	"context"
	"errors"
	"fmt"

	"partyhub-backend/internal/apperr"
	"partyhub-backend/internal/model"
	"partyhub-backend/internal/repository"

	"gorm.io/gorm"
)

// OrderService is the read and administrative surface over orders; the paid
// transition itself belongs exclusively to the reconciler.
type OrderService interface {
	GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*model.Order, error)
	ListCustomOrders(ctx context.Context, userID string) ([]*model.CustomOrder, error)

	// MarkDelivered and Cancel are explicit administrative actions, guarded
	// by the same transition table as everything else.
	MarkDelivered(ctx context.Context, orderID string) error
	Cancel(ctx context.Context, orderID string) error
}

type orderServiceImpl struct {
	orderRepo       repository.OrderRepository
	customOrderRepo repository.CustomOrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository, customOrderRepo repository.CustomOrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo:       orderRepo,
		customOrderRepo: customOrderRepo,
	}
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("order %s not found", orderID)
	}
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, apperr.Authf("order does not belong to user")
	}

	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

func (s *orderServiceImpl) ListCustomOrders(ctx context.Context, userID string) ([]*model.CustomOrder, error) {
	return s.customOrderRepo.FindByUser(ctx, userID)
}

func (s *orderServiceImpl) MarkDelivered(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, model.StatusDelivered)
}

func (s *orderServiceImpl) Cancel(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, model.StatusCancelled)
}

func (s *orderServiceImpl) transition(ctx context.Context, orderID string, to model.Status) error {
	ok, err := s.orderRepo.Transition(ctx, orderID, to)
	if err != nil {
		return fmt.Errorf("transition order: %w", err)
	}
	if !ok {
		order, findErr := s.orderRepo.FindByID(ctx, orderID)
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("order %s not found", orderID)
		}
		if findErr != nil {
			return findErr
		}
		return apperr.Validationf("order %s cannot move to %s from %s", orderID, to, order.Status)
	}

	return nil
}
