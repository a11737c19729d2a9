package repository

import (
	"context"
	"time"

	"partyhub-backend/internal/model"

	"gorm.io/gorm"
)

type CustomOrderRepository interface {
	Create(ctx context.Context, order *model.CustomOrder) error
	FindByID(ctx context.Context, orderID string) (*model.CustomOrder, error)
	FindByUser(ctx context.Context, userID string) ([]*model.CustomOrder, error)
	SetCheckoutSession(ctx context.Context, orderID, sessionID string) error
	MarkPaid(ctx context.Context, orderID, paymentIntentID string) (bool, error)
	Transition(ctx context.Context, orderID string, to model.Status) (bool, error)

	// SetFulfillment records the external order reference once dispatch to the
	// print provider succeeded.
	SetFulfillment(ctx context.Context, orderID, gelatoOrderID, gelatoStatus string) error
}

type customOrderRepoImpl struct {
	db *gorm.DB
}

func NewCustomOrderRepository(db *gorm.DB) CustomOrderRepository {
	return &customOrderRepoImpl{
		db: db,
	}
}

func (r *customOrderRepoImpl) Create(ctx context.Context, order *model.CustomOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *customOrderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.CustomOrder, error) {
	var order model.CustomOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *customOrderRepoImpl) FindByUser(ctx context.Context, userID string) ([]*model.CustomOrder, error) {
	var orders []*model.CustomOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *customOrderRepoImpl) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ?", orderID).
		Update("checkout_session_id", sessionID).Error
}

func (r *customOrderRepoImpl) MarkPaid(ctx context.Context, orderID, paymentIntentID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ? AND status = ?", orderID, model.StatusPending).
		Updates(map[string]interface{}{
			"status":            model.StatusPaid,
			"payment_intent_id": paymentIntentID,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *customOrderRepoImpl) Transition(ctx context.Context, orderID string, to model.Status) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ? AND status IN ?", orderID, model.SourcesOf(to)).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *customOrderRepoImpl) SetFulfillment(ctx context.Context, orderID, gelatoOrderID, gelatoStatus string) error {
	return r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"gelato_order_id": gelatoOrderID,
			"gelato_status":   gelatoStatus,
			"updated_at":      time.Now(),
		}).Error
}
