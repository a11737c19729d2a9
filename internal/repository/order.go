package repository

import (
	"context"
	"time"

	"partyhub-backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Order, error)
	GetItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
	SetCheckoutSession(ctx context.Context, orderID, sessionID string) error

	// MarkPaid performs the PENDING→PAID transition as a single conditional
	// update. Returns false when the row was already past PENDING, which is
	// how duplicate webhook deliveries collapse to a no-op.
	MarkPaid(ctx context.Context, orderID, paymentIntentID string) (bool, error)

	// Transition applies an administrative status change, guarded by the
	// statuses from which the target is reachable.
	Transition(ctx context.Context, orderID string, to model.Status) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepoImpl) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("checkout_session_id", sessionID).Error
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, orderID, paymentIntentID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
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

func (r *orderRepoImpl) Transition(ctx context.Context, orderID string, to model.Status) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
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
