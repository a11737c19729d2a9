package repository

import (
	"context"
	"time"

	"partyhub-backend/internal/model"

	"gorm.io/gorm"
)

type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	FindByID(ctx context.Context, quoteID string) (*model.Quote, error)
	FindByProvider(ctx context.Context, providerID string) ([]*model.Quote, error)
	SetCheckoutSession(ctx context.Context, quoteID, sessionID string) error
	MarkPaid(ctx context.Context, quoteID, paymentIntentID string) (bool, error)
	Transition(ctx context.Context, quoteID string, to model.Status) (bool, error)
}

type quoteRepoImpl struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepoImpl{
		db: db,
	}
}

func (r *quoteRepoImpl) Create(ctx context.Context, quote *model.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepoImpl) FindByID(ctx context.Context, quoteID string) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.WithContext(ctx).
		Where("id = ?", quoteID).
		First(&quote).Error

	if err != nil {
		return nil, err
	}

	return &quote, nil
}

func (r *quoteRepoImpl) FindByProvider(ctx context.Context, providerID string) ([]*model.Quote, error) {
	var quotes []*model.Quote
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&quotes).Error

	if err != nil {
		return nil, err
	}

	return quotes, nil
}

func (r *quoteRepoImpl) SetCheckoutSession(ctx context.Context, quoteID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&model.Quote{}).
		Where("id = ?", quoteID).
		Update("checkout_session_id", sessionID).Error
}

func (r *quoteRepoImpl) MarkPaid(ctx context.Context, quoteID, paymentIntentID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Quote{}).
		Where("id = ? AND status = ?", quoteID, model.StatusPending).
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

func (r *quoteRepoImpl) Transition(ctx context.Context, quoteID string, to model.Status) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Quote{}).
		Where("id = ? AND status IN ?", quoteID, model.SourcesOf(to)).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
