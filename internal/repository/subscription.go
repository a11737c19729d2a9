package repository

import (
	"context"
	"time"

	"partyhub-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	// CreateFree inserts the user's single subscription row on the free plan.
	// Called inside the registration transaction.
	CreateFree(ctx context.Context, tx *gorm.DB, userID string, now time.Time) error
	GetByUserID(ctx context.Context, userID string) (*model.Subscription, error)

	// ApplyPlan rewrites the row in place with the new plan and period.
	ApplyPlan(ctx context.Context, userID, planID, planName string, price decimal.Decimal, start time.Time, end time.Time) error

	// ResetToFree reverts the row to the FREE state: plan_id and end_date go
	// null, start_date restarts now.
	ResetToFree(ctx context.Context, userID string, now time.Time) error
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) CreateFree(ctx context.Context, tx *gorm.DB, userID string, now time.Time) error {
	return tx.WithContext(ctx).Create(&model.Subscription{
		UserID:    userID,
		PlanID:    nil,
		PlanName:  model.FreePlanName,
		Price:     decimal.Zero,
		StartDate: now,
		EndDate:   nil,
	}).Error
}

func (r *subscriptionRepoImpl) GetByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sub).Error

	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) ApplyPlan(ctx context.Context, userID, planID, planName string, price decimal.Decimal, start time.Time, end time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"plan_id":    planID,
			"plan_name":  planName,
			"price":      price,
			"start_date": start,
			"end_date":   end,
			"updated_at": time.Now(),
		}).Error
}

func (r *subscriptionRepoImpl) ResetToFree(ctx context.Context, userID string, now time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"plan_id":    nil,
			"plan_name":  model.FreePlanName,
			"price":      decimal.Zero,
			"start_date": now,
			"end_date":   nil,
			"updated_at": time.Now(),
		}).Error
}
