package repository

import (
	"context"

	"partyhub-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, planID string) (*model.Plan, error)
	List(ctx context.Context) ([]*model.Plan, error)
}

type planRepoImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepoImpl{
		db: db,
	}
}

func (r *planRepoImpl) Seed(ctx context.Context) error {
	plans := []model.Plan{
		{ID: "plus_monthly", Name: "Plus monthly", StripePriceID: "price_plus_monthly", Price: decimal.NewFromFloat(9.99), Duration: model.PlanDurationMonthly},
		{ID: "plus_yearly", Name: "Plus yearly", StripePriceID: "price_plus_yearly", Price: decimal.NewFromFloat(99.00), Duration: model.PlanDurationYearly},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&plans).Error
}

func (r *planRepoImpl) FindByID(ctx context.Context, planID string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("id = ?", planID).
		First(&plan).Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepoImpl) List(ctx context.Context) ([]*model.Plan, error) {
	var plans []*model.Plan
	err := r.db.WithContext(ctx).Find(&plans).Error
	if err != nil {
		return nil, err
	}

	return plans, nil
}
