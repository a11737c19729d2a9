package service

import (
	"context"

	"partyhub-backend/internal/model"
	"partyhub-backend/internal/repository"
)

type PlanService interface {
	ListPlans(ctx context.Context) ([]*model.Plan, error)
}

type planServiceImpl struct {
	planRepo repository.PlanRepository
}

func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return &planServiceImpl{planRepo: planRepo}
}

func (s *planServiceImpl) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	return s.planRepo.List(ctx)
}
