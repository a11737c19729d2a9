package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partyhub-backend/internal/apperr"
	"partyhub-backend/internal/model"
	"partyhub-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	// Register creates the user and their FREE subscription row in one
	// transaction: every user has exactly one subscription from day one.
	Register(ctx context.Context, email, name string) (*model.User, error)
	GetSubscription(ctx context.Context, userID string) (*model.Subscription, error)
}

type userServiceImpl struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
	now      func() time.Time
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository, subRepo repository.SubscriptionRepository) UserService {
	return &userServiceImpl{
		db:       db,
		userRepo: userRepo,
		subRepo:  subRepo,
		now:      time.Now,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, email, name string) (*model.User, error) {
	if email == "" {
		return nil, apperr.Validationf("email is required")
	}

	user := &model.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("store user: %w", err)
		}
		if err := s.subRepo.CreateFree(ctx, tx, user.ID, s.now()); err != nil {
			return fmt.Errorf("store free subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userServiceImpl) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("subscription for user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}

	return sub, nil
}
