package service

import (
	"context"
	"fmt"

	"partyhub-backend/internal/apperr"
	"partyhub-backend/internal/client"
	"partyhub-backend/internal/dto"
	"partyhub-backend/internal/model"
	"partyhub-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderService covers the marketplace-provider surface: quotes they issue
// and their connected payout account.
type ProviderService interface {
	CreateQuote(ctx context.Context, providerID string, req *dto.CreateQuoteRequest) (*model.Quote, error)
	ListQuotes(ctx context.Context, providerID string) ([]*model.Quote, error)
	MarkQuoteBooked(ctx context.Context, providerID, quoteID string) error
	GetBalance(ctx context.Context, accountID string) (*dto.BalanceResponse, error)
	CreateLoginLink(ctx context.Context, accountID string) (string, error)
}

type providerServiceImpl struct {
	stripeClient client.StripeClient
	quoteRepo    repository.QuoteRepository
}

func NewProviderService(stripeClient client.StripeClient, quoteRepo repository.QuoteRepository) ProviderService {
	return &providerServiceImpl{
		stripeClient: stripeClient,
		quoteRepo:    quoteRepo,
	}
}

func (s *providerServiceImpl) CreateQuote(ctx context.Context, providerID string, req *dto.CreateQuoteRequest) (*model.Quote, error) {
	if req.UserID == "" {
		return nil, apperr.Validationf("user id is required")
	}
	if !req.Price.IsPositive() {
		return nil, apperr.Validationf("quote price must be positive")
	}

	quote := &model.Quote{
		ID:          uuid.NewString(),
		ProviderID:  providerID,
		UserID:      req.UserID,
		Description: req.Description,
		Price:       req.Price,
		Currency:    "USD",
		Status:      model.StatusPending,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("store quote: %w", err)
	}

	return quote, nil
}

func (s *providerServiceImpl) ListQuotes(ctx context.Context, providerID string) ([]*model.Quote, error) {
	return s.quoteRepo.FindByProvider(ctx, providerID)
}

// MarkQuoteBooked is the provider's administrative confirmation that the
// paid service is scheduled. Only PAID quotes can move here.
func (s *providerServiceImpl) MarkQuoteBooked(ctx context.Context, providerID, quoteID string) error {
	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return apperr.NotFoundf("quote %s not found", quoteID)
	}
	if quote.ProviderID != providerID {
		return apperr.Authf("quote does not belong to provider")
	}

	booked, err := s.quoteRepo.Transition(ctx, quoteID, model.StatusBooked)
	if err != nil {
		return fmt.Errorf("mark quote booked: %w", err)
	}
	if !booked {
		return apperr.Validationf("quote %s cannot be booked in status %s", quoteID, quote.Status)
	}

	return nil
}

func (s *providerServiceImpl) GetBalance(ctx context.Context, accountID string) (*dto.BalanceResponse, error) {
	balance, err := s.stripeClient.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	resp := &dto.BalanceResponse{}
	if len(balance.Available) > 0 {
		resp.Available = decimal.New(balance.Available[0].Amount, -2)
		resp.Currency = string(balance.Available[0].Currency)
	}
	if len(balance.Pending) > 0 {
		resp.Pending = decimal.New(balance.Pending[0].Amount, -2)
	}

	return resp, nil
}

func (s *providerServiceImpl) CreateLoginLink(ctx context.Context, accountID string) (string, error) {
	if _, err := s.stripeClient.GetAccount(ctx, accountID); err != nil {
		return "", apperr.NotFoundf("connected account %s not found", accountID)
	}

	link, err := s.stripeClient.CreateLoginLink(ctx, accountID)
	if err != nil {
		return "", err
	}

	return link.URL, nil
}
