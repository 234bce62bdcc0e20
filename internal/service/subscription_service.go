package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// PurchaseResult reports whether an existing subscription was extended or a
// new one created.
type PurchaseResult struct {
	Subscription *model.Subscription `json:"subscription"`
	Renewed      bool                `json:"renewed"`
}

type SubscriptionService interface {
	Purchase(ctx context.Context, userID uuid.UUID) (*PurchaseResult, error)
	ListUserSubscriptions(ctx context.Context, userID uuid.UUID) ([]model.Subscription, error)
	HasActive(ctx context.Context, userID uuid.UUID) (bool, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	costCents        int64
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository, costCents int64) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		costCents:        costCents,
	}
}

// Purchase debits the configured cost and either extends the active
// subscription by 30 days or opens a new one. Debit and mutation commit
// together or not at all.
func (s *subscriptionService) Purchase(ctx context.Context, userID uuid.UUID) (*PurchaseResult, error) {
	sub, renewed, err := s.subscriptionRepo.Purchase(ctx, userID, s.costCents)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	return &PurchaseResult{Subscription: sub, Renewed: renewed}, nil
}

func (s *subscriptionService) ListUserSubscriptions(ctx context.Context, userID uuid.UUID) ([]model.Subscription, error) {
	return s.subscriptionRepo.ListByUser(ctx, userID)
}

func (s *subscriptionService) HasActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.subscriptionRepo.HasActive(ctx, userID)
}

// SweepExpired deactivates lapsed subscriptions. Safe to run on any cadence;
// a second run right after the first changes nothing.
func (s *subscriptionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.subscriptionRepo.SweepExpired(ctx)
}
