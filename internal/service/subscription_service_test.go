package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

func TestPurchase_InsufficientFunds(t *testing.T) {
	repo := &fakeSubscriptionRepo{purchaseErr: repository.ErrInsufficientFunds}
	svc := service.NewSubscriptionService(repo, 12050)

	_, err := svc.Purchase(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrInsufficientFunds)
}

func TestPurchase_NewSubscription(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := service.NewSubscriptionService(repo, 12050)

	userID := uuid.New()
	result, err := svc.Purchase(context.Background(), userID)
	require.NoError(t, err)
	require.False(t, result.Renewed)
	require.Equal(t, int64(12050), result.Subscription.CostCents)
	require.Equal(t, userID, result.Subscription.UserID)
}

func TestPurchase_RenewalReportedAsSuch(t *testing.T) {
	existing := &model.Subscription{
		ID:       uuid.New(),
		IsActive: true,
		EndDate:  time.Now().Add(50 * 24 * time.Hour),
	}
	repo := &fakeSubscriptionRepo{purchaseSub: existing, renewed: true}
	svc := service.NewSubscriptionService(repo, 12050)

	result, err := svc.Purchase(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, result.Renewed)
	require.Equal(t, existing.ID, result.Subscription.ID)
}

func TestSweepExpired_ReportsCount(t *testing.T) {
	repo := &fakeSubscriptionRepo{sweepCount: 7}
	svc := service.NewSubscriptionService(repo, 12050)

	swept, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(7), swept)
}
