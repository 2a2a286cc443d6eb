package test

import (
	"context"
	"sync"
	"time"

	"github.com/commercelab/loyalty/internal/domain/model"
)

// LoyaltyFacadeStub provides controllable behaviour for HTTP handler tests.
type LoyaltyFacadeStub struct {
	BalanceFn func(context.Context, string) (*model.Balance, error)
	RedeemFn  func(context.Context, string, int64) (*model.Redemption, int64, error)
	HistoryFn func(context.Context, string) ([]model.Redemption, error)
	RecordFn  func(context.Context, string, string, float64) (*model.Accrual, error)
}

// Balance returns stubbed balance figures.
func (s LoyaltyFacadeStub) Balance(ctx context.Context, userID string) (*model.Balance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, userID)
	}
	return &model.Balance{Earned: 300, Redeemed: 100, Available: 200}, nil
}

// Redeem returns a stubbed redemption record.
func (s LoyaltyFacadeStub) Redeem(ctx context.Context, userID string, points int64) (*model.Redemption, int64, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, userID, points)
	}
	return &model.Redemption{ID: "stub", UserID: userID, Points: points, CreatedAt: time.Unix(0, 0).UTC()}, 0, nil
}

// History returns stubbed redemption history.
func (s LoyaltyFacadeStub) History(ctx context.Context, userID string) ([]model.Redemption, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, userID)
	}
	return nil, nil
}

// RecordAccrual returns a stubbed accrual.
func (s LoyaltyFacadeStub) RecordAccrual(ctx context.Context, orderID, userID string, totalPrice float64) (*model.Accrual, error) {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, orderID, userID, totalPrice)
	}
	return &model.Accrual{OrderID: orderID, UserID: userID, Points: 1, Status: model.AccrualStatusActive}, nil
}

// SyncFacadeStub mimics worker interactions with the loyalty facade.
type SyncFacadeStub struct {
	UsersFn   func(context.Context, int) ([]string, error)
	RefreshFn func(context.Context, string) error

	Batches [][]string

	mu        sync.Mutex
	batchCall int
	Refreshed []string
}

// UsersWithAccruals returns batches from the configured queue.
func (s *SyncFacadeStub) UsersWithAccruals(ctx context.Context, limit int) ([]string, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batchCall < len(s.Batches) {
		batch := s.Batches[s.batchCall]
		s.batchCall++
		return batch, nil
	}
	return nil, nil
}

// RefreshAccruals records refresh requests.
func (s *SyncFacadeStub) RefreshAccruals(ctx context.Context, userID string) error {
	if s.RefreshFn != nil {
		return s.RefreshFn(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Refreshed = append(s.Refreshed, userID)
	return nil
}

// RefreshedUsers returns a copy of recorded refreshes.
func (s *SyncFacadeStub) RefreshedUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Refreshed...)
}
