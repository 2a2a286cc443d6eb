package test

import (
	"context"
	"sync"

	"github.com/commercelab/loyalty/internal/domain/model"
)

// AccrualRepositoryStub stores accruals in memory and lets tests override
// individual operations.
type AccrualRepositoryStub struct {
	UpsertFn     func(context.Context, model.Accrual) error
	ListByUserFn func(context.Context, string) ([]model.Accrual, error)
	UsersFn      func(context.Context, int) ([]string, error)

	mu       sync.Mutex
	Accruals map[string][]model.Accrual
	Upserts  []model.Accrual
}

// Upsert records the accrual, replacing any entry with the same order id.
func (s *AccrualRepositoryStub) Upsert(ctx context.Context, accrual model.Accrual) error {
	if s.UpsertFn != nil {
		return s.UpsertFn(ctx, accrual)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Accruals == nil {
		s.Accruals = make(map[string][]model.Accrual)
	}
	s.Upserts = append(s.Upserts, accrual)
	list := s.Accruals[accrual.UserID]
	for i, a := range list {
		if a.OrderID == accrual.OrderID {
			list[i] = accrual
			s.Accruals[accrual.UserID] = list
			return nil
		}
	}
	s.Accruals[accrual.UserID] = append(list, accrual)
	return nil
}

// ListByUser returns stored accruals for the user.
func (s *AccrualRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Accrual, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Accrual(nil), s.Accruals[userID]...), nil
}

// Users lists user identifiers with stored accruals.
func (s *AccrualRepositoryStub) Users(ctx context.Context, limit int) ([]string, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]string, 0, len(s.Accruals))
	for u := range s.Accruals {
		if limit > 0 && len(users) == limit {
			break
		}
		users = append(users, u)
	}
	return users, nil
}

// RedemptionRepositoryStub is an in-memory append-only ledger for tests.
type RedemptionRepositoryStub struct {
	AppendFn     func(context.Context, model.Redemption) error
	ListByUserFn func(context.Context, string) ([]model.Redemption, error)

	mu          sync.Mutex
	Redemptions map[string][]model.Redemption
}

// Append stores the redemption.
func (s *RedemptionRepositoryStub) Append(ctx context.Context, redemption model.Redemption) error {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, redemption)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Redemptions == nil {
		s.Redemptions = make(map[string][]model.Redemption)
	}
	s.Redemptions[redemption.UserID] = append(s.Redemptions[redemption.UserID], redemption)
	return nil
}

// ListByUser returns stored redemptions for the user.
func (s *RedemptionRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Redemption, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Redemption(nil), s.Redemptions[userID]...), nil
}

// Count reports how many redemptions a user has, for assertions.
func (s *RedemptionRepositoryStub) Count(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Redemptions[userID])
}
