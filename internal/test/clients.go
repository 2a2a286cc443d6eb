package test

import (
	"context"
	"sync/atomic"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
)

// OrderSourceStub simulates the remote order service.
type OrderSourceStub struct {
	ListByUserFn func(context.Context, string) ([]model.Order, error)
	GetFn        func(context.Context, string) (*model.Order, error)

	Orders    []model.Order
	ListErr   error
	ListCalls int32
}

// ListByUser returns configured orders or the override's result.
func (s *OrderSourceStub) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	atomic.AddInt32(&s.ListCalls, 1)
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var result []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

// Get finds an order among the configured ones.
func (s *OrderSourceStub) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, orderID)
	}
	for _, o := range s.Orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// UserValidatorStub controls user existence checks in tests.
type UserValidatorStub struct {
	ValidateFn func(context.Context, string) (bool, error)
	Known      []string
	Calls      int32
}

// Validate reports whether the user is in the configured known set.
func (s *UserValidatorStub) Validate(ctx context.Context, userID string) (bool, error) {
	atomic.AddInt32(&s.Calls, 1)
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, userID)
	}
	for _, known := range s.Known {
		if known == userID {
			return true, nil
		}
	}
	return false, nil
}
