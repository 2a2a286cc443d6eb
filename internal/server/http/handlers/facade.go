package handlers

import (
	"context"

	"github.com/commercelab/loyalty/internal/domain/model"
)

// BalanceFacade provides balance related operations.
type BalanceFacade interface {
	Balance(ctx context.Context, userID string) (*model.Balance, error)
}

// RedemptionFacade encapsulates redemption operations exposed via HTTP.
type RedemptionFacade interface {
	Redeem(ctx context.Context, userID string, points int64) (*model.Redemption, int64, error)
	History(ctx context.Context, userID string) ([]model.Redemption, error)
}

// AccrualFacade records points earned from orders.
type AccrualFacade interface {
	RecordAccrual(ctx context.Context, orderID, userID string, totalPrice float64) (*model.Accrual, error)
}

// LoyaltyFacade aggregates the full set of operations used across handlers.
type LoyaltyFacade interface {
	BalanceFacade
	RedemptionFacade
	AccrualFacade
}
