package app

import (
	"context"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/usecase"
)

// LoyaltyFacade aggregates the use cases behind a single application surface
// consumed by the HTTP handlers and the background worker.
type LoyaltyFacade struct {
	users       usecase.UserValidator
	balance     *usecase.BalanceUseCase
	redemptions *usecase.RedemptionUseCase
	accruals    *usecase.AccrualUseCase
}

// NewLoyaltyFacade constructs LoyaltyFacade.
func NewLoyaltyFacade(
	users usecase.UserValidator,
	balance *usecase.BalanceUseCase,
	redemptions *usecase.RedemptionUseCase,
	accruals *usecase.AccrualUseCase,
) *LoyaltyFacade {
	return &LoyaltyFacade{users: users, balance: balance, redemptions: redemptions, accruals: accruals}
}

// Balance returns the user's current balance figures.
func (f *LoyaltyFacade) Balance(ctx context.Context, userID string) (*model.Balance, error) {
	exists, err := f.users.Validate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domainErrors.ErrNotFound
	}
	return f.balance.Compute(ctx, userID)
}

// Redeem spends points for the user, returning the committed record and the
// remaining balance.
func (f *LoyaltyFacade) Redeem(ctx context.Context, userID string, points int64) (*model.Redemption, int64, error) {
	return f.redemptions.Redeem(ctx, userID, points)
}

// History returns the user's redemptions, newest first.
func (f *LoyaltyFacade) History(ctx context.Context, userID string) ([]model.Redemption, error) {
	return f.redemptions.History(ctx, userID)
}

// RecordAccrual registers points earned from an order.
func (f *LoyaltyFacade) RecordAccrual(ctx context.Context, orderID, userID string, totalPrice float64) (*model.Accrual, error) {
	return f.accruals.Record(ctx, orderID, userID, totalPrice)
}

// UsersWithAccruals lists users whose local accrual cache may need a refresh.
func (f *LoyaltyFacade) UsersWithAccruals(ctx context.Context, limit int) ([]string, error) {
	return f.accruals.UsersWithAccruals(ctx, limit)
}

// RefreshAccruals updates the local accrual cache for one user from the
// remote order catalog.
func (f *LoyaltyFacade) RefreshAccruals(ctx context.Context, userID string) error {
	return f.accruals.Refresh(ctx, userID)
}
