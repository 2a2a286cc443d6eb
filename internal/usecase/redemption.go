package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/domain/repository"
	"github.com/commercelab/loyalty/internal/pkg/keylock"
)

// RedemptionUseCase commits redemptions against the ledger.
//
// Correctness hinges on one rule: at most one redemption for a user may be
// in flight between balance validation and ledger append. The per-user lock
// is held across every suspension point of that window, so two concurrent
// requests can never both validate against the same stale balance. Requests
// for different users run fully in parallel.
type RedemptionUseCase struct {
	users   UserValidator
	balance *BalanceUseCase
	ledger  repository.RedemptionRepository
	locks   *keylock.KeyLock

	now   func() time.Time
	newID func() string
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(users UserValidator, balance *BalanceUseCase, ledger repository.RedemptionRepository) *RedemptionUseCase {
	return &RedemptionUseCase{
		users:   users,
		balance: balance,
		ledger:  ledger,
		locks:   keylock.New(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Redeem validates and commits a redemption, returning the new record and
// the balance remaining after it. Exactly one ledger append happens on
// success and none on any rejection path.
func (u *RedemptionUseCase) Redeem(ctx context.Context, userID string, points int64) (*model.Redemption, int64, error) {
	if points <= 0 {
		return nil, 0, domainErrors.ErrInvalidAmount
	}

	// Once admitted, the redemption runs to completion even if the caller
	// abandons the request; a half-observed commit must never depend on the
	// caller sticking around.
	ctx = context.WithoutCancel(ctx)

	u.locks.Lock(userID)
	defer u.locks.Unlock(userID)

	exists, err := u.users.Validate(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, domainErrors.ErrNotFound
	}

	balance, err := u.balance.Compute(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if balance.Available < points {
		return nil, 0, domainErrors.ErrInsufficientBalance
	}

	redemption := model.Redemption{
		ID:        u.newID(),
		UserID:    userID,
		Points:    points,
		CreatedAt: u.now().UTC(),
	}
	if err := u.ledger.Append(ctx, redemption); err != nil {
		return nil, 0, err
	}

	// No other writer could have intervened while the slot was held, so the
	// pre-commit snapshot stays valid.
	return &redemption, balance.Available - points, nil
}

// History returns the user's redemptions, most recent first. Entries with
// identical timestamps keep their insertion order.
func (u *RedemptionUseCase) History(ctx context.Context, userID string) ([]model.Redemption, error) {
	exists, err := u.users.Validate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domainErrors.ErrNotFound
	}

	redemptions, err := u.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(redemptions, func(i, j int) bool {
		return redemptions[i].CreatedAt.After(redemptions[j].CreatedAt)
	})
	return redemptions, nil
}
