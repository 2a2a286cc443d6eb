package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/domain/repository"
)

// QualifyingStatus decides whether an order's fulfillment status earns
// points. Upstream status names are an opaque set; the predicate pins down
// the subset this service recognizes.
type QualifyingStatus func(status string) bool

// QualifyingStatusSet builds a predicate from an explicit list of statuses.
func QualifyingStatusSet(statuses []string) QualifyingStatus {
	set := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return func(status string) bool {
		_, ok := set[status]
		return ok
	}
}

// BalanceUseCase computes earned/redeemed/available loyalty points.
//
// Accrual resolution is two tier: the remote order catalog is preferred, and
// locally recorded accruals serve as fallback when the catalog is
// unavailable or knows no orders for the user. The ledger is always the sole
// source for redeemed points.
type BalanceUseCase struct {
	orders    OrderSource
	accruals  repository.AccrualRepository
	ledger    repository.RedemptionRepository
	qualifies QualifyingStatus
	logger    *slog.Logger
}

// NewBalanceUseCase constructs BalanceUseCase.
func NewBalanceUseCase(
	orders OrderSource,
	accruals repository.AccrualRepository,
	ledger repository.RedemptionRepository,
	qualifies QualifyingStatus,
	logger *slog.Logger,
) *BalanceUseCase {
	return &BalanceUseCase{
		orders:    orders,
		accruals:  accruals,
		ledger:    ledger,
		qualifies: qualifies,
		logger:    logger,
	}
}

// Compute derives the user's balance from a single snapshot of accruals and
// redemptions. It has no side effects and is safe to call concurrently; any
// write serialization is the caller's concern.
func (u *BalanceUseCase) Compute(ctx context.Context, userID string) (*model.Balance, error) {
	var (
		remote    []model.Order
		remoteErr error
	)
	var redemptions []model.Redemption

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Remote failure is not fatal here: the local tier may still serve.
		remote, remoteErr = u.orders.ListByUser(gctx, userID)
		return nil
	})
	g.Go(func() error {
		var err error
		redemptions, err = u.ledger.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	earned, err := u.resolveEarned(ctx, userID, remote, remoteErr)
	if err != nil {
		return nil, err
	}

	var redeemed int64
	for _, r := range redemptions {
		redeemed += r.Points
	}

	return &model.Balance{
		Earned:    earned,
		Redeemed:  redeemed,
		Available: earned - redeemed,
	}, nil
}

// resolveEarned applies the two-tier precedence rule. A reachable catalog
// with at least one order for the user wins outright, even when none of its
// orders qualify. The local tier takes over when the catalog is down or
// empty; an unreachable catalog combined with an empty local tier surfaces
// as an upstream error rather than a silent zero balance.
func (u *BalanceUseCase) resolveEarned(ctx context.Context, userID string, remote []model.Order, remoteErr error) (int64, error) {
	if remoteErr == nil && len(remote) > 0 {
		var earned int64
		for _, o := range remote {
			if u.qualifies(o.Status) {
				earned += o.Points
			}
		}
		return earned, nil
	}

	local, err := u.accruals.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	if remoteErr != nil {
		if len(local) == 0 {
			return 0, domainErrors.ErrUpstreamUnavailable
		}
		u.logger.Warn("order service unavailable, serving balance from local accruals",
			slog.String("user_id", userID), slog.String("error", remoteErr.Error()))
	}

	var earned int64
	for _, a := range local {
		if a.Status == model.AccrualStatusActive {
			earned += a.Points
		}
	}
	return earned, nil
}
