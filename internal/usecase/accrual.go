package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	domainErrors "github.com/commercelab/loyalty/internal/domain/errors"
	"github.com/commercelab/loyalty/internal/domain/model"
	"github.com/commercelab/loyalty/internal/domain/repository"
)

// pointsPerPriceUnit: one loyalty point per ten units of order price.
const pointsPerPriceUnit = 10

// AccrualUseCase records loyalty accruals and keeps the local accrual cache
// in step with the remote order catalog.
type AccrualUseCase struct {
	orders    OrderSource
	users     UserValidator
	accruals  repository.AccrualRepository
	qualifies QualifyingStatus
}

// NewAccrualUseCase constructs AccrualUseCase.
func NewAccrualUseCase(orders OrderSource, users UserValidator, accruals repository.AccrualRepository, qualifies QualifyingStatus) *AccrualUseCase {
	return &AccrualUseCase{orders: orders, users: users, accruals: accruals, qualifies: qualifies}
}

// Record computes the point yield for an order and upserts an active accrual
// keyed by the order id. Recording the same order again supersedes the
// earlier accrual. All validation happens before any write.
func (u *AccrualUseCase) Record(ctx context.Context, orderID, userID string, totalPrice float64) (*model.Accrual, error) {
	if orderID == "" || userID == "" {
		return nil, domainErrors.ErrInvalidArgument
	}
	if totalPrice < 0 {
		return nil, domainErrors.ErrInvalidArgument
	}

	exists, err := u.users.Validate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domainErrors.ErrNotFound
	}

	if _, err := u.orders.Get(ctx, orderID); err != nil {
		return nil, err
	}

	accrual := model.Accrual{
		OrderID: orderID,
		UserID:  userID,
		Points:  int64(math.Floor(totalPrice / pointsPerPriceUnit)),
		Status:  model.AccrualStatusActive,
	}
	if err := u.accruals.Upsert(ctx, accrual); err != nil {
		return nil, err
	}
	return &accrual, nil
}

// UsersWithAccruals lists users that have locally recorded accruals.
func (u *AccrualUseCase) UsersWithAccruals(ctx context.Context, limit int) ([]string, error) {
	return u.accruals.Users(ctx, limit)
}

// Refresh re-reads the user's orders from the remote catalog and updates the
// local accrual cache: qualifying orders become active accruals, cancelled
// orders are superseded as cancelled. Orders still in flight are skipped.
func (u *AccrualUseCase) Refresh(ctx context.Context, userID string) error {
	remote, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("refresh accruals for %s: %w", userID, err)
	}

	for _, order := range remote {
		var status model.AccrualStatus
		switch {
		case u.qualifies(order.Status):
			status = model.AccrualStatusActive
		case strings.EqualFold(order.Status, "CANCELLED"):
			status = model.AccrualStatusCancelled
		default:
			continue
		}

		accrual := model.Accrual{
			OrderID: order.ID,
			UserID:  userID,
			Points:  order.Points,
			Status:  status,
		}
		if err := u.accruals.Upsert(ctx, accrual); err != nil {
			return fmt.Errorf("refresh accruals for %s: %w", userID, err)
		}
	}
	return nil
}
