package repository

import (
	"context"

	"github.com/commercelab/loyalty/internal/domain/model"
)

// AccrualRepository stores locally recorded accruals, keyed by order.
type AccrualRepository interface {
	// Upsert writes an accrual, replacing any previous record with the same
	// OrderID.
	Upsert(ctx context.Context, accrual model.Accrual) error
	ListByUser(ctx context.Context, userID string) ([]model.Accrual, error)
	// Users returns identifiers of users that have at least one recorded
	// accrual, up to limit. A non-positive limit returns all of them.
	Users(ctx context.Context, limit int) ([]string, error)
}
