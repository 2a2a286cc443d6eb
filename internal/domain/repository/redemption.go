package repository

import (
	"context"

	"github.com/commercelab/loyalty/internal/domain/model"
)

// RedemptionRepository is the append-only redemption ledger. No update or
// delete operations exist.
type RedemptionRepository interface {
	Append(ctx context.Context, redemption model.Redemption) error
	// ListByUser returns all redemptions for the user in no particular order.
	ListByUser(ctx context.Context, userID string) ([]model.Redemption, error)
}
