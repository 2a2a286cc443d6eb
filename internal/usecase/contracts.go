package usecase

import (
	"context"

	"github.com/commercelab/loyalty/internal/domain/model"
)

// OrderSource is the read-only view of the remote order catalog consumed by
// the use cases.
type OrderSource interface {
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
}

// UserValidator reports whether a user exists. Implementations fail closed:
// a user that cannot be confirmed counts as unknown.
type UserValidator interface {
	Validate(ctx context.Context, userID string) (bool, error)
}
