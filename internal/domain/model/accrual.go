package model

// AccrualStatus describes the lifecycle state of a locally recorded accrual.
type AccrualStatus string

const (
	AccrualStatusActive    AccrualStatus = "ACTIVE"
	AccrualStatusCancelled AccrualStatus = "CANCELLED"
)

// Accrual is a record of loyalty points earned from a single order.
// Accruals are upserted idempotently by OrderID and never deleted.
type Accrual struct {
	OrderID string
	UserID  string
	Points  int64
	Status  AccrualStatus
}
