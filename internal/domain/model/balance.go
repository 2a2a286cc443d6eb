package model

// Balance aggregates earned and redeemed loyalty points for a user.
// It is always derived from accruals and redemptions, never stored.
type Balance struct {
	Earned    int64
	Redeemed  int64
	Available int64
}
