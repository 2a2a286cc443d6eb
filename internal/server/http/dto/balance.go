package dto

// BalanceResponse reports a user's loyalty point figures.
type BalanceResponse struct {
	UserID         string `json:"userId"`
	Balance        int64  `json:"balance"`
	EarnedPoints   int64  `json:"earnedPoints"`
	RedeemedPoints int64  `json:"redeemedPoints"`
}
