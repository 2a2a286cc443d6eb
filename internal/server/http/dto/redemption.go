package dto

import "time"

// RedeemRequest describes a redemption request payload.
type RedeemRequest struct {
	Points int64 `json:"points"`
}

// RedemptionResponse describes a committed redemption.
type RedemptionResponse struct {
	RedemptionID string    `json:"redemptionId"`
	UserID       string    `json:"userId"`
	Points       int64     `json:"points"`
	Timestamp    time.Time `json:"timestamp"`
	NewBalance   int64     `json:"newBalance"`
}

// RedemptionRecord is a single history entry.
type RedemptionRecord struct {
	RedemptionID string    `json:"redemptionId"`
	UserID       string    `json:"userId"`
	Points       int64     `json:"points"`
	Timestamp    time.Time `json:"timestamp"`
}

// RedemptionHistoryResponse lists a user's redemptions, newest first.
type RedemptionHistoryResponse struct {
	UserID      string             `json:"userId"`
	Redemptions []RedemptionRecord `json:"redemptions"`
}
