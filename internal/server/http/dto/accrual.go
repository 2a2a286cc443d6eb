package dto

// AccrueRequest records points earned from an order.
type AccrueRequest struct {
	OrderID    string  `json:"orderId"`
	UserID     string  `json:"userId"`
	TotalPrice float64 `json:"totalPrice"`
}

// AccrueResponse confirms a recorded accrual.
type AccrueResponse struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Points  int64  `json:"points"`
}
