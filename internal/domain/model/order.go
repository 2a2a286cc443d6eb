package model

import "time"

// Order describes a purchase order as reported by the remote order service.
// Status values are opaque upstream strings; the qualifying predicate decides
// which of them contribute points.
type Order struct {
	ID         string
	UserID     string
	Status     string
	Points     int64
	TotalPrice float64
	OrderDate  time.Time
}
