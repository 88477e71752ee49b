package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	SessionID       string          `json:"sessionId,omitempty"`
	Items           []CartItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	LoyaltyCredited bool            `json:"loyaltyCredited"`
	CreatedAt       time.Time       `json:"createdAt"`
}
