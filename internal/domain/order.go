package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	MenuItemID string          `json:"menuItemId,omitempty"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

// Order is one checkout attempt. Cart, Total, Currency and TransactionID are
// fixed at creation; only PaidStatus changes afterwards.
type Order struct {
	ID            string          `json:"_id"`
	Cart          []LineItem      `json:"cart"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	TransactionID string          `json:"transactionId"`
	PaidStatus    bool            `json:"paidStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (o *Order) ProductNames() []string {
	out := make([]string, 0, len(o.Cart))
	for _, it := range o.Cart {
		out = append(out, it.Name)
	}
	return out
}

type OrderEventType string

const (
	OrderPlaced  OrderEventType = "OrderPlaced"
	OrderPaid    OrderEventType = "OrderPaid"
	OrderRemoved OrderEventType = "OrderRemoved"
)

type OrderEvent struct {
	Type          OrderEventType  `json:"type"`
	TransactionID string          `json:"transactionId"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Reason        string          `json:"reason,omitempty"`
	At            time.Time       `json:"at"`
}
