package domain

import "github.com/shopspring/decimal"

type CartItem struct {
	ID         string          `json:"_id"`
	MenuItemID string          `json:"menuItemId"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}
