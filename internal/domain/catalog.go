package domain

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Recipe   string          `json:"recipe"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type Review struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Details string `json:"details"`
	Rating  int    `json:"rating"`
}
