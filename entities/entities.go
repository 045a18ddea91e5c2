package entities

import (
	"aquashop/models"

	"github.com/shopspring/decimal"
)

// Fish is a catalog item as served to the front end, with the price the
// customer actually pays and a resolved image.
type Fish struct {
	models.Fish
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	Savings        decimal.Decimal `json:"savings"`
}

type CartItem struct {
	Fish      Fish            `json:"fish"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartRequest struct {
	FishId   string `json:"fishId"`
	Quantity int    `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// CompareRow is one column of the side-by-side comparison view. BestPrice
// marks the lowest effective price among the compared fishes.
type CompareRow struct {
	Fish
	BestPrice bool `json:"bestPrice"`
}

type StatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type AdminSession struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}
