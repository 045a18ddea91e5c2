package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrUnauthorized = errors.New("unauthorized")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")

func init() {
	// prices travel as JSON numbers, the front end does arithmetic on them
	decimal.MarshalJSONWithoutQuotes = true
}

type PriceUnit string

const (
	PerWeight PriceUnit = "weight"
	PerPiece  PriceUnit = "piece"
)

func (u PriceUnit) Valid() bool {
	return u == PerWeight || u == PerPiece
}

type Availability string

const (
	InStock Availability = "in_stock"
	SoldOut Availability = "sold_out"
)

func (a Availability) Valid() bool {
	return a == InStock || a == SoldOut
}

// Care holds the keeping requirements shown on the product page.
// It is stored as a JSON document in a single column.
type Care struct {
	Level       string `json:"level,omitempty" yaml:"level"`
	Temperament string `json:"temperament,omitempty" yaml:"temperament"`
	TankSize    string `json:"tankSize,omitempty" yaml:"tankSize"`
	Temperature string `json:"temperature,omitempty" yaml:"temperature"`
	PH          string `json:"ph,omitempty" yaml:"ph"`
	Diet        string `json:"diet,omitempty" yaml:"diet"`
}

func (c Care) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Care) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = Care{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("care: unsupported column type %T", src)
	}
	if len(raw) == 0 {
		*c = Care{}
		return nil
	}
	return json.Unmarshal(raw, c)
}

// Fish is a catalog item. Optional pricing fields are null when absent.
type Fish struct {
	Id            string              `json:"id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	PriceUnit     PriceUnit           `json:"priceUnit"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Discount      decimal.NullDecimal `json:"discount"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	Availability  Availability        `json:"availability"`
	Category      string              `json:"category"`
	Description   string              `json:"description"`
	Image         string              `json:"image"`
	Care          Care                `json:"care"`
}

func (f Fish) Available() bool {
	return f.Availability != SoldOut
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
}

// CanBecome reports whether an order in status s may move to next.
func (s OrderStatus) CanBecome(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderItem struct {
	FishId    string          `json:"fishId"`
	Name      string          `json:"name"`
	PriceUnit PriceUnit       `json:"priceUnit"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Order struct {
	Id              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryCharge  decimal.Decimal `json:"deliveryCharge"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderRequestItem accepts either a bare fish id or a cart line item
// ({fish, quantity}) as sent by the browser cart.
type OrderRequestItem struct {
	FishId   string `json:"fishId,omitempty"`
	Fish     *Fish  `json:"fish,omitempty"`
	Quantity int    `json:"quantity"`
}

func (i OrderRequestItem) ID() string {
	if i.FishId != "" {
		return i.FishId
	}
	if i.Fish != nil {
		return i.Fish.Id
	}
	return ""
}

type Customer struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
}

// OrderRequest is the POST /orders body. Subtotal, DeliveryCharge and Total
// are what the client computed; the server recomputes them.
type OrderRequest struct {
	Customer
	Items          []OrderRequestItem  `json:"items"`
	Subtotal       decimal.NullDecimal `json:"subtotal"`
	DeliveryCharge decimal.NullDecimal `json:"deliveryCharge"`
	Total          decimal.NullDecimal `json:"total"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
