// Package cart holds the shopping cart state machine and the session layer
// that mirrors it to a key-value store.
package cart

import (
	"aquashop/models"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the most of one fish a cart line or order line may hold.
const MaxQuantity = 999

// LineItem is a fish snapshot, refreshed each time the fish is added, and a
// quantity.
type LineItem struct {
	Fish     models.Fish `json:"fish"`
	Quantity int         `json:"quantity"`
}

// State is the cart. Total and ItemCount are derived from Items and are only
// ever set by derive.
type State struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Empty returns a cart with no items.
func Empty() State {
	return State{Items: []LineItem{}, Total: decimal.Zero}
}

// Find returns the line item for a fish id.
func (s State) Find(fishID string) (LineItem, bool) {
	if i := s.index(fishID); i >= 0 {
		return s.Items[i], true
	}
	return LineItem{}, false
}

func (s State) index(fishID string) int {
	for i, it := range s.Items {
		if it.Fish.Id == fishID {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy whose item slice is not shared with s.
func (s State) Snapshot() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// Changed reports whether the line items differ from prev in identity,
// order or quantity.
func (s State) Changed(prev State) bool {
	if len(s.Items) != len(prev.Items) {
		return true
	}
	for i := range s.Items {
		if s.Items[i].Fish.Id != prev.Items[i].Fish.Id || s.Items[i].Quantity != prev.Items[i].Quantity {
			return true
		}
	}
	return false
}
