package cart

import "aquashop/models"

// Action is a cart transition. The set of actions is closed.
type Action interface {
	action()
}

// Add puts Quantity more of Fish into the cart.
type Add struct {
	Fish     models.Fish
	Quantity int
}

// Remove drops the line item for FishID.
type Remove struct {
	FishID string
}

// SetQuantity overwrites the quantity for FishID. Values below one evict it.
type SetQuantity struct {
	FishID   string
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

// Load replaces the line items, used when a cart is rehydrated from storage.
type Load struct {
	Items []LineItem
}

// Deduct takes the given quantities off the matching lines, removing lines
// that run out. Ids not in the cart are skipped.
type Deduct struct {
	Items []LineItem
}

func (Add) action()         {}
func (Remove) action()      {}
func (SetQuantity) action() {}
func (Clear) action()       {}
func (Load) action()        {}
func (Deduct) action()      {}
