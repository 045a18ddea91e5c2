package cart

import (
	"aquashop/pricing"

	"github.com/shopspring/decimal"
)

// Reduce applies a to s and returns the new state. It is defined for every
// input: bad quantities are clamped or ignored and absent ids are no-ops.
// No line ever holds more than MaxQuantity. s is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Add:
		if a.Quantity < 1 {
			return s
		}
		items := clone(s.Items)
		if i := s.index(a.Fish.Id); i >= 0 {
			// the newest snapshot wins so the cart prices like checkout does
			items[i].Fish = a.Fish
			items[i].Quantity = addCapped(items[i].Quantity, a.Quantity)
		} else {
			items = append(items, LineItem{Fish: a.Fish, Quantity: min(a.Quantity, MaxQuantity)})
		}
		return derive(items)

	case Remove:
		return derive(without(s.Items, a.FishID))

	case SetQuantity:
		i := s.index(a.FishID)
		if i < 0 {
			return s
		}
		if a.Quantity <= 0 {
			return derive(without(s.Items, a.FishID))
		}
		items := clone(s.Items)
		items[i].Quantity = min(a.Quantity, MaxQuantity)
		return derive(items)

	case Clear:
		return Empty()

	case Load:
		return derive(normalize(a.Items))

	case Deduct:
		items := clone(s.Items)
		for _, d := range a.Items {
			for i := range items {
				if items[i].Fish.Id == d.Fish.Id && d.Quantity > 0 {
					items[i].Quantity -= min(d.Quantity, items[i].Quantity)
				}
			}
		}
		out := items[:0]
		for _, it := range items {
			if it.Quantity > 0 {
				out = append(out, it)
			}
		}
		return derive(out)
	}
	return s
}

func derive(items []LineItem) State {
	total := decimal.Zero
	count := 0
	for _, it := range items {
		total = total.Add(pricing.LineTotal(it.Fish, it.Quantity))
		count += it.Quantity
	}
	return State{Items: items, Total: total, ItemCount: count}
}

// addCapped adds two non-negative quantities, saturating at MaxQuantity.
func addCapped(q, n int) int {
	if q >= MaxQuantity || n >= MaxQuantity-q {
		return MaxQuantity
	}
	return q + n
}

func clone(items []LineItem) []LineItem {
	out := make([]LineItem, len(items), len(items)+1)
	copy(out, items)
	return out
}

func without(items []LineItem, fishID string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.Fish.Id != fishID {
			out = append(out, it)
		}
	}
	return out
}

// normalize merges duplicate ids in first-seen order and drops lines that
// have no quantity, so stored data can never break the cart invariants.
func normalize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	pos := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if i, ok := pos[it.Fish.Id]; ok {
			out[i].Quantity = addCapped(out[i].Quantity, it.Quantity)
			continue
		}
		pos[it.Fish.Id] = len(out)
		it.Quantity = min(it.Quantity, MaxQuantity)
		out = append(out, it)
	}
	return out
}
