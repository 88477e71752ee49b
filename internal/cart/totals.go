package cart

import (
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/shopspring/decimal"
)

// Total is the amount due for the items: sum of price x quantity.
func Total(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count is the number of units across all items.
func Count(items []domain.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// Normalize replays client supplied items through the reducer so the result
// holds each id once, in first-seen order, with quantity >= 1. Duplicated ids
// keep the first entry's name, price and image and accumulate quantities.
func Normalize(items []domain.CartItem) []domain.CartItem {
	state := State{}
	for _, item := range items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		before := quantityOf(state.Items, item.ID)
		state = Reduce(state, AddItem(item))
		state = Reduce(state, UpdateQuantity(item.ID, before+item.Quantity))
	}
	if state.Items == nil {
		return []domain.CartItem{}
	}
	return state.Items
}

func quantityOf(items []domain.CartItem, id string) int {
	for _, item := range items {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}
