// Package cartstate holds the pure cart transition logic shared by every
// cart store. Reducers never talk to storage: persistence belongs to the
// repositories and the cart service.
package cartstate

import (
	"time"

	"heritage-boutique/internal/domain"
)

// ActionType enumerates cart transitions.
type ActionType int

const (
	SetCart ActionType = iota
	AddItem
	RemoveItem
	UpdateQuantity
	ClearCart
)

// Action is one cart transition. Which fields matter depends on Type:
// SetCart uses Cart; AddItem uses Item; RemoveItem uses ProductID;
// UpdateQuantity uses ProductID and Quantity.
type Action struct {
	Type      ActionType
	Cart      *domain.Cart
	Item      domain.CartItem
	ProductID string
	Quantity  int
}

// Apply returns the cart after the action. The input cart is not mutated.
// Every transition recomputes the total from the items; totals arriving in
// an action payload are never trusted.
func Apply(cart domain.Cart, action Action) domain.Cart {
	switch action.Type {
	case SetCart:
		if action.Cart != nil {
			cart = *action.Cart
			cart.Items = append([]domain.CartItem(nil), cart.Items...)
		}
	case AddItem:
		cart.Items = addItem(cart.Items, action.Item)
	case RemoveItem:
		cart.Items = removeItem(cart.Items, action.ProductID)
	case UpdateQuantity:
		if action.Quantity <= 0 {
			cart.Items = removeItem(cart.Items, action.ProductID)
		} else {
			cart.Items = setQuantity(cart.Items, action.ProductID, action.Quantity)
		}
	case ClearCart:
		cart.Items = nil
	}

	Recompute(&cart)
	return cart
}

// Recompute derives every item total and the cart total from unit prices and
// quantities. Call it after any mutation before the cart is observable.
func Recompute(cart *domain.Cart) {
	var total int64
	for i := range cart.Items {
		cart.Items[i].TotalCents = cart.Items[i].UnitPriceCents * int64(cart.Items[i].Quantity)
		total += cart.Items[i].TotalCents
	}
	cart.TotalCents = total
	cart.UpdatedAt = time.Now().UTC()
}

// addItem merges by product ID: adding a product already in the cart bumps
// its quantity instead of duplicating the row.
func addItem(items []domain.CartItem, item domain.CartItem) []domain.CartItem {
	if item.Quantity <= 0 {
		return items
	}
	out := append([]domain.CartItem(nil), items...)
	for i := range out {
		if out[i].ProductID == item.ProductID {
			out[i].Quantity += item.Quantity
			return out
		}
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	return append(out, item)
}

func removeItem(items []domain.CartItem, productID string) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

func setQuantity(items []domain.CartItem, productID string, quantity int) []domain.CartItem {
	out := append([]domain.CartItem(nil), items...)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = quantity
			break
		}
	}
	return out
}
