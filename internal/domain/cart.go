package domain

import "time"

// Cart states. A cart stays active until checkout orders it or the owner
// clears it away.
const (
	CartStateActive  = "active"
	CartStateOrdered = "ordered"
)

type Cart struct {
	ID          string     `json:"id,omitempty"`
	CustomerID  *string    `json:"customerId,omitempty"`
	AnonymousID *string    `json:"-"`
	Currency    string     `json:"currency"`
	TotalCents  int64      `json:"totalCents"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Items       []CartItem `json:"items"`
}

// CartItem is one product row in a cart. ProductID is unique within a cart;
// quantity is always positive because a non-positive quantity removes the row.
type CartItem struct {
	ProductID      string    `json:"productId"`
	ProductKey     string    `json:"productKey,omitempty"`
	ProductName    string    `json:"productName,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalCents     int64     `json:"totalCents"`
	AddedAt        time.Time `json:"addedAt"`
}

// Item returns the cart item for the given product, or nil.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
