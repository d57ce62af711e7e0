package domain

import "time"

// Order is a completed checkout. Payment is simulated: the order carries the
// declared payment method but no transaction reference.
type Order struct {
	ID                string      `json:"id"`
	Number            string      `json:"number"`
	CustomerID        *string     `json:"customerId,omitempty"`
	Email             string      `json:"email"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Phone             string      `json:"phone,omitempty"`
	Street            string      `json:"street"`
	City              string      `json:"city"`
	PostalCode        string      `json:"postalCode"`
	Country           string      `json:"country"`
	PaymentMethod     string      `json:"paymentMethod"`
	Notes             string      `json:"notes,omitempty"`
	TotalCents        int64       `json:"totalCents"`
	Currency          string      `json:"currency"`
	EstimatedDelivery time.Time   `json:"estimatedDelivery"`
	CreatedAt         time.Time   `json:"createdAt"`
	Lines             []OrderLine `json:"lines,omitempty"`
}

type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}
