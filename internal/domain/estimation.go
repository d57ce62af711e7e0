package domain

import "time"

// Estimation is a visit-quote request for group tours and private events.
type Estimation struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      string    `json:"phone,omitempty"`
	VisitDate  string    `json:"visitDate"`
	VisitTime  string    `json:"visitTime,omitempty"`
	GroupSize  int       `json:"groupSize"`
	VisitKind  string    `json:"visitKind"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
