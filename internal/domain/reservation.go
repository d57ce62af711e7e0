package domain

import "time"

// Reservation is a guest-house stay booked alongside a palace visit.
// Ownership is the reservation's email; lookups and mutations must present it.
type Reservation struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	GuestName   string    `json:"guestName"`
	Phone       string    `json:"phone,omitempty"`
	RoomType    string    `json:"roomType"`
	CheckIn     time.Time `json:"checkIn"`
	CheckOut    time.Time `json:"checkOut"`
	Guests      int       `json:"guests"`
	TotalCents  int64     `json:"totalCents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Reservation statuses.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)
