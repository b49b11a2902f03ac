package entity

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
// Transitions are server-authoritative; the client only reflects them.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking represents a reservation of a property for a date range
type Booking struct {
	Id           string        `json:"id"`
	PropertyId   string        `json:"property"`
	GuestId      string        `json:"guest"`
	CheckIn      time.Time     `json:"checkIn"`
	CheckOut     time.Time     `json:"checkOut"`
	TotalPrice   float64       `json:"totalPrice"`
	Status       BookingStatus `json:"status"`
	NumGuests    int           `json:"numberOfGuests"`
	Conversation *Conversation `json:"conversation,omitempty"`
}

// Blocks reports whether the booking participates in availability
// conflict checks. Cancelled bookings never block a candidate range.
func (b *Booking) Blocks() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
