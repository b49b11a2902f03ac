package client

import (
	"encoding/json"
	"time"

	"github.com/Iggy502/booking-web-sub000/internal/entity"
)

// Response represents the standard API response envelope
type Response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// CreateBookingRequest represents a booking submission. RequestId is a
// client-generated idempotency key: a retried submission with the same
// key must not double-book.
type CreateBookingRequest struct {
	RequestId  string    `json:"requestId,omitempty"`
	PropertyId string    `json:"property"`
	GuestId    string    `json:"guest"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	TotalPrice float64   `json:"totalPrice"`
	NumGuests  int       `json:"numberOfGuests"`
}

// PropertySearchRequest represents search filters for the property catalog
type PropertySearchRequest struct {
	City      string               `json:"city,omitempty"`
	MaxGuests int                  `json:"maxGuests,omitempty"`
	Amenities []entity.AmenityType `json:"amenities,omitempty"`
}

// CreatePropertyRequest represents a property submission
type CreatePropertyRequest struct {
	Name          string           `json:"name"`
	Address       entity.Address   `json:"address"`
	PricePerNight float64          `json:"pricePerNight"`
	MaxGuests     int              `json:"maxGuests"`
	Amenities     []entity.Amenity `json:"amenities,omitempty"`
}

// UpdatePropertyRequest represents a partial property edit
type UpdatePropertyRequest struct {
	Name          *string          `json:"name,omitempty"`
	PricePerNight *float64         `json:"pricePerNight,omitempty"`
	MaxGuests     *int             `json:"maxGuests,omitempty"`
	Available     *bool            `json:"available,omitempty"`
	Amenities     []entity.Amenity `json:"amenities,omitempty"`
}
