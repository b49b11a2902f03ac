package client

import (
	"context"

	"github.com/Iggy502/booking-web-sub000/internal/entity"
	"github.com/Iggy502/booking-web-sub000/pkg/idgen"
)

// Create submits a new booking
func (c *Client) Create(ctx context.Context, b *entity.Booking) (*entity.Booking, error) {
	req := &CreateBookingRequest{
		RequestId:  idgen.RequestId(),
		PropertyId: b.PropertyId,
		GuestId:    b.GuestId,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		TotalPrice: b.TotalPrice,
		NumGuests:  b.NumGuests,
	}

	var result entity.Booking
	if err := c.post(ctx, "/bookings", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByProperty returns all bookings of a property
func (c *Client) ListByProperty(ctx context.Context, propertyId string) ([]entity.Booking, error) {
	var result []entity.Booking
	if err := c.get(ctx, "/bookings/property/"+propertyId, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser returns all bookings made by a user
func (c *Client) ListByUser(ctx context.Context, userId string) ([]entity.Booking, error) {
	var result []entity.Booking
	if err := c.get(ctx, "/bookings/user/"+userId, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
