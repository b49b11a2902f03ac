// Package booking orchestrates booking creation: availability
// confirmation against the source of truth, price computation, booking
// submission and the chat bootstrap notification.
package booking

import (
	"context"
	"time"

	"github.com/mbeoliero/kit/log"

	"github.com/Iggy502/booking-web-sub000/internal/availability"
	"github.com/Iggy502/booking-web-sub000/internal/entity"
	"github.com/Iggy502/booking-web-sub000/pkg/errcode"
)

// BookingStore is the external booking collaborator
type BookingStore interface {
	Create(ctx context.Context, b *entity.Booking) (*entity.Booking, error)
	ListByProperty(ctx context.Context, propertyId string) ([]entity.Booking, error)
}

// PropertyStore is the external property collaborator
type PropertyStore interface {
	GetById(ctx context.Context, id string) (*entity.Property, error)
}

// UserStore resolves user summaries for the chat bootstrap
type UserStore interface {
	GetUserById(ctx context.Context, id string) (*entity.User, error)
}

// Notifier announces a freshly created booking chat to the remote party.
// Notification is best effort: a failure never rolls the booking back.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, chat *entity.BookingChat) error
}

// ConfirmRequest carries the booking parameters
type ConfirmRequest struct {
	PropertyId string
	GuestId    string
	CheckIn    time.Time
	CheckOut   time.Time
	NumGuests  int
}

// Flow runs the booking creation orchestration
type Flow struct {
	bookings   BookingStore
	properties PropertyStore
	users      UserStore
	notifier   Notifier
}

// NewFlow creates a booking flow
func NewFlow(bookings BookingStore, properties PropertyStore, users UserStore, notifier Notifier) *Flow {
	return &Flow{
		bookings:   bookings,
		properties: properties,
		users:      users,
		notifier:   notifier,
	}
}

// Confirm re-validates availability against the latest bookings, submits
// the booking, and bootstraps the conversation. A locally cached booking
// list is never trusted for the final check.
func (f *Flow) Confirm(ctx context.Context, req ConfirmRequest) (*entity.Booking, error) {
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, errcode.ErrInvalidDateRange
	}

	property, err := f.properties.GetById(ctx, req.PropertyId)
	if err != nil {
		return nil, errcode.ErrPropertyNotFound.Wrap(err)
	}

	existing, err := f.bookings.ListByProperty(ctx, req.PropertyId)
	if err != nil {
		return nil, errcode.ErrInternalServer.Wrap(err)
	}

	candidate := availability.DateRange{Start: req.CheckIn, End: req.CheckOut}
	if !availability.IsAvailable(candidate, existing) {
		return nil, errcode.ErrPropertyUnavailable
	}

	nights := availability.Nights(req.CheckIn, req.CheckOut)
	draft := &entity.Booking{
		PropertyId: req.PropertyId,
		GuestId:    req.GuestId,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		TotalPrice: float64(nights) * property.PricePerNight,
		Status:     entity.BookingPending,
		NumGuests:  req.NumGuests,
	}

	created, err := f.bookings.Create(ctx, draft)
	if err != nil {
		return nil, errcode.ErrBookingRejected.Wrap(err)
	}

	f.bootstrapChat(ctx, created, property)
	return created, nil
}

// bootstrapChat tells the remote party a conversation should appear
// without a page reload. Failures only delay chat availability.
func (f *Flow) bootstrapChat(ctx context.Context, b *entity.Booking, property *entity.Property) {
	if f.notifier == nil || b.Conversation == nil {
		return
	}

	owner, err := f.users.GetUserById(ctx, property.OwnerId)
	if err != nil {
		log.CtxWarn(ctx, "chat bootstrap skipped, owner lookup failed: %v", err)
		return
	}
	guest, err := f.users.GetUserById(ctx, b.GuestId)
	if err != nil {
		log.CtxWarn(ctx, "chat bootstrap skipped, guest lookup failed: %v", err)
		return
	}

	chat := &entity.BookingChat{
		BookingId:    b.Id,
		Property:     property.Summary(owner.Summary()),
		Guest:        guest.Summary(),
		Conversation: *b.Conversation,
	}

	if err := f.notifier.NotifyBookingCreated(ctx, chat); err != nil {
		log.CtxWarn(ctx, "booking created notification failed: booking_id=%s, error=%v", b.Id, err)
	}
}
