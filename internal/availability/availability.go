// Package availability decides whether candidate date ranges conflict with
// existing bookings. All checks work on calendar dates; time-of-day is
// ignored. Overlap uses closed endpoints: ranges that merely touch conflict,
// which deliberately rules out same-day turnover.
package availability

import (
	"time"

	"github.com/Iggy502/booking-web-sub000/internal/entity"
)

// DateRange is a candidate closed interval of calendar dates. Callers
// must ensure Start is strictly before End; the checker does not validate
// this and its result is undefined otherwise.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// dateOnly truncates a timestamp to its calendar date in UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// overlaps reports whether the candidate conflicts with a booked interval
// under the closed-interval rule: neither lies entirely before the other,
// touching boundaries included.
func overlaps(candidate DateRange, checkIn, checkOut time.Time) bool {
	cs := dateOnly(candidate.Start)
	ce := dateOnly(candidate.End)
	bs := dateOnly(checkIn)
	be := dateOnly(checkOut)
	return !cs.After(be) && !ce.Before(bs)
}

// IsAvailable reports whether the candidate range is free given the
// existing bookings of one property. Cancelled bookings never block.
func IsAvailable(candidate DateRange, bookings []entity.Booking) bool {
	for i := range bookings {
		b := &bookings[i]
		if !b.Blocks() {
			continue
		}
		if overlaps(candidate, b.CheckIn, b.CheckOut) {
			return false
		}
	}
	return true
}

// ExcludedRange returns the interval a date picker should block for an
// existing booking: one extra day of padding before check-in so adjacent-day
// selection is not offered. This is UI policy layered on top of the strict
// checker, not the checker's own semantics.
func ExcludedRange(b *entity.Booking) DateRange {
	return DateRange{
		Start: dateOnly(b.CheckIn).AddDate(0, 0, -1),
		End:   dateOnly(b.CheckOut),
	}
}

// Nights returns the number of nights between check-in and check-out,
// rounding partial days up.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}
