package availability

import "github.com/Iggy502/booking-web-sub000/internal/entity"

// Filter narrows a property catalog to the properties free for a candidate
// range. The filter has two modes: with no candidate range it is inert and
// returns its input unchanged; with a selected property it suspends list
// filtering entirely, because a single candidate is being validated rather
// than the grid being narrowed.
type Filter struct {
	// Range is the candidate date range; nil means no range selected.
	Range *DateRange

	// SelectedPropertyId suspends list filtering when non-empty.
	SelectedPropertyId string
}

// Apply returns the subset of properties whose booking set has no conflict
// with the candidate range. bookingsByProperty maps property id to its
// known bookings; a property with no entry is treated as having none.
func (f *Filter) Apply(properties []entity.Property, bookingsByProperty map[string][]entity.Booking) []entity.Property {
	if f.Range == nil || f.SelectedPropertyId != "" {
		return properties
	}

	result := make([]entity.Property, 0, len(properties))
	for _, p := range properties {
		if IsAvailable(*f.Range, bookingsByProperty[p.Id]) {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks the candidate range against a single property's bookings.
// This is the mode used once a property is selected.
func (f *Filter) Validate(bookings []entity.Booking) bool {
	if f.Range == nil {
		return true
	}
	return IsAvailable(*f.Range, bookings)
}
