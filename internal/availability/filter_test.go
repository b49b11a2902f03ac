package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Iggy502/booking-web-sub000/internal/entity"
)

func testCatalog() []entity.Property {
	return []entity.Property{
		{Id: "p1", Name: "Canal House"},
		{Id: "p2", Name: "Beach Cabin"},
		{Id: "p3", Name: "City Loft"},
	}
}

func TestFilter_Apply(t *testing.T) {
	properties := testCatalog()
	bookings := map[string][]entity.Booking{
		"p1": {booking(entity.BookingConfirmed, date(2024, 7, 10), date(2024, 7, 15))},
		"p2": {booking(entity.BookingCancelled, date(2024, 7, 10), date(2024, 7, 15))},
	}

	t.Run("no candidate range is inert", func(t *testing.T) {
		f := &Filter{}
		result := f.Apply(properties, bookings)
		assert.Equal(t, properties, result)
	})

	t.Run("filters conflicting properties", func(t *testing.T) {
		f := &Filter{Range: &DateRange{Start: date(2024, 7, 12), End: date(2024, 7, 18)}}
		result := f.Apply(properties, bookings)

		ids := make([]string, 0, len(result))
		for _, p := range result {
			ids = append(ids, p.Id)
		}
		assert.Equal(t, []string{"p2", "p3"}, ids, "p1 conflicts, p2 only has a cancelled booking")
	})

	t.Run("selected property suspends list filtering", func(t *testing.T) {
		f := &Filter{
			Range:              &DateRange{Start: date(2024, 7, 12), End: date(2024, 7, 18)},
			SelectedPropertyId: "p1",
		}
		result := f.Apply(properties, bookings)
		assert.Equal(t, properties, result, "grid is no longer being filtered")
	})
}

func TestFilter_Validate(t *testing.T) {
	conflicting := []entity.Booking{
		booking(entity.BookingConfirmed, date(2024, 7, 10), date(2024, 7, 15)),
	}

	t.Run("no range always validates", func(t *testing.T) {
		f := &Filter{SelectedPropertyId: "p1"}
		assert.True(t, f.Validate(conflicting))
	})

	t.Run("conflicting candidate fails", func(t *testing.T) {
		f := &Filter{
			Range:              &DateRange{Start: date(2024, 7, 14), End: date(2024, 7, 20)},
			SelectedPropertyId: "p1",
		}
		assert.False(t, f.Validate(conflicting))
	})

	t.Run("free candidate passes", func(t *testing.T) {
		f := &Filter{
			Range:              &DateRange{Start: date(2024, 7, 16), End: date(2024, 7, 20)},
			SelectedPropertyId: "p1",
		}
		assert.True(t, f.Validate(conflicting))
	})
}
