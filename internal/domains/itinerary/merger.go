package itinerary

import (
	"encoding/json"
	bookingModel "itinera/internal/domains/booking/model"
	tripModel "itinera/internal/domains/trip/model"
	"itinera/shared/timezone"
	"slices"
	"time"

	"github.com/google/uuid"
)

// itemTypes maps booking categories onto itinerary item categories.
var itemTypes = map[bookingModel.Type]tripModel.ItemType{
	bookingModel.TypeFlight:     tripModel.ItemTypeFlight,
	bookingModel.TypeHotel:      tripModel.ItemTypeAccommodation,
	bookingModel.TypeCarRental:  tripModel.ItemTypeTransportation,
	bookingModel.TypeRestaurant: tripModel.ItemTypeDining,
	bookingModel.TypeActivity:   tripModel.ItemTypeActivity,
	bookingModel.TypeOther:      tripModel.ItemTypeOther,
}

func ItemTypeFor(bookingType bookingModel.Type) tripModel.ItemType {
	if itemType, ok := itemTypes[bookingType]; ok {
		return itemType
	}

	return tripModel.ItemTypeOther
}

type MergeResult struct {
	Trip       tripModel.Trip
	Item       tripModel.Item
	DayIndex   int
	Position   int
	CreatedDay bool
	Warning    string
}

type ItineraryMerger interface {
	SynthesizeItem(booking bookingModel.Booking) tripModel.Item
	// Merge returns a copy of trip with item placed on the day of start. trip is left untouched.
	Merge(trip tripModel.Trip, item tripModel.Item, start *time.Time) MergeResult
}

type itineraryMerger struct {
	location *time.Location
	now      func() time.Time
}

func NewItineraryMerger(opts Options) ItineraryMerger {
	opts = opts.normalize()

	return &itineraryMerger{location: opts.Location, now: opts.Now}
}

func (m *itineraryMerger) SynthesizeItem(booking bookingModel.Booking) tripModel.Item {
	item := tripModel.Item{
		ID:    uuid.NewString(),
		Title: booking.Title,
		Type:  ItemTypeFor(booking.BookingType),
		Metadata: tripModel.ItemMetadata{
			BookingID:  booking.ID,
			Confidence: booking.Confidence,
			Source:     string(booking.Source),
		},
	}

	if booking.StartDateTime != nil {
		start := *booking.StartDateTime
		item.StartTime = &start
	}

	if booking.EndDateTime != nil {
		end := *booking.EndDateTime
		item.EndTime = &end
	}

	if booking.ConfirmationNumber != nil && *booking.ConfirmationNumber != "" {
		notes := *booking.ConfirmationNumber
		item.Notes = &notes
	}

	if len(booking.ExtractedData) > 0 && json.Valid(booking.ExtractedData) {
		item.Metadata.ExtractedData = json.RawMessage(slices.Clone([]byte(booking.ExtractedData)))
	}

	return item
}

func (m *itineraryMerger) Merge(trip tripModel.Trip, item tripModel.Item, start *time.Time) MergeResult {
	updated := trip.Clone()
	item = item.Clone()
	days := updated.Itinerary.Days

	result := MergeResult{Item: item}

	if start != nil {
		target := timezone.StartOfDay(*start, m.location)

		dayIndex := slices.IndexFunc(days, func(day tripModel.Day) bool {
			return timezone.CalendarDate(day.Date, m.location).Equal(target)
		})

		if dayIndex >= 0 {
			position := insertionIndex(days[dayIndex].Items, *start)
			days[dayIndex].Items = slices.Insert(days[dayIndex].Items, position, item)

			result.DayIndex, result.Position = dayIndex, position
			updated.Itinerary.Days = days
			result.Trip = updated

			return result
		}
	}

	if len(days) == 0 {
		anchor := m.now()
		if start != nil {
			anchor = *start
		}

		days = append(days, tripModel.Day{
			Date:  timezone.StartOfDay(anchor, m.location),
			Items: []tripModel.Item{item},
		})

		result.CreatedDay = true
		updated.Itinerary.Days = days
		result.Trip = updated

		return result
	}

	// No day matches. The first day takes the item; a timed item still lands in chronological
	// order there, which for a booking later than every item on that day is a plain append.
	position := len(days[0].Items)
	if start != nil {
		position = insertionIndex(days[0].Items, *start)
	}

	days[0].Items = slices.Insert(days[0].Items, position, item)

	result.Position = position
	result.Warning = WarningFallbackFirstDay
	updated.Itinerary.Days = days
	result.Trip = updated

	return result
}

// insertionIndex is the index of the first timed item starting strictly after start, or the
// end of items when there is none. Untimed items are never treated as later.
func insertionIndex(items []tripModel.Item, start time.Time) int {
	index := slices.IndexFunc(items, func(item tripModel.Item) bool {
		return item.StartTime != nil && item.StartTime.After(start)
	})

	if index < 0 {
		return len(items)
	}

	return index
}
