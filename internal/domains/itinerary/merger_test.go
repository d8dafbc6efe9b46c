package itinerary_test

import (
	"itinera/internal/domains/itinerary"
	bookingModel "itinera/internal/domains/booking/model"
	tripModel "itinera/internal/domains/trip/model"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(id string, start *time.Time) tripModel.Item {
	return tripModel.Item{ID: id, Title: id, Type: tripModel.ItemTypeActivity, StartTime: start}
}

func itemIDs(day tripModel.Day) []string {
	ids := make([]string, len(day.Items))
	for i, item := range day.Items {
		ids[i] = item.ID
	}

	return ids
}

func TestSynthesizeItem(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())
	confirmation := "XK-2291"

	booking := bookingModel.Booking{
		ID:                 "b-1",
		UserID:             "user-1",
		BookingType:        bookingModel.TypeHotel,
		Title:              "Hotel Sakura",
		ConfirmationNumber: &confirmation,
		StartDateTime:      clock(3, 15, 0),
		EndDateTime:        clock(5, 11, 0),
		Confidence:         0.93,
		Source:             bookingModel.SourceGmail,
		ExtractedData:      types.JSONText(`{"nights":2}`),
	}

	item := merger.SynthesizeItem(booking)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Hotel Sakura", item.Title)
	assert.Equal(t, tripModel.ItemTypeAccommodation, item.Type)
	assert.True(t, item.StartTime.Equal(*booking.StartDateTime))
	assert.True(t, item.EndTime.Equal(*booking.EndDateTime))
	require.NotNil(t, item.Notes)
	assert.Equal(t, "XK-2291", *item.Notes)
	assert.Equal(t, "b-1", item.Metadata.BookingID)
	assert.InDelta(t, 0.93, item.Metadata.Confidence, 1e-9)
	assert.Equal(t, "gmail", item.Metadata.Source)
	assert.JSONEq(t, `{"nights":2}`, string(item.Metadata.ExtractedData))

	*booking.StartDateTime = time.Time{}
	assert.False(t, item.StartTime.IsZero(), "item must not alias booking times")
}

func TestSynthesizeItemTypeMapping(t *testing.T) {
	expected := map[bookingModel.Type]tripModel.ItemType{
		bookingModel.TypeFlight:     tripModel.ItemTypeFlight,
		bookingModel.TypeHotel:      tripModel.ItemTypeAccommodation,
		bookingModel.TypeCarRental:  tripModel.ItemTypeTransportation,
		bookingModel.TypeRestaurant: tripModel.ItemTypeDining,
		bookingModel.TypeActivity:   tripModel.ItemTypeActivity,
		bookingModel.TypeOther:      tripModel.ItemTypeOther,
		bookingModel.Type("cruise"): tripModel.ItemTypeOther,
	}

	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())

	for bookingType, itemType := range expected {
		item := merger.SynthesizeItem(bookingModel.Booking{ID: "b", Title: "t", BookingType: bookingType})

		assert.Equal(t, itemType, item.Type, bookingType)
		assert.Nil(t, item.Notes)
		assert.Nil(t, item.StartTime)
		assert.Nil(t, item.Metadata.ExtractedData)
	}
}

func TestMerge_InsertsBetweenTimedItems(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())
	trip := tripWithItems(newItem("morning", clock(3, 9, 0)), newItem("evening", clock(3, 18, 0)))

	result := merger.Merge(trip, newItem("lunch", clock(3, 14, 0)), clock(3, 14, 0))

	assert.Empty(t, result.Warning)
	assert.Equal(t, 0, result.DayIndex)
	assert.Equal(t, 1, result.Position)
	assert.Equal(t, []string{"morning", "lunch", "evening"}, itemIDs(result.Trip.Itinerary.Days[0]))
	require.NoError(t, result.Trip.Itinerary.Validate())
}

func TestMerge_Positions(t *testing.T) {
	tests := []struct {
		name  string
		items []tripModel.Item
		start *time.Time
		want  []string
	}{
		{
			name:  "before every item",
			items: []tripModel.Item{newItem("a", clock(3, 9, 0)), newItem("b", clock(3, 18, 0))},
			start: clock(3, 7, 0),
			want:  []string{"new", "a", "b"},
		},
		{
			name:  "after every item appends",
			items: []tripModel.Item{newItem("a", clock(3, 9, 0)), newItem("b", clock(3, 18, 0))},
			start: clock(3, 20, 0),
			want:  []string{"a", "b", "new"},
		},
		{
			name:  "equal start goes after the existing item",
			items: []tripModel.Item{newItem("a", clock(3, 9, 0)), newItem("b", clock(3, 18, 0))},
			start: clock(3, 9, 0),
			want:  []string{"a", "new", "b"},
		},
		{
			name:  "untimed items are never treated as later",
			items: []tripModel.Item{newItem("a", clock(3, 9, 0)), newItem("free", nil), newItem("b", clock(3, 18, 0))},
			start: clock(3, 14, 0),
			want:  []string{"a", "free", "new", "b"},
		},
		{
			name:  "only untimed items appends",
			items: []tripModel.Item{newItem("free", nil), newItem("notes", nil)},
			start: clock(3, 14, 0),
			want:  []string{"free", "notes", "new"},
		},
		{
			name:  "empty matching day",
			items: []tripModel.Item{},
			start: clock(3, 14, 0),
			want:  []string{"new"},
		},
	}

	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := merger.Merge(tripWithItems(tt.items...), newItem("new", tt.start), tt.start)

			assert.Empty(t, result.Warning)
			assert.Equal(t, tt.want, itemIDs(result.Trip.Itinerary.Days[0]))
			assert.NoError(t, result.Trip.Itinerary.Validate())
		})
	}
}

func TestMerge_MatchesTheRightDay(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())

	trip := tripWithItems(newItem("d3", clock(3, 9, 0)))
	trip.Itinerary.Days = append(trip.Itinerary.Days,
		tripModel.Day{Date: date(2025, 6, 4), Items: []tripModel.Item{newItem("d4", clock(4, 9, 0))}},
		tripModel.Day{Date: date(2025, 6, 5), Items: []tripModel.Item{}},
	)

	result := merger.Merge(trip, newItem("new", clock(4, 23, 30)), clock(4, 23, 30))

	assert.Empty(t, result.Warning)
	assert.Equal(t, 1, result.DayIndex)
	assert.Equal(t, []string{"d4", "new"}, itemIDs(result.Trip.Itinerary.Days[1]))
	assert.Equal(t, []string{"d3"}, itemIDs(result.Trip.Itinerary.Days[0]))
}

func TestMerge_FallbackToFirstDayWarns(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())

	trip := tripWithItems(newItem("a", clock(3, 9, 0)))
	trip.Itinerary.Days = append(trip.Itinerary.Days, tripModel.Day{Date: date(2025, 6, 4), Items: []tripModel.Item{}})

	result := merger.Merge(trip, newItem("new", clock(8, 10, 0)), clock(8, 10, 0))

	assert.Equal(t, itinerary.WarningFallbackFirstDay, result.Warning)
	assert.Equal(t, 0, result.DayIndex)
	assert.Equal(t, []string{"a", "new"}, itemIDs(result.Trip.Itinerary.Days[0]))
	assert.Len(t, result.Trip.Itinerary.Days, 2)
	assert.False(t, result.CreatedDay)
}

func TestMerge_FallbackKeepsFirstDaySorted(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())
	trip := tripWithItems(newItem("a", clock(3, 9, 0)))

	early := time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC)
	result := merger.Merge(trip, newItem("new", &early), &early)

	assert.Equal(t, itinerary.WarningFallbackFirstDay, result.Warning)
	assert.Equal(t, []string{"new", "a"}, itemIDs(result.Trip.Itinerary.Days[0]))
	assert.NoError(t, result.Trip.Itinerary.Validate())
}

func TestMerge_UntimedBookingOnTripWithDays(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())
	trip := tripWithItems(newItem("a", clock(3, 9, 0)))

	result := merger.Merge(trip, newItem("new", nil), nil)

	assert.Equal(t, itinerary.WarningFallbackFirstDay, result.Warning)
	assert.Equal(t, []string{"a", "new"}, itemIDs(result.Trip.Itinerary.Days[0]))
}

func TestMerge_ZeroDaysCreatesOneDay(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())

	trip := tripWithItems()
	trip.Itinerary.Days = []tripModel.Day{}

	result := merger.Merge(trip, newItem("new", clock(7, 15, 30)), clock(7, 15, 30))

	require.Len(t, result.Trip.Itinerary.Days, 1)
	assert.True(t, result.CreatedDay)
	assert.Empty(t, result.Warning)
	assert.True(t, result.Trip.Itinerary.Days[0].Date.Equal(date(2025, 6, 7)))
	assert.Equal(t, []string{"new"}, itemIDs(result.Trip.Itinerary.Days[0]))
}

func TestMerge_ZeroDaysWithoutStartUsesToday(t *testing.T) {
	opts := itinerary.DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2025, 6, 20, 16, 45, 0, 0, time.UTC) }

	trip := tripWithItems()
	trip.Itinerary.Days = nil

	result := itinerary.NewItineraryMerger(opts).Merge(trip, newItem("new", nil), nil)

	require.Len(t, result.Trip.Itinerary.Days, 1)
	assert.True(t, result.Trip.Itinerary.Days[0].Date.Equal(date(2025, 6, 20)))
}

func TestMerge_DayMatchingUsesConfiguredLocation(t *testing.T) {
	plus7 := time.FixedZone("UTC+7", 7*60*60)
	opts := itinerary.DefaultOptions()
	opts.Location = plus7

	trip := tripWithItems(newItem("d3", clock(3, 1, 0)))
	trip.Itinerary.Days = append(trip.Itinerary.Days, tripModel.Day{Date: date(2025, 6, 4), Items: []tripModel.Item{}})

	// 20:00 UTC on the 3rd is 03:00 on the 4th in UTC+7.
	result := itinerary.NewItineraryMerger(opts).Merge(trip, newItem("new", clock(3, 20, 0)), clock(3, 20, 0))

	assert.Empty(t, result.Warning)
	assert.Equal(t, 1, result.DayIndex)

	utc := itinerary.NewItineraryMerger(itinerary.DefaultOptions()).Merge(trip, newItem("new", clock(3, 20, 0)), clock(3, 20, 0))
	assert.Equal(t, 0, utc.DayIndex)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	merger := itinerary.NewItineraryMerger(itinerary.DefaultOptions())
	trip := tripWithItems(newItem("a", clock(3, 9, 0)), newItem("b", clock(3, 18, 0)))

	result := merger.Merge(trip, newItem("new", clock(3, 14, 0)), clock(3, 14, 0))
	*result.Trip.Itinerary.Days[0].Items[0].StartTime = time.Time{}

	assert.Equal(t, []string{"a", "b"}, itemIDs(trip.Itinerary.Days[0]))
	assert.True(t, trip.Itinerary.Days[0].Items[0].StartTime.Equal(*clock(3, 9, 0)))
}
