package itinerary_test

import (
	"itinera/internal/domains/itinerary"
	tripModel "itinera/internal/domains/trip/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func trip(id string, start, end time.Time, status tripModel.Status) tripModel.Trip {
	return tripModel.Trip{ID: id, UserID: "user-1", StartDate: start, EndDate: end, Status: status, Itinerary: tripModel.NewItinerary()}
}

func instant(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)

	return &t
}

func TestSelectTrip(t *testing.T) {
	june := trip("A", date(2025, 6, 1), date(2025, 6, 10), tripModel.StatusPlanning)
	july := trip("B", date(2025, 7, 1), date(2025, 7, 5), tripModel.StatusUpcoming)

	tests := []struct {
		name   string
		trips  []tripModel.Trip
		start  *time.Time
		wantID string
		wantOK bool
	}{
		{
			name:   "containing trip wins",
			trips:  []tripModel.Trip{july, june},
			start:  instant(2025, 6, 5, 0),
			wantID: "A",
			wantOK: true,
		},
		{
			name: "terminal trip skipped, nearest future chosen",
			trips: []tripModel.Trip{
				trip("A", date(2025, 6, 1), date(2025, 6, 10), tripModel.StatusCompleted),
				trip("B", date(2025, 8, 1), date(2025, 8, 5), tripModel.StatusPlanning),
			},
			start:  instant(2025, 6, 5, 0),
			wantID: "B",
			wantOK: true,
		},
		{
			name: "closest future trip among several",
			trips: []tripModel.Trip{
				trip("far", date(2025, 12, 1), date(2025, 12, 5), tripModel.StatusDraft),
				trip("near", date(2025, 9, 1), date(2025, 9, 5), tripModel.StatusDraft),
			},
			start:  instant(2025, 8, 20, 0),
			wantID: "near",
			wantOK: true,
		},
		{
			name: "most recent past trip as last resort",
			trips: []tripModel.Trip{
				trip("old", date(2024, 1, 1), date(2024, 1, 5), tripModel.StatusActive),
				trip("recent", date(2025, 3, 1), date(2025, 3, 5), tripModel.StatusActive),
			},
			start:  instant(2025, 6, 5, 0),
			wantID: "recent",
			wantOK: true,
		},
		{
			name:   "end date counts through the whole day",
			trips:  []tripModel.Trip{june, july},
			start:  instant(2025, 6, 10, 23),
			wantID: "A",
			wantOK: true,
		},
		{
			name:   "start date boundary is inclusive",
			trips:  []tripModel.Trip{june},
			start:  instant(2025, 6, 1, 0),
			wantID: "A",
			wantOK: true,
		},
		{
			name: "overlapping containing trips tie-break on start date then id",
			trips: []tripModel.Trip{
				trip("z", date(2025, 6, 1), date(2025, 6, 30), tripModel.StatusPlanning),
				trip("m", date(2025, 6, 3), date(2025, 6, 8), tripModel.StatusPlanning),
				trip("a", date(2025, 6, 1), date(2025, 6, 15), tripModel.StatusPlanning),
			},
			start:  instant(2025, 6, 5, 12),
			wantID: "a",
			wantOK: true,
		},
		{
			name: "future trips sharing a start date pick the smallest id",
			trips: []tripModel.Trip{
				trip("y", date(2025, 9, 1), date(2025, 9, 3), tripModel.StatusPlanning),
				trip("x", date(2025, 9, 1), date(2025, 9, 9), tripModel.StatusPlanning),
			},
			start:  instant(2025, 8, 1, 0),
			wantID: "x",
			wantOK: true,
		},
		{
			name: "past trips sharing a start date pick the smallest id",
			trips: []tripModel.Trip{
				trip("q", date(2025, 1, 1), date(2025, 1, 3), tripModel.StatusActive),
				trip("p", date(2025, 1, 1), date(2025, 1, 2), tripModel.StatusActive),
			},
			start:  instant(2025, 6, 1, 0),
			wantID: "p",
			wantOK: true,
		},
		{
			name:   "missing start selects nothing",
			trips:  []tripModel.Trip{june},
			start:  nil,
			wantOK: false,
		},
		{
			name:   "empty trip set selects nothing",
			trips:  nil,
			start:  instant(2025, 6, 5, 0),
			wantOK: false,
		},
		{
			name: "only terminal trips selects nothing",
			trips: []tripModel.Trip{
				trip("A", date(2025, 6, 1), date(2025, 6, 10), tripModel.StatusArchived),
				trip("B", date(2025, 7, 1), date(2025, 7, 10), tripModel.StatusCancelled),
			},
			start:  instant(2025, 6, 5, 0),
			wantOK: false,
		},
	}

	selector := itinerary.NewTripSelector(itinerary.DefaultOptions())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := selector.SelectTrip(tt.trips, tt.start)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestSelectTripDoesNotReorderInput(t *testing.T) {
	trips := []tripModel.Trip{
		trip("B", date(2025, 7, 1), date(2025, 7, 5), tripModel.StatusPlanning),
		trip("A", date(2025, 6, 1), date(2025, 6, 10), tripModel.StatusPlanning),
	}

	itinerary.NewTripSelector(itinerary.DefaultOptions()).SelectTrip(trips, instant(2025, 6, 5, 0))

	assert.Equal(t, "B", trips[0].ID)
}

func TestSelectTripUsesConfiguredLocation(t *testing.T) {
	plus7 := time.FixedZone("UTC+7", 7*60*60)
	opts := itinerary.DefaultOptions()
	opts.Location = plus7

	trips := []tripModel.Trip{trip("A", date(2025, 6, 1), date(2025, 6, 10), tripModel.StatusPlanning)}

	// 20:00 UTC on the 10th is already the 11th in UTC+7.
	id, ok := itinerary.NewTripSelector(opts).SelectTrip(trips, instant(2025, 6, 10, 20))
	assert.True(t, ok)
	assert.Equal(t, "A", id, "falls back to the only past trip")

	contained := itinerary.NewTripSelector(opts)
	id, ok = contained.SelectTrip(append(trips, trip("B", date(2025, 6, 11), date(2025, 6, 12), tripModel.StatusPlanning)), instant(2025, 6, 10, 20))
	assert.True(t, ok)
	assert.Equal(t, "B", id)
}
