package itinerary

import (
	tripModel "itinera/internal/domains/trip/model"
	"itinera/shared/timezone"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

type TripSelector interface {
	// SelectTrip picks the trip a booking starting at start belongs to, or reports false.
	SelectTrip(trips []tripModel.Trip, start *time.Time) (string, bool)
}

type tripSelector struct {
	location *time.Location
}

func NewTripSelector(opts Options) TripSelector {
	return &tripSelector{location: opts.normalize().Location}
}

func (s *tripSelector) SelectTrip(trips []tripModel.Trip, start *time.Time) (string, bool) {
	if start == nil {
		return "", false
	}

	candidates := lo.Filter(trips, func(trip tripModel.Trip, _ int) bool {
		return !trip.Status.IsTerminal()
	})

	if len(candidates) == 0 {
		return "", false
	}

	slices.SortStableFunc(candidates, func(a, b tripModel.Trip) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	if trip, ok := lo.Find(candidates, func(trip tripModel.Trip) bool {
		return s.contains(trip, *start)
	}); ok {
		return trip.ID, true
	}

	if trip, ok := lo.Find(candidates, func(trip tripModel.Trip) bool {
		return timezone.CalendarDate(trip.StartDate, s.location).After(*start)
	}); ok {
		return trip.ID, true
	}

	latest := lo.MaxBy(candidates, func(a, b tripModel.Trip) bool {
		return a.StartDate.After(b.StartDate)
	})

	return latest.ID, true
}

// contains treats both trip dates as whole calendar days, so a booking at 23:00 on the
// end date still belongs to the trip.
func (s *tripSelector) contains(trip tripModel.Trip, instant time.Time) bool {
	from := timezone.CalendarDate(trip.StartDate, s.location)
	until := timezone.CalendarDate(trip.EndDate, s.location).AddDate(0, 0, 1)

	return !instant.Before(from) && instant.Before(until)
}
