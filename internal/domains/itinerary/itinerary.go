// Package itinerary holds the pure rules for placing a booking into a trip: which trip it
// belongs to, what it collides with, and where in the day it goes. Nothing here performs I/O.
package itinerary

import (
	"itinera/config"
	"itinera/shared/timezone"
	"time"
)

const (
	defaultDurationMinutes = 60

	// WarningFallbackFirstDay marks a merge where no day matched the booking date and the
	// item was placed on the first day of the trip instead.
	WarningFallbackFirstDay = "fallback_first_day"
)

// Options are the policy inputs of the detector and merger.
type Options struct {
	// DefaultDuration stands in for a missing booking end when checking overlap.
	DefaultDuration time.Duration
	// Location is the reference frame in which booking starts are cut to calendar days.
	Location *time.Location
	Now      func() time.Time
}

func DefaultOptions() Options {
	return Options{
		DefaultDuration: defaultDurationMinutes * time.Minute,
		Location:        time.UTC,
		Now:             timezone.Now,
	}
}

func NewOptions(cfg *config.Config) Options {
	opts := DefaultOptions()

	if cfg.Merge.DefaultDurationMinutes > 0 {
		opts.DefaultDuration = time.Duration(cfg.Merge.DefaultDurationMinutes) * time.Minute
	}

	opts.Location = timezone.LoadLocation(cfg.Merge.DayTimezone)

	return opts
}

func (o Options) normalize() Options {
	defaults := DefaultOptions()

	if o.DefaultDuration <= 0 {
		o.DefaultDuration = defaults.DefaultDuration
	}

	if o.Location == nil {
		o.Location = defaults.Location
	}

	if o.Now == nil {
		o.Now = defaults.Now
	}

	return o
}
