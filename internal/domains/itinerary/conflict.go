package itinerary

import (
	tripModel "itinera/internal/domains/trip/model"
	"time"
)

type ConflictingItem struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type ConflictInfo struct {
	HasConflict      bool              `json:"has_conflict"`
	ConflictingItems []ConflictingItem `json:"conflicting_items"`
}

type ConflictDetector interface {
	// Detect lists every timed item of trip overlapping [start, end). A nil start never conflicts.
	Detect(trip tripModel.Trip, start, end *time.Time) ConflictInfo
}

type conflictDetector struct {
	defaultDuration time.Duration
}

func NewConflictDetector(opts Options) ConflictDetector {
	return &conflictDetector{defaultDuration: opts.normalize().DefaultDuration}
}

func (d *conflictDetector) Detect(trip tripModel.Trip, start, end *time.Time) ConflictInfo {
	info := ConflictInfo{ConflictingItems: []ConflictingItem{}}

	if start == nil {
		return info
	}

	bookingStart := *start
	bookingEnd := bookingStart.Add(d.defaultDuration)

	if end != nil && end.After(bookingStart) {
		bookingEnd = *end
	}

	for _, day := range trip.Itinerary.Days {
		for _, item := range day.Items {
			if item.StartTime == nil {
				continue
			}

			itemStart := *item.StartTime
			itemEnd := itemStart

			if item.EndTime != nil {
				itemEnd = *item.EndTime
			}

			if !Overlaps(bookingStart, bookingEnd, itemStart, itemEnd) {
				continue
			}

			info.ConflictingItems = append(info.ConflictingItems, ConflictingItem{
				ID:        item.ID,
				Title:     item.Title,
				StartTime: item.StartTime,
				EndTime:   item.EndTime,
			})
		}
	}

	info.HasConflict = len(info.ConflictingItems) > 0

	return info
}

// Overlaps is the half-open interval intersection test; it is symmetric in its two intervals.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
