package model

import (
	"itinera/internal/domains/itinerary"
	"time"
)

const (
	// ReasonNoSuitableTrip is reported when automatic insertion finds no trip to merge into.
	ReasonNoSuitableTrip = "no_suitable_trip"
	// ReasonAlreadyInserted marks a repeated request for a merge that is already in place.
	ReasonAlreadyInserted = "already_inserted"

	EventBookingMerged  = "booking.merged"
	EventBookingRemoved = "booking.removed"
)

// InsertResult is the outcome of a merge attempt. Conflicts are reported here and never block the merge.
type InsertResult struct {
	Success          bool                        `json:"success"`
	ConflictDetected bool                        `json:"conflict_detected"`
	TripID           *string                     `json:"trip_id,omitempty"`
	ItemID           string                      `json:"item_id,omitempty"`
	Error            *string                     `json:"error,omitempty"`
	ConflictingItems []itinerary.ConflictingItem `json:"conflicting_items,omitempty"`
	Warning          string                      `json:"warning,omitempty"`
	Reason           string                      `json:"reason,omitempty"`
}

func NoSuitableTrip() InsertResult {
	msg := "no suitable trip found for booking"

	return InsertResult{Success: false, Error: &msg, Reason: ReasonNoSuitableTrip}
}

// Event is published after a merge or removal has committed.
type Event struct {
	Type             string    `json:"type"`
	BookingID        string    `json:"booking_id"`
	UserID           string    `json:"user_id"`
	TripID           string    `json:"trip_id"`
	ItemID           string    `json:"item_id,omitempty"`
	ConflictDetected bool      `json:"conflict_detected"`
	Warning          string    `json:"warning,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
