package model

import (
	"itinera/shared/model"
	"slices"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldUserID           = "user_id"
	FieldTripID           = "trip_id"
	FieldBookingType      = "booking_type"
	FieldTitle            = "title"
	FieldStartDateTime    = "start_date_time"
	FieldEndDateTime      = "end_date_time"
	FieldConfidence       = "confidence"
	FieldStatus           = "status"
	FieldConflictDetected = "conflict_detected"
	FieldSource           = "source"
	FieldSourceMessageID  = "source_message_id"
	FieldExtractionURL    = "extraction_url"
	FieldCreatedAt        = "created_at"
	FieldModifiedAt       = "modified_at"
	FieldModifiedBy       = "modified_by"

	// ArgExpectedStatus guards status updates against a concurrent transition.
	ArgExpectedStatus = "expected_status"
)

type Type string

const (
	TypeFlight     Type = "flight"
	TypeHotel      Type = "hotel"
	TypeCarRental  Type = "car_rental"
	TypeRestaurant Type = "restaurant"
	TypeActivity   Type = "activity"
	TypeOther      Type = "other"
)

var Types = []Type{TypeFlight, TypeHotel, TypeCarRental, TypeRestaurant, TypeActivity, TypeOther}

func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

type Source string

const (
	SourceManualUpload Source = "manual_upload"
	SourceGmail        Source = "gmail"
	SourceOutlook      Source = "outlook"
)

func (s Source) Valid() bool {
	return s == SourceManualUpload || s == SourceGmail || s == SourceOutlook
}

// FromInbox reports whether bookings from s are scanned from a mailbox and so carry a message id.
func (s Source) FromInbox() bool {
	return s == SourceGmail || s == SourceOutlook
}

type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewed    Status = "reviewed"
	StatusAddedToTrip Status = "added_to_trip"
	StatusIgnored     Status = "ignored"
)

// transitions is the complete set of status moves. added_to_trip only returns to pending
// through an explicit removal from its trip.
var transitions = map[Status][]Status{
	StatusPending:     {StatusReviewed, StatusAddedToTrip, StatusIgnored},
	StatusReviewed:    {StatusAddedToTrip, StatusIgnored},
	StatusAddedToTrip: {StatusPending},
	StatusIgnored:     {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]

	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Insertable reports whether a booking in status s may be merged into a trip.
func (s Status) Insertable() bool {
	return s.CanTransitionTo(StatusAddedToTrip)
}

type Booking struct {
	ID                 string         `db:"id"`
	UserID             string         `db:"user_id"`
	TripID             *string        `db:"trip_id"`
	BookingType        Type           `db:"booking_type"`
	Title              string         `db:"title"`
	Description        *string        `db:"description"`
	ConfirmationNumber *string        `db:"confirmation_number"`
	Location           *string        `db:"location"`
	StartDateTime      *time.Time     `db:"start_date_time"`
	EndDateTime        *time.Time     `db:"end_date_time"`
	Confidence         float64        `db:"confidence"`
	Status             Status         `db:"status"`
	ConflictDetected   bool           `db:"conflict_detected"`
	Source             Source         `db:"source"`
	SourceMessageID    *string        `db:"source_message_id"`
	ExtractedData      types.JSONText `db:"extracted_data"`
	ExtractionURL      *string        `db:"extraction_url"`
	model.Metadata
}
