package model

import (
	"itinera/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "trips"
	EntityName = "trip"

	FieldID         = "id"
	FieldUserID     = "user_id"
	FieldName       = "name"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldStatus     = "status"
	FieldItinerary  = "itinerary"
	FieldVersion    = "version"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
	FieldCreatedAt  = "created_at"

	// ArgExpectedVersion names the compare-and-swap argument so it never collides with the new version.
	ArgExpectedVersion = "expected_version"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPlanning  Status = "planning"
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
	StatusCancelled Status = "cancelled"
)

var (
	Statuses         = []Status{StatusDraft, StatusPlanning, StatusUpcoming, StatusActive, StatusCompleted, StatusArchived, StatusCancelled}
	TerminalStatuses = []Status{StatusCompleted, StatusArchived, StatusCancelled}
)

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// IsTerminal reports whether the trip is closed to automatic insertion.
func (s Status) IsTerminal() bool {
	return slices.Contains(TerminalStatuses, s)
}

// NonTerminalStatuses lists the statuses a trip may hold while it still accepts bookings.
func NonTerminalStatuses() []string {
	statuses := make([]string, 0, len(Statuses))

	for _, status := range Statuses {
		if !status.IsTerminal() {
			statuses = append(statuses, string(status))
		}
	}

	return statuses
}

type Trip struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    Status    `db:"status"`
	Itinerary Itinerary `db:"itinerary"`
	Version   int64     `db:"version"`
	model.Metadata
}

// Clone returns a copy that shares no mutable state with t.
func (t Trip) Clone() Trip {
	clone := t
	clone.Itinerary = t.Itinerary.Clone()

	return clone
}
