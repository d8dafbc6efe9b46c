package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// SchemaVersion is the itinerary document layout this build reads and writes.
const SchemaVersion = 1

var (
	ErrSchemaVersion = errors.New("unsupported itinerary schema version")
	ErrUnsortedDay   = errors.New("timed items are not in chronological order")
	ErrInvalidItem   = errors.New("invalid itinerary item")
)

type ItemType string

const (
	ItemTypeFlight         ItemType = "flight"
	ItemTypeAccommodation  ItemType = "accommodation"
	ItemTypeTransportation ItemType = "transportation"
	ItemTypeDining         ItemType = "dining"
	ItemTypeActivity       ItemType = "activity"
	ItemTypeOther          ItemType = "other"
)

var ItemTypes = []ItemType{
	ItemTypeFlight, ItemTypeAccommodation, ItemTypeTransportation,
	ItemTypeDining, ItemTypeActivity, ItemTypeOther,
}

func (t ItemType) Valid() bool {
	return slices.Contains(ItemTypes, t)
}

// ItemMetadata records where an item came from. BookingID is the idempotency anchor for merges.
type ItemMetadata struct {
	BookingID     string          `json:"booking_id,omitempty"`
	Confidence    float64         `json:"confidence,omitempty"`
	Source        string          `json:"source,omitempty"`
	ExtractedData json.RawMessage `json:"extracted_data,omitempty"`
}

type Item struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Type      ItemType     `json:"type"`
	StartTime *time.Time   `json:"start_time,omitempty"`
	EndTime   *time.Time   `json:"end_time,omitempty"`
	Notes     *string      `json:"notes,omitempty"`
	Metadata  ItemMetadata `json:"metadata"`
}

func (i Item) Clone() Item {
	clone := i
	clone.StartTime = cloneTime(i.StartTime)
	clone.EndTime = cloneTime(i.EndTime)

	if i.Notes != nil {
		notes := *i.Notes
		clone.Notes = &notes
	}

	if i.Metadata.ExtractedData != nil {
		clone.Metadata.ExtractedData = bytes.Clone(i.Metadata.ExtractedData)
	}

	return clone
}

type Day struct {
	Date  time.Time `json:"date"`
	Items []Item    `json:"items"`
}

type Itinerary struct {
	SchemaVersion int   `json:"schema_version"`
	Days          []Day `json:"days"`
}

func NewItinerary() Itinerary {
	return Itinerary{SchemaVersion: SchemaVersion, Days: []Day{}}
}

func (it Itinerary) Clone() Itinerary {
	clone := Itinerary{SchemaVersion: it.SchemaVersion, Days: make([]Day, len(it.Days))}

	for d, day := range it.Days {
		items := make([]Item, len(day.Items))
		for i, item := range day.Items {
			items[i] = item.Clone()
		}

		clone.Days[d] = Day{Date: day.Date, Items: items}
	}

	return clone
}

// FindBookingItem locates the item merged from bookingID.
func (it Itinerary) FindBookingItem(bookingID string) (day, index int, ok bool) {
	if bookingID == "" {
		return 0, 0, false
	}

	for d, current := range it.Days {
		for i, item := range current.Items {
			if item.Metadata.BookingID == bookingID {
				return d, i, true
			}
		}
	}

	return 0, 0, false
}

// Validate checks the schema version, item shape and per-day chronological order.
// Untimed items are skipped by the ordering check since they keep their own position.
func (it Itinerary) Validate() error {
	if it.SchemaVersion != SchemaVersion {
		return fmt.Errorf("%w: %d", ErrSchemaVersion, it.SchemaVersion)
	}

	for _, day := range it.Days {
		var previous *time.Time

		for _, item := range day.Items {
			if item.ID == "" || item.Title == "" || !item.Type.Valid() {
				return fmt.Errorf("%w: id=%q type=%q", ErrInvalidItem, item.ID, item.Type)
			}

			if item.StartTime == nil {
				continue
			}

			if previous != nil && item.StartTime.Before(*previous) {
				return fmt.Errorf("%w: %s on %s", ErrUnsortedDay, item.ID, day.Date.Format(time.DateOnly))
			}

			previous = item.StartTime
		}
	}

	return nil
}

// Value implements driver.Valuer; invalid documents never reach storage.
func (it Itinerary) Value() (driver.Value, error) {
	if err := it.Validate(); err != nil {
		return nil, err
	}

	if it.Days == nil {
		it.Days = []Day{}
	}

	raw, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	return raw, nil
}

// Scan implements sql.Scanner. A NULL column reads as an empty itinerary.
func (it *Itinerary) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*it = NewItinerary()

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("unsupported itinerary column type %T", src)
	}

	var decoded Itinerary
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to unmarshal itinerary: %w", err)
	}

	if err := decoded.Validate(); err != nil {
		return err
	}

	if decoded.Days == nil {
		decoded.Days = []Day{}
	}

	*it = decoded

	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	value := *t

	return &value
}
