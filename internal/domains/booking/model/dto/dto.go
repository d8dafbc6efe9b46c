package dto

import (
	"encoding/json"
	"itinera/internal/domains/booking/model"
	"itinera/shared"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	gModel "itinera/shared/model"
	"itinera/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

var emptyExtractedData = types.JSONText("{}")

// IngestBookingRequest is one structured record produced by the extraction service.
type IngestBookingRequest struct {
	UserID             string          `json:"user_id"             validate:"required"`
	BookingType        string          `json:"booking_type"        validate:"required,oneof=flight hotel car_rental restaurant activity other"`
	Title              string          `json:"title"               validate:"required,max=255"`
	Description        *string         `json:"description"`
	ConfirmationNumber *string         `json:"confirmation_number" validate:"omitempty,max=100"`
	Location           *string         `json:"location"            validate:"omitempty,max=255"`
	StartDateTime      *time.Time      `json:"start_date_time"`
	EndDateTime        *time.Time      `json:"end_date_time"`
	Confidence         float64         `json:"confidence"          validate:"gte=0,lte=1"`
	Source             string          `json:"source"              validate:"required,oneof=manual_upload gmail outlook"`
	SourceMessageID    *string         `json:"source_message_id"   validate:"required_unless=Source manual_upload"`
	ExtractedData      json.RawMessage `json:"extracted_data"      swaggertype:"object"`
}

// MessageID returns the trimmed source message id, or "" when there is none.
func (r IngestBookingRequest) MessageID() string {
	if r.SourceMessageID == nil {
		return constant.Empty
	}

	return strings.TrimSpace(*r.SourceMessageID)
}

func (r IngestBookingRequest) ToModel(actor string) model.Booking {
	now := timezone.Now()

	extracted := emptyExtractedData
	if len(r.ExtractedData) > 0 {
		extracted = types.JSONText(r.ExtractedData)
	}

	var messageID *string
	if id := r.MessageID(); id != constant.Empty {
		messageID = &id
	}

	return model.Booking{
		ID:                 uuid.NewString(),
		UserID:             r.UserID,
		BookingType:        model.Type(r.BookingType),
		Title:              strings.TrimSpace(r.Title),
		Description:        r.Description,
		ConfirmationNumber: r.ConfirmationNumber,
		Location:           r.Location,
		StartDateTime:      r.StartDateTime,
		EndDateTime:        r.EndDateTime,
		Confidence:         r.Confidence,
		Status:             model.StatusPending,
		Source:             model.Source(r.Source),
		SourceMessageID:    messageID,
		ExtractedData:      extracted,
		Metadata:           gModel.NewMetadata(actor, now),
	}
}

// CreateBookingRequest is a booking entered by the user by hand.
type CreateBookingRequest struct {
	BookingType        string          `json:"booking_type"        validate:"required,oneof=flight hotel car_rental restaurant activity other"`
	Title              string          `json:"title"               validate:"required,max=255"`
	Description        *string         `json:"description"`
	ConfirmationNumber *string         `json:"confirmation_number" validate:"omitempty,max=100"`
	Location           *string         `json:"location"            validate:"omitempty,max=255"`
	StartDateTime      *time.Time      `json:"start_date_time"`
	EndDateTime        *time.Time      `json:"end_date_time"`
	ExtractedData      json.RawMessage `json:"extracted_data"      swaggertype:"object"`
}

// ToIngest turns a manual entry into an ingestion record. Hand-entered data is fully trusted.
func (r CreateBookingRequest) ToIngest(userID string) IngestBookingRequest {
	return IngestBookingRequest{
		UserID:             userID,
		BookingType:        r.BookingType,
		Title:              r.Title,
		Description:        r.Description,
		ConfirmationNumber: r.ConfirmationNumber,
		Location:           r.Location,
		StartDateTime:      r.StartDateTime,
		EndDateTime:        r.EndDateTime,
		Confidence:         1,
		Source:             string(model.SourceManualUpload),
		ExtractedData:      r.ExtractedData,
	}
}

type InsertBookingRequest struct {
	TripID string `json:"trip_id" validate:"required"`
}

type BookingResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	TripID             *string         `json:"trip_id"`
	BookingType        string          `json:"booking_type"`
	Title              string          `json:"title"`
	Description        *string         `json:"description"`
	ConfirmationNumber *string         `json:"confirmation_number"`
	Location           *string         `json:"location"`
	StartDateTime      *string         `json:"start_date_time"`
	EndDateTime        *string         `json:"end_date_time"`
	Confidence         float64         `json:"confidence"`
	Status             string          `json:"status"`
	ConflictDetected   bool            `json:"conflict_detected"`
	Source             string          `json:"source"`
	SourceMessageID    *string         `json:"source_message_id"`
	ExtractedData      json.RawMessage `json:"extracted_data" swaggertype:"object"`
	ExtractionURL      *string         `json:"extraction_url"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.UserID = booking.UserID
	r.TripID = booking.TripID
	r.BookingType = string(booking.BookingType)
	r.Title = booking.Title
	r.Description = booking.Description
	r.ConfirmationNumber = booking.ConfirmationNumber
	r.Location = booking.Location
	r.StartDateTime = formatTime(booking.StartDateTime)
	r.EndDateTime = formatTime(booking.EndDateTime)
	r.Confidence = booking.Confidence
	r.Status = string(booking.Status)
	r.ConflictDetected = booking.ConflictDetected
	r.Source = string(booking.Source)
	r.SourceMessageID = booking.SourceMessageID
	r.ExtractedData = json.RawMessage(booking.ExtractedData)
	r.ExtractionURL = booking.ExtractionURL
	r.Metadata.FromModel(booking.Metadata)

	if len(r.ExtractedData) == 0 {
		r.ExtractedData = json.RawMessage(emptyExtractedData)
	}
}

type GetBookingsResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination gDto.Pagination   `json:"pagination"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params, total, shared.CalculateTotalPage(total, params.Limit))

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type GetBookingsRequest struct {
	Status string `validate:"omitempty,oneof=pending reviewed added_to_trip ignored"`
	TripID string
}

// ToFilter scopes the listing to userID plus the optional status and trip filters.
func (r GetBookingsRequest) ToFilter(userID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if r.Status != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: r.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if r.TripID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldTripID, Value: r.TripID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := t.Format(constant.DateFormat)

	return &formatted
}
