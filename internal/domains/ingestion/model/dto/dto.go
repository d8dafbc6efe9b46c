package dto

import (
	bookingDto "itinera/internal/domains/booking/model/dto"
	"itinera/internal/domains/insertion/model"
)

type IngestResult struct {
	Booking bookingDto.BookingResponse `json:"booking"`
	// Insertion is set when the booking qualified for automatic insertion.
	Insertion *model.InsertResult `json:"insertion,omitempty"`
}
