package ingestion_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"itinera/infras/otel/mocks"
	bookingDto "itinera/internal/domains/booking/model/dto"
	"itinera/internal/domains/ingestion/model/dto"
	ingestionMocks "itinera/internal/domains/ingestion/service/mocks"
	"itinera/internal/handlers/ingestion"
	"itinera/shared/failure"
)

func TestHandler_IngestBooking(t *testing.T) {
	valid := `{"user_id":"user-1","booking_type":"flight","title":"TP1","confidence":0.9,"source":"gmail","source_message_id":"msg-1"}`

	tests := []struct {
		name       string
		body       string
		setup      func(m *ingestionMocks.MockIngestion)
		wantStatus int
	}{
		{
			name: "created",
			body: valid,
			setup: func(m *ingestionMocks.MockIngestion) {
				m.EXPECT().
					Ingest(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req bookingDto.IngestBookingRequest) (dto.IngestResult, error) {
						assert.Equal(t, "msg-1", req.MessageID())

						return dto.IngestResult{Booking: bookingDto.BookingResponse{ID: "booking-1"}}, nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "mailbox record without message id",
			body:       `{"user_id":"user-1","booking_type":"flight","title":"TP1","source":"gmail"}`,
			setup:      func(*ingestionMocks.MockIngestion) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "confidence out of range",
			body:       `{"user_id":"user-1","booking_type":"flight","title":"TP1","confidence":1.5,"source":"manual_upload"}`,
			setup:      func(*ingestionMocks.MockIngestion) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate source message",
			body: valid,
			setup: func(m *ingestionMocks.MockIngestion) {
				m.EXPECT().Ingest(gomock.Any(), gomock.Any()).Return(dto.IngestResult{}, failure.Conflict("booking already ingested"))
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := ingestionMocks.NewMockIngestion(gomock.NewController(t))
			tt.setup(service)

			handler := ingestion.New(service, mocks.NewOtel())
			router := chi.NewRouter()
			handler.Router(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/bookings", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
