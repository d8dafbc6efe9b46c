package trip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"itinera/infras/otel/mocks"
	"itinera/internal/domains/trip/model/dto"
	tripMocks "itinera/internal/domains/trip/service/mocks"
	"itinera/internal/handlers/trip"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	"itinera/shared/failure"
)

func newRouter(t *testing.T) (*tripMocks.MockTrip, chi.Router) {
	t.Helper()

	service := tripMocks.NewMockTrip(gomock.NewController(t))
	handler := trip.New(service, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return service, router
}

func serve(router chi.Router, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_GetTrips(t *testing.T) {
	t.Run("lists with status filter", func(t *testing.T) {
		service, router := newRouter(t)

		service.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), dto.GetTripsRequest{Status: "upcoming"}).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ dto.GetTripsRequest) (dto.GetTripsResponse, error) {
				assert.Equal(t, constant.DefaultValueLimit, params.Limit)

				return dto.GetTripsResponse{Trips: []dto.TripSummary{{ID: "trip-1"}}}, nil
			})

		rec := serve(router, "/trips?status=upcoming")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"trip-1"`)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, router := newRouter(t)

		rec := serve(router, "/trips?status=sailing")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetTripByID(t *testing.T) {
	service, router := newRouter(t)

	service.EXPECT().Get(gomock.Any(), "trip-2").Return(dto.TripResponse{}, failure.NotFound("trip not found"))

	rec := serve(router, "/trips/trip-2")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetTripCalendar(t *testing.T) {
	service, router := newRouter(t)

	service.EXPECT().Calendar(gomock.Any(), "trip-1").Return([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), nil)

	rec := serve(router, "/trips/trip-1/calendar")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeCalendar, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Contains(t, rec.Header().Get(constant.RequestHeaderContentDisposition), "trip-1.ics")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}
