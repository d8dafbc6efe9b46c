package trip

import (
	"itinera/infras/otel"
	"itinera/internal/domains/trip/model"
	"itinera/internal/domains/trip/model/dto"
	"itinera/internal/domains/trip/service"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	"itinera/shared/validator"
	"itinera/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Trip
	otel    otel.Otel
}

func New(service service.Trip, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/trips", handler.GetTrips)
	router.Get("/trips/{id}", handler.GetTripByID)
	router.Get("/trips/{id}/calendar", handler.GetTripCalendar)
}

// GetTrips lists the trips of the signed in user.
// @Summary List trips
// @Tags Trip
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetTripsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips [get]
// @Security BearerAuth
func (handler *Handler) GetTrips(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTrips")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	req := dto.GetTripsRequest{Status: r.URL.Query().Get(model.FieldStatus)}
	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query params")

		response.WithError(w, err)

		return
	}

	trips, err := handler.service.GetAll(ctx, queryParams, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trips")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trips)
}

// GetTripByID returns a trip with its full itinerary.
// @Summary Get a trip by ID
// @Tags Trip
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response.Data[dto.TripResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTripByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTripByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	trip, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trip by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trip)
}

// GetTripCalendar exports the timed items of a trip as an iCalendar file.
// @Summary Export a trip as iCalendar
// @Tags Trip
// @Produce text/calendar
// @Param id path string true "Trip ID"
// @Success 200 {string} string "iCalendar document"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/trips/{id}/calendar [get]
// @Security BearerAuth
func (handler *Handler) GetTripCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTripCalendar")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	calendar, err := handler.service.Calendar(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export trip calendar")

		response.WithError(w, err)

		return
	}

	response.WithFile(w, constant.ContentTypeCalendar, id+".ics", calendar)
}
