package booking

import (
	"context"
	"itinera/infras/otel"
	"itinera/internal/domains/booking/model"
	"itinera/internal/domains/booking/model/dto"
	"itinera/internal/domains/booking/service"
	ingestionService "itinera/internal/domains/ingestion/service"
	insertionService "itinera/internal/domains/insertion/service"
	"itinera/shared/constant"
	gDto "itinera/shared/dto"
	"itinera/shared/validator"
	"itinera/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service   service.Booking
	insertion insertionService.Insertion
	ingestion ingestionService.Ingestion
	otel      otel.Otel
}

func New(service service.Booking, insertion insertionService.Insertion, ingestion ingestionService.Ingestion, otel otel.Otel) Handler {
	return Handler{
		service:   service,
		insertion: insertion,
		ingestion: ingestion,
		otel:      otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/bookings", handler.GetBookings)
	router.Post("/bookings", handler.CreateBooking)
	router.Get("/bookings/{id}", handler.GetBookingByID)
	router.Post("/bookings/{id}/insert", handler.InsertBooking)
	router.Post("/bookings/{id}/auto-insert", handler.AutoInsertBooking)
	router.Post("/bookings/{id}/review", handler.ReviewBooking)
	router.Post("/bookings/{id}/ignore", handler.IgnoreBooking)
	router.Delete("/bookings/{id}/insertion", handler.RemoveBooking)
}

// CreateBooking stores a booking the user entered by hand.
// @Summary Create a booking
// @Description Store a manually entered booking. It is merged into a trip right away when auto insertion is on.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[ingestionDto.IngestResult]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.ingestion.Ingest(ctx, req.ToIngest(user))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetBookings lists the bookings of the signed in user.
// @Summary List bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, reviewed, added_to_trip, ignored)"
// @Param trip_id query string false "Filter by trip ID"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	req := dto.GetBookingsRequest{
		Status: r.URL.Query().Get(model.FieldStatus),
		TripID: r.URL.Query().Get(model.FieldTripID),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query params")

		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID returns one booking of the signed in user.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// InsertBooking merges a booking into the trip the user picked.
// @Summary Insert a booking into a trip
// @Description Places the booking on the matching day of the trip. Time overlaps are reported, not rejected.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.InsertBookingRequest true "Insert Booking Request"
// @Success 200 {object} response.Data[insertionModel.InsertResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/insert [post]
// @Security BearerAuth
func (handler *Handler) InsertBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InsertBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.InsertBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.insertion.InsertBookingIntoTrip(ctx, id, req.TripID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Str("trip_id", req.TripID).Msg("failed to insert booking")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"booking.id":        id,
		"trip.id":           req.TripID,
		"conflict_detected": res.ConflictDetected,
	})

	response.WithJSON(w, http.StatusOK, res)
}

// AutoInsertBooking merges a booking into the trip its dates fall in.
// @Summary Insert a booking into the best matching trip
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[insertionModel.InsertResult]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/auto-insert [post]
// @Security BearerAuth
func (handler *Handler) AutoInsertBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AutoInsertBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.insertion.AutoInsertBooking(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to auto insert booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// RemoveBooking takes a merged booking back out of its trip.
// @Summary Remove a booking from its trip
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[insertionModel.InsertResult]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/insertion [delete]
// @Security BearerAuth
func (handler *Handler) RemoveBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.insertion.RemoveBookingFromTrip(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to remove booking from trip")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ReviewBooking marks a pending booking as reviewed.
// @Summary Mark a booking as reviewed
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/review [post]
// @Security BearerAuth
func (handler *Handler) ReviewBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "ReviewBooking", handler.service.Review)
}

// IgnoreBooking hides a booking from the review queue.
// @Summary Ignore a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/ignore [post]
// @Security BearerAuth
func (handler *Handler) IgnoreBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "IgnoreBooking", handler.service.Ignore)
}

func (handler *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	apply func(ctx context.Context, id string) (dto.BookingResponse, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := apply(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to change booking status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}
