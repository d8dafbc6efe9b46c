package ingestion

import (
	"itinera/infras/otel"
	bookingDto "itinera/internal/domains/booking/model/dto"
	"itinera/internal/domains/ingestion/service"
	"itinera/shared/constant"
	"itinera/shared/validator"
	"itinera/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ingestion
	otel    otel.Otel
}

func New(service service.Ingestion, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/internal/bookings", handler.IngestBooking)
}

// IngestBooking accepts one booking extracted from a user's mailbox.
// @Summary Ingest an extracted booking
// @Description Used by the extraction service. Duplicate source messages are rejected with 409.
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body bookingDto.IngestBookingRequest true "Extracted booking"
// @Success 201 {object} response.Data[ingestionDto.IngestResult]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/internal/bookings [post]
// @Security APIKeyAuth
func (handler *Handler) IngestBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IngestBooking")
	defer scope.End()

	req := bookingDto.IngestBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Ingest(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", req.UserID).Str("source", req.Source).Msg("failed to ingest booking")

		response.WithError(w, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"booking.id":     res.Booking.ID,
		"booking.source": req.Source,
		"auto_inserted":  res.Insertion != nil && res.Insertion.Success,
	})

	response.WithJSON(w, http.StatusCreated, res)
}
