package router

import (
	"itinera/internal/handlers/booking"
	"itinera/internal/handlers/ingestion"
	"itinera/internal/handlers/trip"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking   booking.Handler
	Trip      trip.Handler
	Ingestion ingestion.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Trip.Router(routerGroup)
		r.DomainHandlers.Ingestion.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
