package di

import (
	"itinera/infras/otel"
	ingestionService "itinera/internal/domains/ingestion/service"
	"itinera/transport/http"
)

// App groups the long running parts of the service started by cmd/app.
type App struct {
	HTTP     *http.HTTP
	Consumer *ingestionService.Consumer
	Otel     otel.Otel
}
