package handler

import (
	"itinera/config"
	"itinera/di"
	"itinera/shared/logger"
	"net/http"
	"sync"
)

var (
	once   sync.Once
	routes http.Handler
)

// Handler serves the HTTP API from a serverless runtime. The Kafka consumer is not started here.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.InitLogger()
		logger.Configure(config.Get())

		routes = di.InitializeService().HTTP.Handler()
	})

	r.RequestURI = r.URL.String()

	routes.ServeHTTP(w, r)
}
