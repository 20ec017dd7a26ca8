package api

import (
	_ "fxconvert/docs"
	"fxconvert/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler, gatherer prometheus.Gatherer) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))
	router.Use(requestID)
	router.Use(requestLogger)

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	router.Method("GET", "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	rates := func(r chi.Router) {
		r.Get("/", rateHandler.Convert)
		r.Get("/currencies", rateHandler.GetSupportedCodes)
	}
	router.Route("/rates", rates)
	router.Route("/api/v1/rates", rates)
	return router
}
