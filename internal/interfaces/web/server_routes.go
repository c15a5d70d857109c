package web

import (
	"net/http"

	"github.com/riskibarqy/puppy-bowl/internal/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, recorder *metrics.Recorder, metricsEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !metricsEnabled {
		return
	}

	mux.Handle("GET /metrics", recorder.Handler())
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler, recorder *metrics.Recorder) {
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET /{$}", handler.Home},
		{"GET /players", handler.Roster},
		{"POST /players", handler.CreatePlayer},
		{"POST /players/details", handler.SeeDetails},
		{"GET /players/{playerID}", handler.OpenPlayer},
		{"POST /players/{playerID}/remove", handler.RemovePlayer},
	}

	for _, route := range routes {
		mux.Handle(route.pattern, instrument(recorder, route.pattern, route.handler))
	}
}
