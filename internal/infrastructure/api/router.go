package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func NewRouter(handler *PaintingHandler, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(log))

	r.HandleFunc("/", handler.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handler.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	sessions := r.PathPrefix("/api/sessions").Subrouter()
	sessions.HandleFunc("", handler.HandleCreateSession).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", handler.HandleGetSession).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/location", handler.HandleLocation).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/frames", handler.HandleFrame).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/paintings", handler.HandleGenerate).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/back", handler.HandleBack).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/painting", handler.HandleDownload).Methods(http.MethodGet)

	return r
}
