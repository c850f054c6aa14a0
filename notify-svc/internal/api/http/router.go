package httpapi

import (
	"net/http"

	"food-marketplace/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterConfig struct {
	Gate     func(http.Handler) http.Handler
	Metrics  *metrics.ServerMetrics
	Gatherer prometheus.Gatherer
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer)).Methods("GET")
	}
	if cfg.Gate != nil {
		r.Use(cfg.Gate)
	}
	handler.RegisterRoutes(r)
	return RequestLogger(handler.Log)(r)
}
