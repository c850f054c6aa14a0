package httpapi

import (
	"net/http"

	"food-marketplace/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
)

type RouterConfig struct {
	Gate        func(http.Handler) http.Handler
	Metrics     *metrics.ServerMetrics
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
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
	if handler.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(handler.UploadDir))))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID", "X-Admin-Token"},
		AllowCredentials: true,
	})
	return c.Handler(RequestLogger(handler.Log)(TrimTrailingSlash(r)))
}
