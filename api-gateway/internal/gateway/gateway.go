package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"food-marketplace/pkg/logger"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	MarketSvcURL string
	NotifySvcURL string
	FrontendDir  string
}

type Gateway struct {
	config  Config
	client  HTTPClient
	log     *logger.Logger
	wsProxy http.Handler
}

func NewGateway(config Config, client HTTPClient, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	g := &Gateway{
		config: config,
		client: client,
		log:    log,
	}
	if target, err := url.Parse(config.NotifySvcURL); err == nil && target.Host != "" {
		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			g.log.Error("proxy_failed", logger.RequestID(r.Context()), "Websocket proxy failed", err, map[string]any{
				"path": r.URL.Path,
			})
			http.Error(w, "notification service unavailable", http.StatusBadGateway)
		}
		g.wsProxy = proxy
	}
	return g
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ProxyRequest forwards r to targetURL with the same path, query, headers and
// body, then copies the upstream response back unchanged.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	requestID := logger.RequestID(r.Context())
	g.log.Debug("proxy_request", requestID, "Proxying request", map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
		"target": targetURL,
	})

	target := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		g.log.Error("proxy_failed", requestID, "Failed to build upstream request", err, nil)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.ContentLength = r.ContentLength
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("proxy_failed", requestID, "Upstream unreachable", err, map[string]any{
			"target": targetURL,
		})
		http.Error(w, "upstream service unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.Warn("proxy_copy_failed", requestID, "Failed to copy upstream response", map[string]any{
			"error": err.Error(),
		})
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/ws" {
		if g.wsProxy == nil {
			http.Error(w, "notification service not configured", http.StatusBadGateway)
			return
		}
		g.wsProxy.ServeHTTP(w, r)
		return
	}

	if path == "/api/notifications" || strings.HasPrefix(path, "/api/notifications/") {
		g.ProxyRequest(w, r, g.config.NotifySvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/uploads/") {
		g.ProxyRequest(w, r, g.config.MarketSvcURL)
		return
	}

	if g.config.FrontendDir == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, g.config.FrontendDir+"/index.html")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.Handle("/ws", http.HandlerFunc(g.RouteHandler))
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/uploads/").HandlerFunc(g.RouteHandler)
	if g.config.FrontendDir != "" {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(g.config.FrontendDir))))
	}
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return g.withRequestID(r)
}

func (g *Gateway) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logger.GenerateRequestID()
			r.Header.Set("X-Request-ID", requestID)
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}
