package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"food-marketplace/notify-svc/internal/service"
	"food-marketplace/pkg/logger"
	"food-marketplace/pkg/session"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Handler struct {
	Hub      *service.Hub
	Buffer   service.Buffer
	Log      *logger.Logger
	Upgrader websocket.Upgrader
}

func NewHandler(hub *service.Hub, buffer service.Buffer, allowedOrigins []string, log *logger.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return &Handler{
		Hub:    hub,
		Buffer: buffer,
		Log:    log,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/ws", h.serveWS).Methods("GET")
	r.HandleFunc("/api/notifications", h.drainOwn).Methods("GET")
	r.HandleFunc("/api/notifications/{restaurant_id}", h.drainRestaurant).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "notify-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// restaurantID returns the session's restaurant, refusing a mismatching
// explicit id so one restaurant cannot read another's notifications.
func restaurantID(r *http.Request, requested string) (int, bool) {
	id, ok := session.CurrentRestaurantID(r.Context())
	if !ok {
		return 0, false
	}
	if requested != "" && requested != strconv.Itoa(id) {
		return 0, false
	}
	return id, true
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	id, ok := restaurantID(r, r.URL.Query().Get("restaurant_id"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized access")
		return
	}
	requestID := logger.RequestID(r.Context())

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("ws_upgrade_failed", requestID, err.Error(), map[string]any{"restaurant_id": id})
		return
	}
	done := make(chan struct{})
	defer func() {
		close(done)
		h.Hub.Unregister(id, conn)
		conn.Close()
		h.Log.Info("ws_disconnected", requestID, "Restaurant disconnected", map[string]any{"restaurant_id": id})
	}()

	flushed, err := h.Hub.Attach(r.Context(), id, conn, h.Buffer)
	if err != nil {
		h.Log.Error("buffer_flush_failed", requestID, "Failed to flush notification buffer", err, map[string]any{
			"restaurant_id": id,
			"flushed":       flushed,
		})
	}
	h.Log.Info("ws_connected", requestID, "Restaurant connected", map[string]any{
		"restaurant_id": id,
		"connections":   h.Hub.Connections(id),
		"flushed":       flushed,
	})

	go keepAlive(conn, done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) drainOwn(w http.ResponseWriter, r *http.Request) {
	h.drain(w, r, "")
}

func (h *Handler) drainRestaurant(w http.ResponseWriter, r *http.Request) {
	h.drain(w, r, mux.Vars(r)["restaurant_id"])
}

func (h *Handler) drain(w http.ResponseWriter, r *http.Request, requested string) {
	id, ok := restaurantID(r, requested)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized access")
		return
	}

	frames, err := h.Buffer.Drain(r.Context(), id)
	if err != nil {
		h.Log.Error("buffer_drain_failed", logger.RequestID(r.Context()), "Failed to drain notification buffer", err, map[string]any{
			"restaurant_id": id,
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": frames})
}
