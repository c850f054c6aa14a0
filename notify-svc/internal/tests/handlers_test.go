package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "food-marketplace/notify-svc/internal/api/http"
	"food-marketplace/notify-svc/internal/service"
	"food-marketplace/notify-svc/internal/storage"
	"food-marketplace/pkg/logger"
	"food-marketplace/pkg/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyServer struct {
	server   *httptest.Server
	hub      *service.Hub
	buffer   *storage.RedisBuffer
	sessions *session.Manager
}

func newNotifyServer(t *testing.T) *notifyServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub := service.NewHub()
	buffer := storage.NewRedisBuffer(rdb)
	sessions := session.NewManager(session.NewRedisStore(rdb), "test-secret", time.Hour)
	handler := httpapi.NewHandler(hub, buffer, []string{"http://localhost:5173"}, logger.Discard())

	server := httptest.NewServer(httpapi.NewRouter(handler, httpapi.RouterConfig{Gate: sessions.Gate}))
	t.Cleanup(server.Close)
	return &notifyServer{server: server, hub: hub, buffer: buffer, sessions: sessions}
}

func (s *notifyServer) cookie(t *testing.T, id session.Identity) string {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, s.sessions.Start(context.Background(), rec, id))
	c := rec.Result().Cookies()[0]
	return c.Name + "=" + c.Value
}

func (s *notifyServer) dial(t *testing.T, cookie, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws" + query
	header := http.Header{}
	if cookie != "" {
		header.Set("Cookie", cookie)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func waitForConnections(t *testing.T, hub *service.Hub, restaurantID, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.Connections(restaurantID) == want
	}, 2*time.Second, 10*time.Millisecond)
}

var restaurant10 = session.Identity{Role: session.RoleRestaurant, ID: 10, Username: "pizza"}

func TestWebSocket_LiveDeliveryAndBufferedFlush(t *testing.T) {
	s := newNotifyServer(t)
	ctx := context.Background()
	require.NoError(t, s.buffer.Push(ctx, 10, []byte(`{"event":"new_order","payload":{"order_id":1}}`)))

	conn, _, err := s.dial(t, s.cookie(t, restaurant10), "")
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, buffered, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"new_order","payload":{"order_id":1}}`, string(buffered))

	waitForConnections(t, s.hub, 10, 1)
	consumer := service.NewConsumer(nil, s.hub, s.buffer, logger.Discard())
	require.NoError(t, consumer.Process(ctx, []byte(newOrderEvent)))

	_, live, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(live, &frame))
	assert.Equal(t, "new_order", frame["event"])

	frames, err := s.buffer.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, frames)

	conn.Close()
	waitForConnections(t, s.hub, 10, 0)
}

func TestWebSocket_RejectsWithoutRestaurantSession(t *testing.T) {
	s := newNotifyServer(t)

	tests := []struct {
		name   string
		cookie string
		query  string
	}{
		{"no_session", "", ""},
		{"customer_session", s.cookie(t, session.Identity{Role: session.RoleCustomer, ID: 1}), ""},
		{"other_restaurant", s.cookie(t, restaurant10), "?restaurant_id=20"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, resp, err := s.dial(t, tc.cookie, tc.query)

			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestNotifications_DrainEndpoint(t *testing.T) {
	s := newNotifyServer(t)
	ctx := context.Background()
	require.NoError(t, s.buffer.Push(ctx, 10, []byte(`{"event":"new_order","payload":{"order_id":7}}`)))

	get := func(path, cookie string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
		require.NoError(t, err)
		if cookie != "" {
			req.Header.Set("Cookie", cookie)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}
	cookie := s.cookie(t, restaurant10)

	assert.Equal(t, http.StatusUnauthorized, get("/api/notifications/10", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, get("/api/notifications/20", cookie).StatusCode)

	resp := get("/api/notifications/10", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Notifications []map[string]any `json:"notifications"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "new_order", body.Notifications[0]["event"])

	resp = get("/api/notifications", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Notifications)
}

func TestHealth(t *testing.T) {
	s := newNotifyServer(t)

	resp, err := http.Get(s.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
