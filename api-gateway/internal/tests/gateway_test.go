package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"food-marketplace/api-gateway/internal/gateway"
	"food-marketplace/api-gateway/internal/mocks"
	"food-marketplace/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	marketURL = "http://market-svc"
	notifyURL = "http://notify-svc"
)

func upstreamResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	gw.HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler_Routing(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"place order", http.MethodPost, "/api/customer/place_order", marketURL + "/api/customer/place_order"},
		{"accept order", http.MethodPost, "/api/orders/5/accept", marketURL + "/api/orders/5/accept"},
		{"nearby keeps query", http.MethodGet, "/api/restaurants/nearby?postal_code=10115&open_now=true", marketURL + "/api/restaurants/nearby?postal_code=10115&open_now=true"},
		{"uploaded image", http.MethodGet, "/uploads/menu_3.png", marketURL + "/uploads/menu_3.png"},
		{"own notifications", http.MethodGet, "/api/notifications", notifyURL + "/api/notifications"},
		{"restaurant notifications", http.MethodGet, "/api/notifications/10", notifyURL + "/api/notifications/10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewHTTPClient(t)
			gw := gateway.NewGateway(gateway.Config{MarketSvcURL: marketURL, NotifySvcURL: notifyURL}, client, logger.Discard())

			client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				return req.Method == tt.method && req.URL.String() == tt.want
			})).Return(upstreamResponse(http.StatusOK, `{"ok":true}`), nil).Once()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()

			gw.RouteHandler(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
		})
	}
}

func TestGateway_RouteHandler_CopiesUpstreamStatusAndHeaders(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{MarketSvcURL: marketURL}, client, logger.Discard())

	resp := upstreamResponse(http.StatusConflict, `{"error":"Order cannot be accepted"}`)
	resp.Header.Set("Set-Cookie", "session=abc")
	client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Cookie") == "session=abc" && req.Header.Get("Content-Type") == "application/json"
	})).Return(resp, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/orders/7/accept", strings.NewReader(`{}`))
	req.Header.Set("Cookie", "session=abc")
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "session=abc", rr.Header().Get("Set-Cookie"))
	assert.Contains(t, rr.Body.String(), "cannot be accepted")
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{MarketSvcURL: "http://invalid"}, client, logger.Discard())

	client.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGateway_RequestIDForwarded(t *testing.T) {
	t.Run("client supplied", func(t *testing.T) {
		client := mocks.NewHTTPClient(t)
		gw := gateway.NewGateway(gateway.Config{MarketSvcURL: marketURL}, client, logger.Discard())

		client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			return req.Header.Get("X-Request-ID") == "req-1"
		})).Return(upstreamResponse(http.StatusOK, `[]`), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/customer/orders", nil)
		req.Header.Set("X-Request-ID", "req-1")
		rr := httptest.NewRecorder()

		gw.SetupRoutes().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "req-1", rr.Header().Get("X-Request-ID"))
	})

	t.Run("generated", func(t *testing.T) {
		client := mocks.NewHTTPClient(t)
		gw := gateway.NewGateway(gateway.Config{MarketSvcURL: marketURL}, client, logger.Discard())

		var forwarded string
		client.On("Do", mock.Anything).Run(func(args mock.Arguments) {
			forwarded = args.Get(0).(*http.Request).Header.Get("X-Request-ID")
		}).Return(upstreamResponse(http.StatusOK, `[]`), nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/customer/orders", nil)
		rr := httptest.NewRecorder()

		gw.SetupRoutes().ServeHTTP(rr, req)

		assert.NotEmpty(t, forwarded)
		assert.Equal(t, forwarded, rr.Header().Get("X-Request-ID"))
	})
}

func TestGateway_WebsocketProxied(t *testing.T) {
	upgrader := websocket.Upgrader{}
	notify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"new_order"}`))
	}))
	defer notify.Close()

	gw := gateway.NewGateway(gateway.Config{NotifySvcURL: notify.URL}, nil, logger.Discard())
	server := httptest.NewServer(gw.SetupRoutes())
	defer server.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"new_order"}`, string(frame))
}

func TestGateway_WebsocketWithoutNotifyService(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, logger.Discard())

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGateway_Frontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>marketplace</html>"), 0o644))

	gw := gateway.NewGateway(gateway.Config{FrontendDir: dir}, nil, logger.Discard())
	router := gw.SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/customer/dashboard", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "marketplace")

	noFrontend := gateway.NewGateway(gateway.Config{}, nil, logger.Discard())
	rr = httptest.NewRecorder()
	noFrontend.RouteHandler(rr, httptest.NewRequest(http.MethodGet, "/customer/dashboard", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
