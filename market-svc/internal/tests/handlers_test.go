package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "food-marketplace/market-svc/internal/api/http"
	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/market-svc/internal/mocks"
	"food-marketplace/market-svc/internal/service"
	"food-marketplace/pkg/logger"
	"food-marketplace/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerMocks struct {
	accounts *mocks.AccountServiceInterface
	catalog  *mocks.CatalogServiceInterface
	settings *mocks.SettingsServiceInterface
	ledger   *mocks.LedgerServiceInterface
	sessions *mocks.SessionManager
}

// setupTestRouter builds the full router. A non-nil identity is attached to
// every request the way the session gate would after resolving a cookie.
func setupTestRouter(t *testing.T, identity *session.Identity) (http.Handler, handlerMocks) {
	m := handlerMocks{
		accounts: mocks.NewAccountServiceInterface(t),
		catalog:  mocks.NewCatalogServiceInterface(t),
		settings: mocks.NewSettingsServiceInterface(t),
		ledger:   mocks.NewLedgerServiceInterface(t),
		sessions: mocks.NewSessionManager(t),
	}
	handler := &httpapi.Handler{
		Accounts:   m.accounts,
		Catalog:    m.catalog,
		Settings:   m.settings,
		Ledger:     m.ledger,
		Sessions:   m.sessions,
		Log:        logger.Discard(),
		AdminToken: "admin-secret",
	}
	gate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity != nil {
				r = r.WithContext(session.WithIdentity(r.Context(), *identity))
			}
			next.ServeHTTP(w, r)
		})
	}
	return httpapi.NewRouter(handler, httpapi.RouterConfig{Gate: gate}), m
}

var (
	asCustomer   = &session.Identity{Role: session.RoleCustomer, ID: 1, Username: "ada"}
	asRestaurant = &session.Identity{Role: session.RoleRestaurant, ID: 10, Username: "pizza"}
)

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHandler_Health(t *testing.T) {
	router, _ := setupTestRouter(t, nil)

	rr := serve(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "market-svc", decodeBody(t, rr)["service"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestHandler_RequiresMatchingRole(t *testing.T) {
	tests := []struct {
		name     string
		identity *session.Identity
		method   string
		path     string
	}{
		{"place_order_without_session", nil, http.MethodPost, "/api/customer/place_order"},
		{"place_order_as_restaurant", asRestaurant, http.MethodPost, "/api/customer/place_order"},
		{"accept_as_customer", asCustomer, http.MethodPost, "/api/orders/5/accept"},
		{"menu_without_session", nil, http.MethodGet, "/api/menu"},
		{"customer_balance_as_restaurant", asRestaurant, http.MethodGet, "/api/customer/balance"},
		{"session_without_cookie", nil, http.MethodGet, "/api/session"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := setupTestRouter(t, tc.identity)

			rr := serve(router, tc.method, tc.path, `{}`)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Unauthorized access", decodeBody(t, rr)["error"])
		})
	}
}

func TestHandler_PlaceOrder(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		prepareMocks func(m handlerMocks)
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: `{"restaurant_id":10,"items":[{"id":1,"quantity":2,"price":10.00}],"total":20.00,"notes":"ring twice"}`,
			prepareMocks: func(m handlerMocks) {
				m.ledger.On("PlaceOrder", mock.Anything, 1, mock.MatchedBy(func(req service.PlaceOrderRequest) bool {
					return req.RestaurantID == 10 && len(req.Items) == 1 && req.Items[0].MenuItemID == 1 &&
						req.Total != nil && req.Total.Equal(dec("20")) && req.Notes == "ring twice"
				})).Return(&domain.Order{ID: 42}, nil).Once()
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"order_id":42`,
		},
		{
			name:         "invalid_json",
			payload:      `not json`,
			prepareMocks: func(m handlerMocks) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `invalid JSON body`,
		},
		{
			name:    "insufficient_balance",
			payload: `{"restaurant_id":10,"items":[{"id":1,"quantity":9}]}`,
			prepareMocks: func(m handlerMocks) {
				m.ledger.On("PlaceOrder", mock.Anything, 1, mock.Anything).
					Return(nil, service.ErrInsufficientBalance).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `"error":"Insufficient balance"`,
		},
		{
			name:    "unknown_item",
			payload: `{"restaurant_id":10,"items":[{"id":99,"quantity":1}]}`,
			prepareMocks: func(m handlerMocks) {
				m.ledger.On("PlaceOrder", mock.Anything, 1, mock.Anything).
					Return(nil, fmt.Errorf("menu item 99 %w", service.ErrNotFound)).Once()
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `menu item 99 not found`,
		},
		{
			name:    "storage_failure",
			payload: `{"restaurant_id":10,"items":[{"id":1,"quantity":1}]}`,
			prepareMocks: func(m handlerMocks) {
				m.ledger.On("PlaceOrder", mock.Anything, 1, mock.Anything).
					Return(nil, fmt.Errorf("connection reset")).Once()
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `"error":"Internal server error"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, m := setupTestRouter(t, asCustomer)
			tc.prepareMocks(m)

			rr := serve(router, http.MethodPost, "/api/customer/place_order", tc.payload)

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}
}

func TestHandler_OrderTransitions(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		method       string
		err          error
		expectedCode int
		expectedBody string
	}{
		{"accept", "/api/orders/5/accept", "AcceptOrder", nil, http.StatusOK, "Order accepted successfully"},
		{"accept_trailing_slash", "/api/orders/5/accept/", "AcceptOrder", nil, http.StatusOK, "Order accepted successfully"},
		{"reject", "/api/orders/5/reject", "RejectOrder", nil, http.StatusOK, "Order rejected successfully"},
		{"complete", "/api/orders/5/complete", "CompleteOrder", nil, http.StatusOK, "Order completed successfully"},
		{
			"complete_twice", "/api/orders/5/complete", "CompleteOrder",
			fmt.Errorf("%w: completed -> completed", domain.ErrInvalidTransition),
			http.StatusConflict, "invalid order status transition",
		},
		{
			"foreign_order", "/api/orders/5/reject", "RejectOrder",
			fmt.Errorf("order %w", service.ErrNotFound),
			http.StatusNotFound, "order not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, m := setupTestRouter(t, asRestaurant)
			var order *domain.Order
			if tc.err == nil {
				order = &domain.Order{ID: 5}
			}
			m.ledger.On(tc.method, mock.Anything, 10, 5).Return(order, tc.err).Once()

			rr := serve(router, http.MethodPost, tc.path, "")

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}

	t.Run("bad_order_id", func(t *testing.T) {
		router, _ := setupTestRouter(t, asRestaurant)

		rr := serve(router, http.MethodPost, "/api/orders/abc/accept", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandler_CustomerOrderDetails(t *testing.T) {
	router, m := setupTestRouter(t, asCustomer)
	m.ledger.On("CustomerOrder", mock.Anything, 1, 7).Return(&domain.OrderDetails{
		Order: domain.Order{
			ID: 7, CustomerID: 1, RestaurantID: 10, Status: domain.StatusPreparing,
			TotalAmount: dec("40.00"), PlatformFee: dec("6.00"), RestaurantAmount: dec("34.00"),
			Items: []domain.OrderItem{{MenuItemID: 1, Name: "Pizza", Quantity: 2, PriceAtOrder: dec("20.00")}},
		},
		Customer: domain.Customer{FirstName: "Ada", LastName: "Lovelace", Street: "Main St 1", PostalCode: "10115"},
	}, nil).Once()

	rr := serve(router, http.MethodGet, "/api/customer/orders/7/details", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `"total_amount":40.00`)
	assert.Contains(t, body, `"platform_fee":6.00`)
	assert.Contains(t, body, `"status":"preparing"`)
	assert.Contains(t, body, `"address":"Main St 1, 10115"`)
	assert.Contains(t, body, `"name":"Pizza"`)
}

func TestHandler_ReceiptQRCode(t *testing.T) {
	router, m := setupTestRouter(t, asCustomer)
	m.ledger.On("ReceiptQRCode", mock.Anything, 1, 7).Return([]byte("\x89PNG"), nil).Once()

	rr := serve(router, http.MethodGet, "/api/customer/orders/7/qrcode", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rr.Body.String())
}

func TestHandler_PlatformBalance(t *testing.T) {
	router, m := setupTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/platform/balance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	m.ledger.On("PlatformBalance", mock.Anything).Return(dec("6"), nil).Once()
	req = httptest.NewRequest(http.MethodGet, "/api/platform/balance", nil)
	req.Header.Set("X-Admin-Token", "admin-secret")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"balance":6.00}`, rr.Body.String())
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		prepareMocks func(m handlerMocks)
		expectedCode int
		expectedBody string
	}{
		{
			name: "customer_success",
			path: "/api/customer/login",
			prepareMocks: func(m handlerMocks) {
				m.accounts.On("LoginCustomer", mock.Anything, service.Credentials{Username: "ada", Password: "secret1"}).
					Return(&domain.Customer{ID: 1, Username: "ada"}, nil).Once()
				m.sessions.On("Start", mock.Anything, mock.Anything,
					session.Identity{Role: session.RoleCustomer, ID: 1, Username: "ada"}).Return(nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"customer_id":1`,
		},
		{
			name: "restaurant_alias",
			path: "/api/login",
			prepareMocks: func(m handlerMocks) {
				m.accounts.On("LoginRestaurant", mock.Anything, mock.Anything).
					Return(&domain.Restaurant{ID: 10, Username: "ada"}, nil).Once()
				m.sessions.On("Start", mock.Anything, mock.Anything,
					session.Identity{Role: session.RoleRestaurant, ID: 10, Username: "ada"}).Return(nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"restaurant_id":10`,
		},
		{
			name: "wrong_password",
			path: "/api/customer/login",
			prepareMocks: func(m handlerMocks) {
				m.accounts.On("LoginCustomer", mock.Anything, mock.Anything).
					Return(nil, service.ErrInvalidCredentials).Once()
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `Invalid username or password`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, m := setupTestRouter(t, nil)
			tc.prepareMocks(m)

			rr := serve(router, http.MethodPost, tc.path, `{"username":"ada","password":"secret1"}`)

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}
}

func TestHandler_RegisterCustomer(t *testing.T) {
	router, m := setupTestRouter(t, nil)
	m.accounts.On("RegisterCustomer", mock.Anything, mock.MatchedBy(func(req service.CustomerRegistration) bool {
		return req.Username == "ada" && req.PostalCode == "10115" && req.FirstName == "Ada"
	})).Return(&domain.Customer{ID: 3, Username: "ada"}, nil).Once()
	m.sessions.On("Start", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	rr := serve(router, http.MethodPost, "/api/customer/register",
		`{"username":"ada","password":"secret1","firstName":"Ada","lastName":"Lovelace","street":"Main St 1","postalCode":"10115"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"customer_id":3`)
}

func TestHandler_AddDeliveryAreaDuplicate(t *testing.T) {
	router, m := setupTestRouter(t, asRestaurant)
	m.settings.On("AddDeliveryArea", mock.Anything, 10, service.DeliveryAreaInput{PostalCode: "10115"}).
		Return(nil, &service.ValidationError{Field: "postal_code", Message: "Postal code already exists"}).Once()

	rr := serve(router, http.MethodPost, "/api/settings/delivery_areas", `{"postal_code":"10115"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Postal code already exists")
}

func TestHandler_NearbyOpenNow(t *testing.T) {
	router, m := setupTestRouter(t, asCustomer)
	m.settings.On("Nearby", mock.Anything, 1, true).
		Return([]domain.Restaurant{{ID: 10, Name: "Pizzeria", PostalCode: "10115"}}, nil).Once()

	rr := serve(router, http.MethodGet, "/api/restaurants/nearby?open_now=true", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Pizzeria"`)
}
