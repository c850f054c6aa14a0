package httpapi

import (
	"context"
	"net/http"
	"time"

	"food-marketplace/market-svc/internal/service"
	"food-marketplace/pkg/logger"
	"food-marketplace/pkg/session"

	"github.com/gorilla/mux"
)

type SessionManager interface {
	Start(ctx context.Context, w http.ResponseWriter, id session.Identity) error
	End(w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	Accounts   service.AccountServiceInterface
	Catalog    service.CatalogServiceInterface
	Settings   service.SettingsServiceInterface
	Ledger     service.LedgerServiceInterface
	Sessions   SessionManager
	Log        *logger.Logger
	AdminToken string
	UploadDir  string
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/customer/register", h.registerCustomer).Methods("POST")
	r.HandleFunc("/api/register", h.registerRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurant/register", h.registerRestaurant).Methods("POST")
	r.HandleFunc("/api/customer/login", h.loginCustomer).Methods("POST")
	r.HandleFunc("/api/restaurant/login", h.loginRestaurant).Methods("POST")
	r.HandleFunc("/api/login", h.loginRestaurant).Methods("POST")
	r.HandleFunc("/api/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/session", h.currentSession).Methods("GET")

	r.HandleFunc("/api/customer/balance", h.customerBalance).Methods("GET")
	r.HandleFunc("/api/restaurant/balance", h.restaurantBalance).Methods("GET")
	r.HandleFunc("/api/restaurant", h.getOwnRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurant", h.updateOwnRestaurant).Methods("PUT")
	r.HandleFunc("/api/restaurant/image", h.uploadRestaurantImage).Methods("POST")
	r.HandleFunc("/api/restaurant_details/{id}", h.getRestaurantDetails).Methods("GET")
	r.HandleFunc("/api/restaurant_details/{id}/menu", h.getRestaurantMenu).Methods("GET")

	r.HandleFunc("/api/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/menu", h.createMenuItem).Methods("POST")
	r.HandleFunc("/api/menu/{id}", h.updateMenuItem).Methods("PUT")
	r.HandleFunc("/api/menu/{id}", h.deleteMenuItem).Methods("DELETE")
	r.HandleFunc("/api/menu/{id}/image", h.uploadMenuItemImage).Methods("POST")
	r.HandleFunc("/api/customer/dashboard/restaurant/{id}", h.getAvailableMenu).Methods("GET")

	r.HandleFunc("/api/settings/opening_hours", h.listOpeningHours).Methods("GET")
	r.HandleFunc("/api/settings/opening_hours", h.addOpeningHour).Methods("POST")
	r.HandleFunc("/api/settings/opening_hours/batch_update", h.replaceOpeningHours).Methods("POST")
	r.HandleFunc("/api/settings/delivery_areas", h.listDeliveryAreas).Methods("GET")
	r.HandleFunc("/api/settings/delivery_areas", h.addDeliveryArea).Methods("POST")
	r.HandleFunc("/api/settings/delivery_areas/{id}", h.deleteDeliveryArea).Methods("DELETE")
	r.HandleFunc("/api/restaurants/nearby", h.nearbyRestaurants).Methods("GET")

	r.HandleFunc("/api/customer/place_order", h.placeOrder).Methods("POST")
	r.HandleFunc("/api/customer/orders", h.customerOrders).Methods("GET")
	r.HandleFunc("/api/customer/orders/{id}/details", h.customerOrderDetails).Methods("GET")
	r.HandleFunc("/api/customer/orders/{id}/qrcode", h.customerOrderQRCode).Methods("GET")
	r.HandleFunc("/api/orders", h.restaurantOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.restaurantOrderDetails).Methods("GET")
	r.HandleFunc("/api/orders/{id}/details", h.restaurantOrderDetails).Methods("GET")
	r.HandleFunc("/api/orders/{id}/accept", h.acceptOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/reject", h.rejectOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/complete", h.completeOrder).Methods("POST")
	r.HandleFunc("/api/platform/balance", h.platformBalance).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "market-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) customerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := session.CurrentCustomerID(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
	}
	return id, ok
}

func (h *Handler) restaurantID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := session.CurrentRestaurantID(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
	}
	return id, ok
}
