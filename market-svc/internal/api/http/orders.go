package httpapi

import (
	"crypto/subtle"
	"net/http"

	"food-marketplace/market-svc/internal/domain"
	"food-marketplace/market-svc/internal/service"
)

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	var req service.PlaceOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := h.Ledger.PlaceOrder(r.Context(), customerID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Order placed successfully",
		"order_id": order.ID,
	})
}

type transitionFunc func(h *Handler, r *http.Request, restaurantID, orderID int) (*domain.Order, error)

func (h *Handler) transitionOrder(w http.ResponseWriter, r *http.Request, apply transitionFunc, message string) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := apply(h, r, restaurantID, orderID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, message)
}

func (h *Handler) acceptOrder(w http.ResponseWriter, r *http.Request) {
	h.transitionOrder(w, r, func(h *Handler, r *http.Request, restaurantID, orderID int) (*domain.Order, error) {
		return h.Ledger.AcceptOrder(r.Context(), restaurantID, orderID)
	}, "Order accepted successfully")
}

func (h *Handler) rejectOrder(w http.ResponseWriter, r *http.Request) {
	h.transitionOrder(w, r, func(h *Handler, r *http.Request, restaurantID, orderID int) (*domain.Order, error) {
		return h.Ledger.RejectOrder(r.Context(), restaurantID, orderID)
	}, "Order rejected successfully")
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	h.transitionOrder(w, r, func(h *Handler, r *http.Request, restaurantID, orderID int) (*domain.Order, error) {
		return h.Ledger.CompleteOrder(r.Context(), restaurantID, orderID)
	}, "Order completed successfully")
}

func (h *Handler) restaurantOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	orders, err := h.Ledger.RestaurantOrders(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentOrders(orders))
}

func (h *Handler) restaurantOrderDetails(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	details, err := h.Ledger.RestaurantOrder(r.Context(), restaurantID, orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentOrderDetails(details))
}

func (h *Handler) customerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	orders, err := h.Ledger.CustomerOrders(r.Context(), customerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentOrders(orders))
}

func (h *Handler) customerOrderDetails(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	details, err := h.Ledger.CustomerOrder(r.Context(), customerID, orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentOrderDetails(details))
}

func (h *Handler) customerOrderQRCode(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	qr, err := h.Ledger.ReceiptQRCode(r.Context(), customerID, orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

func (h *Handler) platformBalance(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Admin-Token")
	if h.AdminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.AdminToken)) != 1 {
		h.writeError(w, r, service.ErrUnauthorized)
		return
	}

	balance, err := h.Ledger.PlatformBalance(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": money(balance)})
}
