package httpapi

import (
	"net/http"

	"food-marketplace/market-svc/internal/service"
	"food-marketplace/pkg/logger"
	"food-marketplace/pkg/session"
)

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, id session.Identity) bool {
	if err := h.Sessions.Start(r.Context(), w, id); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

func (h *Handler) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerRegistration
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	customer, err := h.Accounts.RegisterCustomer(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.startSession(w, r, session.Identity{Role: session.RoleCustomer, ID: customer.ID, Username: customer.Username}) {
		return
	}

	h.Log.Info("customer_registered", logger.RequestID(r.Context()), "Customer registered", map[string]any{
		"customer_id": customer.ID,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Customer registered successfully",
		"customer_id": customer.ID,
	})
}

func (h *Handler) registerRestaurant(w http.ResponseWriter, r *http.Request) {
	var req service.RestaurantRegistration
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	restaurant, err := h.Accounts.RegisterRestaurant(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.startSession(w, r, session.Identity{Role: session.RoleRestaurant, ID: restaurant.ID, Username: restaurant.Username}) {
		return
	}

	h.Log.Info("restaurant_registered", logger.RequestID(r.Context()), "Restaurant registered", map[string]any{
		"restaurant_id": restaurant.ID,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "Restaurant registered successfully",
		"restaurant_id": restaurant.ID,
	})
}

func (h *Handler) loginCustomer(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		h.writeError(w, r, err)
		return
	}

	customer, err := h.Accounts.LoginCustomer(r.Context(), creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.startSession(w, r, session.Identity{Role: session.RoleCustomer, ID: customer.ID, Username: customer.Username}) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Login successful",
		"customer_id": customer.ID,
		"username":    customer.Username,
	})
}

func (h *Handler) loginRestaurant(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		h.writeError(w, r, err)
		return
	}

	restaurant, err := h.Accounts.LoginRestaurant(r.Context(), creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !h.startSession(w, r, session.Identity{Role: session.RoleRestaurant, ID: restaurant.ID, Username: restaurant.Username}) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"restaurant_id": restaurant.ID,
		"username":      restaurant.Username,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       id.ID,
		"role":     id.Role,
		"username": id.Username,
	})
}

func (h *Handler) customerBalance(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	customer, err := h.Accounts.Customer(r.Context(), customerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": money(customer.Balance)})
}

func (h *Handler) restaurantBalance(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	restaurant, err := h.Accounts.Restaurant(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": money(restaurant.Balance)})
}

func (h *Handler) getOwnRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	restaurant, err := h.Accounts.Restaurant(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentRestaurant(*restaurant))
}

func (h *Handler) updateOwnRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	var req service.RestaurantUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	restaurant, err := h.Accounts.UpdateRestaurant(r.Context(), restaurantID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Restaurant updated successfully",
		"restaurant": presentRestaurant(*restaurant),
	})
}

func (h *Handler) getRestaurantDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	restaurant, err := h.Accounts.Restaurant(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentRestaurant(*restaurant))
}
