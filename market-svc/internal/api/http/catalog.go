package httpapi

import (
	"net/http"

	"food-marketplace/market-svc/internal/service"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	items, err := h.Catalog.Menu(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentMenu(items))
}

func (h *Handler) getRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.Catalog.Menu(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentMenu(items))
}

func (h *Handler) getAvailableMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.Catalog.AvailableMenu(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentMenu(items))
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	var req service.MenuItemInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.Catalog.AddItem(r.Context(), restaurantID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, presentMenuItem(*item))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req service.MenuItemInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.Catalog.UpdateItem(r.Context(), restaurantID, itemID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentMenuItem(*item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	soft, err := h.Catalog.DeleteItem(r.Context(), restaurantID, itemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if soft {
		writeMessage(w, http.StatusOK, "Menu item is referenced by orders and was marked unavailable")
		return
	}
	writeMessage(w, http.StatusOK, "Menu item deleted successfully")
}
