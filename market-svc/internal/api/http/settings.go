package httpapi

import (
	"net/http"
	"strconv"

	"food-marketplace/market-svc/internal/service"
)

func (h *Handler) listOpeningHours(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	hours, err := h.Settings.OpeningHours(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentOpeningHours(hours))
}

func (h *Handler) addOpeningHour(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	var req service.OpeningHourInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	hour, err := h.Settings.AddOpeningHour(r.Context(), restaurantID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, openingHourView{
		ID:        hour.ID,
		DayOfWeek: hour.DayOfWeek,
		OpenTime:  hour.OpenTime,
		CloseTime: hour.CloseTime,
	})
}

func (h *Handler) replaceOpeningHours(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	var req service.OpeningHoursBatch
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Settings.ReplaceOpeningHours(r.Context(), restaurantID, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Opening hours updated successfully")
}

func (h *Handler) listDeliveryAreas(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	areas, err := h.Settings.DeliveryAreas(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentDeliveryAreas(areas))
}

func (h *Handler) addDeliveryArea(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	var req service.DeliveryAreaInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	area, err := h.Settings.AddDeliveryArea(r.Context(), restaurantID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deliveryAreaView{ID: area.ID, PostalCode: area.PostalCode})
}

func (h *Handler) deleteDeliveryArea(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	areaID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Settings.DeleteDeliveryArea(r.Context(), restaurantID, areaID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Delivery area deleted successfully")
}

func (h *Handler) nearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	openNow, _ := strconv.ParseBool(r.URL.Query().Get("open_now"))

	restaurants, err := h.Settings.Nearby(r.Context(), customerID, openNow)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presentRestaurants(restaurants))
}
