package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"food-marketplace/market-svc/internal/service"
	"food-marketplace/pkg/logger"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func errorStatus(err error) (int, string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized access"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusBadRequest, "Insufficient balance"
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username already exists"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request_failed", logger.RequestID(r.Context()), "Unhandled error", err, map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ValidationError{Message: "invalid JSON body"}
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
