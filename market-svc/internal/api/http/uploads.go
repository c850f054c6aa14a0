package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"food-marketplace/market-svc/internal/service"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// saveUpload stores the "image" form file under UploadDir and returns the
// public URL it is served from.
func (h *Handler) saveUpload(r *http.Request, prefix string) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", &service.ValidationError{Field: "image", Message: "file too large"}
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", &service.ValidationError{Field: "image", Message: "is required"}
	}
	defer file.Close()

	ext, ok := allowedImageTypes[header.Header.Get("Content-Type")]
	if !ok {
		return "", &service.ValidationError{Field: "image", Message: "only JPEG, PNG, GIF and WebP are allowed"}
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func (h *Handler) uploadRestaurantImage(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	url, err := h.saveUpload(r, fmt.Sprintf("restaurant_%d", restaurantID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.Accounts.UpdateRestaurant(r.Context(), restaurantID, service.RestaurantUpdate{ImageURL: &url}); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Image uploaded successfully",
		"image_url": url,
	})
}

func (h *Handler) uploadMenuItemImage(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.restaurantID(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	url, err := h.saveUpload(r, fmt.Sprintf("menu_%d_%d", restaurantID, itemID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.Catalog.SetItemImage(r.Context(), restaurantID, itemID, url); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Image uploaded successfully",
		"image_url": url,
	})
}
