package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"overlaysvc/internal/overlay/model"
	"overlaysvc/internal/overlay/service"
	"overlaysvc/pkg/logger"
)

const healthMessage = "Backend is running"

type OverlayHandler struct {
	Service *service.OverlayService
}

func NewOverlayHandler(service *service.OverlayService) *OverlayHandler {
	return &OverlayHandler{Service: service}
}

func (h *OverlayHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(healthMessage))
}

// Ready reports whether the store answers a ping.
func (h *OverlayHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Ping(r.Context()); err != nil {
		logger.Sugar.Warnf("Readiness check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *OverlayHandler) CreateOverlay(w http.ResponseWriter, r *http.Request) {
	body, err := model.DecodeBody(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	overlay, err := h.Service.CreateOverlay(r.Context(), model.NewCreateRequest(body))
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create overlay: %v", err)
		writeError(w, err, "Failed to create overlay")
		return
	}

	writeJSON(w, http.StatusCreated, overlay)
}

func (h *OverlayHandler) GetOverlays(w http.ResponseWriter, r *http.Request) {
	overlays, err := h.Service.GetOverlays(r.Context())
	if err != nil {
		logger.Sugar.Errorf("Error fetching overlays: %v", err)
		writeError(w, err, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, overlays)
}

func (h *OverlayHandler) UpdateOverlay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := model.DecodeBody(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateOverlay(r.Context(), id, model.NewUpdateRequest(body)); err != nil {
		logger.Sugar.Errorf("Handler: Failed to update overlay %s: %v", id, err)
		writeError(w, err, "Failed to update overlay")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Overlay updated"})
}

func (h *OverlayHandler) DeleteOverlay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.Service.DeleteOverlay(r.Context(), id); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete overlay %s: %v", id, err)
		writeError(w, err, "Failed to delete overlay")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Overlay deleted"})
}

// writeError keeps failures generic: a malformed id is the caller's fault,
// anything else is reported without store detail.
func writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, model.ErrInvalidID) {
		http.Error(w, "Invalid overlay id", http.StatusBadRequest)
		return
	}
	http.Error(w, msg, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to write response: %v", err)
	}
}
