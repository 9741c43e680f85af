package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	"github.com/rabbithabit/rabbit-core/internal/websocket"
)

type HubHandler struct {
	Hub *websocket.Hub
}

func NewHubHandler(hub *websocket.Hub) *HubHandler {
	return &HubHandler{
		Hub: hub,
	}
}

func (h *HubHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "rabbit-core",
	})
}

func (h *HubHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	stats := h.Hub.GetHubStats()
	writeJSON(w, http.StatusOK, CreateResponse("get websocket stats", stats, requestID(r)))
	return nil
}

func (h *HubHandler) HandleGetChannelStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	channelID := chi.URLParam(r, "channelId")
	stats := h.Hub.ChannelStats(channelID)
	writeJSON(w, http.StatusOK, CreateResponse("get websocket channel stats", stats, requestID(r)))
	return nil
}
