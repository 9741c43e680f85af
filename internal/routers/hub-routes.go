package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/rabbithabit/rabbit-core/internal/handlers"
	"github.com/rabbithabit/rabbit-core/internal/websocket"
)

func HubRouter(r chi.Router, hub *websocket.Hub) {
	hubHandler := handlers.NewHubHandler(hub)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", hubHandler.HandleHealth)
		r.Get("/stats", handlers.WrapHandler(hubHandler.HandleGetStats))
		r.Get("/channels/{channelId}/stats", handlers.WrapHandler(hubHandler.HandleGetChannelStats))
	})
}
