package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/rabbithabit/rabbit-core/internal/handlers"
	"github.com/rabbithabit/rabbit-core/internal/middleware"
	"github.com/rabbithabit/rabbit-core/state"
)

func ChatRouter(r chi.Router, state *state.AppState) {
	chatHandler := handlers.NewChatHandler(state)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/channels/{channelId}/messages", handlers.WrapHandler(chatHandler.SendMessage))
		protected.Get("/api/v1/channels/{channelId}/messages", handlers.WrapHandler(chatHandler.ListMessages))
		protected.Delete("/api/v1/channels/{channelId}/messages/{messageId}", handlers.WrapHandler(chatHandler.DeleteMessage))
		protected.Patch("/api/v1/channels/{channelId}/read", handlers.WrapHandler(chatHandler.MarkRead))
		protected.Get("/api/v1/channels/{channelId}/unread", handlers.WrapHandler(chatHandler.GetUnreadCount))
	})
}
