package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rabbithabit/rabbit-core/internal/middleware"
	"github.com/rabbithabit/rabbit-core/internal/websocket"
	"github.com/rabbithabit/rabbit-core/state"
)

func NewRouter(state *state.AppState, hub *websocket.Hub, relay *websocket.Relay) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)

	HabitRouter(r, state)
	ChatRouter(r, state)
	CronRouter(r, state)
	HubRouter(r, hub)

	r.Get("/ws", relay.HandleWS)

	return r
}
