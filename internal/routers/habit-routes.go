package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/rabbithabit/rabbit-core/internal/handlers"
	"github.com/rabbithabit/rabbit-core/internal/middleware"
	"github.com/rabbithabit/rabbit-core/state"
)

func HabitRouter(r chi.Router, state *state.AppState) {
	habitHandler := handlers.NewHabitHandler(state)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/habits", handlers.WrapHandler(habitHandler.CreateHabit))
		protected.Post("/api/v1/habits/{habitId}/checkin", handlers.WrapHandler(habitHandler.CheckIn))
	})
}
