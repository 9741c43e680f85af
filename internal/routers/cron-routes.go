package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/rabbithabit/rabbit-core/config"
	"github.com/rabbithabit/rabbit-core/internal/handlers"
	"github.com/rabbithabit/rabbit-core/internal/middleware"
	"github.com/rabbithabit/rabbit-core/state"
)

func CronRouter(r chi.Router, state *state.AppState) {
	cronHandler := handlers.NewCronHandler(state)
	r.Group(func(cron chi.Router) {
		cron.Use(middleware.CronAuth(config.Conf.CRON.Secret))
		cron.Post("/api/v1/cron/finalize", handlers.WrapHandler(cronHandler.HandleFinalize))
	})
}
