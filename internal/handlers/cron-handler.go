package handlers

import (
	"net/http"

	"github.com/rabbithabit/rabbit-core/internal/dtos/habit_dto"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	finalize_service "github.com/rabbithabit/rabbit-core/internal/use-case/finalize-case"
	"github.com/rabbithabit/rabbit-core/state"
)

type CronHandler struct {
	State   *state.AppState
	Service finalize_service.FinalizeServiceContract
}

func NewCronHandler(state *state.AppState) *CronHandler {
	return &CronHandler{
		State:   state,
		Service: finalize_service.NewFinalizeService(state),
	}
}

// HandleFinalize runs the daily finalization pass. The route is gated by
// the cron shared secret; the external scheduler is the only caller.
func (h *CronHandler) HandleFinalize(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	processed, appErr := h.Service.FinalizeAll(r.Context())
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, habit_dto.FinalizeSummaryResponse{
		OK:        true,
		Processed: processed,
	})
	return nil
}
