package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rabbithabit/rabbit-core/internal/dtos/habit_dto"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	habit_service "github.com/rabbithabit/rabbit-core/internal/use-case/habit-case"
	"github.com/rabbithabit/rabbit-core/state"
)

type HabitHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  habit_service.HabitServiceContract
}

func NewHabitHandler(state *state.AppState) *HabitHandler {
	return &HabitHandler{
		State:    state,
		Validate: validator.New(),
		Service:  habit_service.NewHabitService(state),
	}
}

func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req habit_dto.CreateHabitRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	uid, appErr := userID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.CreateHabit(r.Context(), req, uid)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusCreated, CreateResponse("habit created successfully", *resp, requestID(r)))
	return nil
}

func (h *HabitHandler) CheckIn(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	habitID, err := uuid.Parse(chi.URLParam(r, "habitId"))
	if err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "invalid habit id", "habit-id")
	}

	uid, appErr := userID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.CheckIn(r.Context(), habitID, uid)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, CreateResponse("check-in recorded", *resp, requestID(r)))
	return nil
}
