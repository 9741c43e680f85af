package habit_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rabbithabit/rabbit-core/internal/dtos/habit_dto"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
)

type HabitServiceContract interface {
	CreateHabit(ctx context.Context, req habit_dto.CreateHabitRequest, userID string) (*habit_dto.CreateHabitResponse, *app_error.AppError)
	CheckIn(ctx context.Context, habitID uuid.UUID, userID string) (*habit_dto.CheckInResponse, *app_error.AppError)
}
