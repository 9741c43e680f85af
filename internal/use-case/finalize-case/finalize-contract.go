package finalize_service

import (
	"context"

	"github.com/google/uuid"

	habit_repo "github.com/rabbithabit/rabbit-core/internal/repo/habit"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
)

type FinalizeServiceContract interface {
	FinalizeOne(ctx context.Context, habitID uuid.UUID) (*habit_repo.FinalizeResult, *app_error.AppError)
	FinalizeAll(ctx context.Context) (int, *app_error.AppError)
}
