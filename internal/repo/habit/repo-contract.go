package habit_repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rabbithabit/rabbit-core/internal/entity"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
)

type HabitRepoContract interface {
	CreateHabit(ctx context.Context, habit *entity.Habit) (*entity.ChatChannel, *app_error.AppError)
	FindHabitByID(ctx context.Context, habitID uuid.UUID) (*entity.Habit, *app_error.AppError)
	ListHabitIDs(ctx context.Context, offset, limit int) ([]uuid.UUID, *app_error.AppError)
	CheckIn(ctx context.Context, habitID uuid.UUID, userID string, now time.Time) (*CheckInResult, *app_error.AppError)
	FinalizeDay(ctx context.Context, habitID uuid.UUID, now time.Time) (*FinalizeResult, *app_error.AppError)
}

// CheckInResult reports what a member's check-in did to the habit and, for
// team habits, to the day's aggregate.
type CheckInResult struct {
	Habit         *entity.Habit
	Date          time.Time
	TeamCount     int
	TeamCompleted bool
	AlreadyDone   bool
}

// FinalizeResult reports the state transition applied by one habit's daily
// finalization. Changed is false when the day was successful, the habit was
// already in the computed state, or the habit vanished mid-batch.
type FinalizeResult struct {
	HabitID   uuid.UUID
	ChannelID uuid.UUID
	Changed   bool
	Status    entity.RabbitStatus
	Combo     int
}
