package habit_service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rabbithabit/rabbit-core/internal/dtos/habit_dto"
	"github.com/rabbithabit/rabbit-core/internal/entity"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	habit_repo "github.com/rabbithabit/rabbit-core/internal/repo/habit"
	"github.com/rabbithabit/rabbit-core/state"
)

type HabitService struct {
	AppState  *state.AppState
	HabitRepo habit_repo.HabitRepoContract

	Now func() time.Time
}

func NewHabitService(appState *state.AppState) HabitServiceContract {
	return &HabitService{
		AppState:  appState,
		HabitRepo: habit_repo.NewHabitRepo(appState),
		Now:       time.Now,
	}
}

func (s *HabitService) CreateHabit(ctx context.Context, req habit_dto.CreateHabitRequest, userID string) (*habit_dto.CreateHabitResponse, *app_error.AppError) {
	habit := &entity.Habit{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        req.Title,
		TargetText:   req.TargetText,
		TargetCount:  req.TargetCount,
		RabbitStatus: entity.RabbitAlive,
		Attendance:   req.Attendance,
	}

	if req.TeamID != nil {
		teamID, err := uuid.Parse(*req.TeamID)
		if err != nil {
			return nil, app_error.NewAppError(http.StatusBadRequest, "invalid team id", "team-id")
		}
		habit.TeamID = &teamID

		// short shareable code for teammates joining the habit
		code := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
		habit.InviteCode = &code
	}

	channel, appErr := s.HabitRepo.CreateHabit(ctx, habit)
	if appErr != nil {
		return nil, appErr
	}

	return &habit_dto.CreateHabitResponse{
		HabitID:    habit.ID.String(),
		ChannelID:  channel.ID.String(),
		InviteCode: habit.InviteCode,
	}, nil
}

func (s *HabitService) CheckIn(ctx context.Context, habitID uuid.UUID, userID string) (*habit_dto.CheckInResponse, *app_error.AppError) {
	res, appErr := s.HabitRepo.CheckIn(ctx, habitID, userID, s.Now())
	if appErr != nil {
		return nil, appErr
	}

	return &habit_dto.CheckInResponse{
		HabitID:       res.Habit.ID.String(),
		Date:          res.Date,
		RabbitStatus:  string(res.Habit.RabbitStatus),
		Combo:         res.Habit.Combo,
		TeamCount:     res.TeamCount,
		TeamCompleted: res.TeamCompleted,
		AlreadyDone:   res.AlreadyDone,
	}, nil
}
