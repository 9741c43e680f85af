package habit_repo

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rabbithabit/rabbit-core/internal/clock"
	"github.com/rabbithabit/rabbit-core/internal/entity"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	"github.com/rabbithabit/rabbit-core/state"
)

// escapeWindowDays is the trailing window (today plus two prior days) that
// must all fail before a hungry rabbit escapes. Fixed regardless of the
// habit's target cadence.
const escapeWindowDays = 3

type HabitRepo struct {
	AppState *state.AppState
}

func NewHabitRepo(appState *state.AppState) HabitRepoContract {
	return &HabitRepo{
		AppState: appState,
	}
}

func (r *HabitRepo) CreateHabit(ctx context.Context, habit *entity.Habit) (*entity.ChatChannel, *app_error.AppError) {
	channel := &entity.ChatChannel{
		ID:      uuid.New(),
		HabitID: habit.ID,
	}

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(habit).Error; err != nil {
			return err
		}
		// every habit gets its 1:1 chat channel
		return tx.Create(channel).Error
	})
	if err != nil {
		log.Error().Err(err).Str("title", habit.Title).Msg("failed to create habit")
		return nil, app_error.Internal("failed to create habit")
	}

	return channel, nil
}

func (r *HabitRepo) FindHabitByID(ctx context.Context, habitID uuid.UUID) (*entity.Habit, *app_error.AppError) {
	var habit entity.Habit
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", habitID).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("habit not found")
		}
		log.Error().Err(err).Str("habitID", habitID.String()).Msg("failed to fetch habit")
		return nil, app_error.Internal("failed to fetch habit")
	}
	return &habit, nil
}

func (r *HabitRepo) ListHabitIDs(ctx context.Context, offset, limit int) ([]uuid.UUID, *app_error.AppError) {
	var ids []uuid.UUID
	err := r.AppState.DB.WithContext(ctx).
		Model(&entity.Habit{}).
		Order("created_at").
		Offset(offset).
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, app_error.Internal("failed to list habits")
	}
	return ids, nil
}

// CheckIn records one member's completion for the current KST day. The
// unique (habit, user, date) index makes repeats a no-op. The first check-in
// that turns the day successful sets the rabbit back to alive and extends
// the combo; finalization owns the failure side.
func (r *HabitRepo) CheckIn(ctx context.Context, habitID uuid.UUID, userID string, now time.Time) (*CheckInResult, *app_error.AppError) {
	res := &CheckInResult{}

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit entity.Habit
		if err := tx.Where("id = ?", habitID).First(&habit).Error; err != nil {
			return err
		}

		day := clock.DayStartUTC(now)
		res.Date = day

		wasSuccessful, err := successOnDay(tx, &habit, day)
		if err != nil {
			return err
		}

		history := entity.HabitHistory{
			HabitID:   habit.ID,
			UserID:    userID,
			Date:      day,
			Completed: true,
			CheckedAt: now,
		}
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&history)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			res.AlreadyDone = true
		}

		if habit.TeamID != nil {
			count, completed, err := bumpTeamDay(tx, &habit, day, now, !res.AlreadyDone)
			if err != nil {
				return err
			}
			res.TeamCount = count
			res.TeamCompleted = completed
		}

		if !res.AlreadyDone {
			nowSuccessful, err := successOnDay(tx, &habit, day)
			if err != nil {
				return err
			}
			if nowSuccessful && !wasSuccessful {
				habit.Combo++
				habit.RabbitStatus = entity.RabbitAlive
				if err := tx.Model(&entity.Habit{}).Where("id = ?", habit.ID).
					Updates(map[string]any{"rabbit_status": habit.RabbitStatus, "combo": habit.Combo}).Error; err != nil {
					return err
				}
			}
		}

		res.Habit = &habit
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("habit not found")
		}
		log.Error().Err(err).Str("habitID", habitID.String()).Str("userID", userID).Msg("check-in failed")
		return nil, app_error.Internal("failed to record check-in")
	}

	return res, nil
}

// FinalizeDay evaluates one habit for the KST day containing now and
// applies the failure transition if the day was not successful. The whole
// read+conditional-write runs in one transaction so a check-in racing the
// daily pass can never be downgraded.
func (r *HabitRepo) FinalizeDay(ctx context.Context, habitID uuid.UUID, now time.Time) (*FinalizeResult, *app_error.AppError) {
	res := &FinalizeResult{HabitID: habitID}

	err := r.AppState.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit entity.Habit
		if err := tx.Where("id = ?", habitID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// deleted mid-batch: treated as already handled
				return nil
			}
			return err
		}

		today := clock.DayStartUTC(now)
		successful, err := successOnDay(tx, &habit, today)
		if err != nil {
			return err
		}
		if successful {
			// alive/combo bookkeeping belongs to check-in
			return nil
		}

		status := entity.RabbitHungry
		escaped := true
		for i := 1; i < escapeWindowDays; i++ {
			ok, err := successOnDay(tx, &habit, clock.DaysAgo(now, i))
			if err != nil {
				return err
			}
			if ok {
				escaped = false
				break
			}
		}
		if escaped {
			status = entity.RabbitEscaped
		}

		if habit.RabbitStatus == status && habit.Combo == 0 {
			// already finalized for this day; second run is a no-op
			return nil
		}

		if err := tx.Model(&entity.Habit{}).Where("id = ?", habit.ID).
			Updates(map[string]any{"rabbit_status": status, "combo": 0}).Error; err != nil {
			return err
		}

		res.Changed = true
		res.Status = status
		res.Combo = 0

		var channel entity.ChatChannel
		if err := tx.Where("habit_id = ?", habit.ID).First(&channel).Error; err == nil {
			res.ChannelID = channel.ID
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("habitID", habitID.String()).Msg("finalization failed")
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to finalize habit", "finalize")
	}

	return res, nil
}

// successOnDay is the success predicate for one habit on one KST day:
// the owner checked in, or (team habits) the day's distinct contributions
// reached the target count.
func successOnDay(tx *gorm.DB, habit *entity.Habit, day time.Time) (bool, error) {
	var personal int64
	err := tx.Model(&entity.HabitHistory{}).
		Where("habit_id = ? AND user_id = ? AND date = ? AND completed = ?", habit.ID, habit.UserID, day, true).
		Count(&personal).Error
	if err != nil {
		return false, err
	}
	if personal > 0 {
		return true, nil
	}

	if habit.TeamID == nil || habit.TargetCount <= 0 {
		return false, nil
	}

	var contributions int64
	err = tx.Model(&entity.HabitHistory{}).
		Where("habit_id = ? AND date = ? AND completed = ?", habit.ID, day, true).
		Count(&contributions).Error
	if err != nil {
		return false, err
	}
	if contributions >= int64(habit.TargetCount) {
		return true, nil
	}

	var teamDay entity.HabitTeamHistory
	err = tx.Where("habit_id = ? AND team_id = ? AND date = ? AND completed = ?", habit.ID, *habit.TeamID, day, true).
		First(&teamDay).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// bumpTeamDay keeps the per-day team aggregate in step with check-ins.
func bumpTeamDay(tx *gorm.DB, habit *entity.Habit, day, now time.Time, increment bool) (int, bool, error) {
	var teamDay entity.HabitTeamHistory
	err := tx.Where("habit_id = ? AND team_id = ? AND date = ?", habit.ID, *habit.TeamID, day).First(&teamDay).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !increment {
			return 0, false, nil
		}
		teamDay = entity.HabitTeamHistory{
			HabitID:   habit.ID,
			TeamID:    *habit.TeamID,
			Date:      day,
			Count:     1,
			Completed: habit.TargetCount > 0 && 1 >= habit.TargetCount,
			CheckedAt: now,
		}
		if err := tx.Create(&teamDay).Error; err != nil {
			return 0, false, err
		}
		return teamDay.Count, teamDay.Completed, nil
	}
	if err != nil {
		return 0, false, err
	}

	if increment {
		teamDay.Count++
		teamDay.Completed = habit.TargetCount > 0 && teamDay.Count >= habit.TargetCount
		teamDay.CheckedAt = now
		if err := tx.Save(&teamDay).Error; err != nil {
			return 0, false, err
		}
	}
	return teamDay.Count, teamDay.Completed, nil
}
