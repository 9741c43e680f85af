package finalize_service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	"github.com/rabbithabit/rabbit-core/internal/queue"
	habit_repo "github.com/rabbithabit/rabbit-core/internal/repo/habit"
	"github.com/rabbithabit/rabbit-core/internal/utils/types"
	"github.com/rabbithabit/rabbit-core/state"
)

const (
	// batchSize bounds how many habits one page of the daily pass loads.
	batchSize = 100
	// batchConcurrency bounds parallel finalizations within a page.
	batchConcurrency = 10
)

type FinalizeService struct {
	AppState  *state.AppState
	HabitRepo habit_repo.HabitRepoContract
	Producer  queue.Producer // nil disables status-change broadcasts

	// Now is swappable for tests.
	Now func() time.Time
}

func NewFinalizeService(appState *state.AppState) FinalizeServiceContract {
	var producer queue.Producer
	if appState.Redis != nil {
		producer = queue.NewProducer(appState.Redis)
	}
	return &FinalizeService{
		AppState:  appState,
		HabitRepo: habit_repo.NewHabitRepo(appState),
		Producer:  producer,
		Now:       time.Now,
	}
}

func (s *FinalizeService) FinalizeOne(ctx context.Context, habitID uuid.UUID) (*habit_repo.FinalizeResult, *app_error.AppError) {
	res, appErr := s.HabitRepo.FinalizeDay(ctx, habitID, s.Now())
	if appErr != nil {
		return nil, appErr
	}

	if res.Changed {
		log.Info().
			Str("habitID", res.HabitID.String()).
			Str("status", string(res.Status)).
			Msg("rabbit status finalized")
		s.enqueueStatusChange(ctx, res)
	}

	return res, nil
}

// FinalizeAll runs the daily pass over every habit: pages of batchSize,
// each page's members finalized concurrently. One habit's failure is logged
// and never aborts its siblings.
func (s *FinalizeService) FinalizeAll(ctx context.Context) (int, *app_error.AppError) {
	processed := 0

	for offset := 0; ; offset += batchSize {
		ids, appErr := s.HabitRepo.ListHabitIDs(ctx, offset, batchSize)
		if appErr != nil {
			return processed, appErr
		}
		if len(ids) == 0 {
			break
		}

		var wg sync.WaitGroup
		semaphore := make(chan struct{}, batchConcurrency)

		for _, id := range ids {
			wg.Add(1)
			go func(habitID uuid.UUID) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() {
					<-semaphore
				}()

				if _, err := s.FinalizeOne(ctx, habitID); err != nil {
					log.Error().Err(err).Str("habitID", habitID.String()).Msg("habit finalization failed, continuing batch")
				}
			}(id)
		}
		wg.Wait()

		processed += len(ids)
		if len(ids) < batchSize {
			break
		}
	}

	log.Info().Int("processed", processed).Msg("daily finalization pass completed")
	return processed, nil
}

func (s *FinalizeService) enqueueStatusChange(ctx context.Context, res *habit_repo.FinalizeResult) {
	if s.Producer == nil {
		return
	}

	now := s.Now()
	payload := &types.StatusChangePayload{
		HabitID: res.HabitID.String(),
		Status:  string(res.Status),
		Combo:   res.Combo,
		Day:     now,
	}
	if res.ChannelID != uuid.Nil {
		payload.ChannelID = res.ChannelID.String()
	}

	job := queue.Job{
		ID:        uuid.New().String(),
		Type:      queue.JobBroadcastStatusChange,
		Payload:   queue.MustMarshal(payload),
		Priority:  1,
		Retry:     0,
		MaxRetry:  3,
		CreatedAt: now.Unix(),
		ExpireAt:  now.Add(5 * time.Minute).Unix(),
	}

	if err := s.Producer.Enqueue(ctx, job); err != nil {
		log.Error().Err(err).Str("habitID", res.HabitID.String()).Msg("failed to enqueue status-change broadcast")
	}
}
