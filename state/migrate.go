package state

import (
	"github.com/rs/zerolog/log"

	"github.com/rabbithabit/rabbit-core/internal/entity"
)

// Migrate applies the schema for every record kind this service owns.
func (a *AppState) Migrate() error {
	err := a.DB.AutoMigrate(
		&entity.User{},
		&entity.Habit{},
		&entity.HabitHistory{},
		&entity.HabitTeamHistory{},
		&entity.ChatChannel{},
		&entity.ChatMessage{},
		&entity.ChatRead{},
	)
	if err != nil {
		return err
	}

	log.Info().Msg("database schema migrated")
	return nil
}
