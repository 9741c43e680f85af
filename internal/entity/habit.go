package entity

import (
	"time"

	"github.com/google/uuid"
)

type RabbitStatus string

const (
	RabbitAlive   RabbitStatus = "alive"
	RabbitHungry  RabbitStatus = "hungry"
	RabbitEscaped RabbitStatus = "escaped"
)

type Habit struct {
	ID           uuid.UUID  `gorm:"primaryKey;type:uuid"`
	UserID       string     `gorm:"not null;index"`
	TeamID       *uuid.UUID `gorm:"type:uuid;index"`
	Title        string     `gorm:"not null"`
	TargetText   string
	TargetCount  int          `gorm:"not null;default:0"`
	RabbitStatus RabbitStatus `gorm:"not null;default:alive"`
	Combo        int          `gorm:"not null;default:0"`
	Attendance   bool         `gorm:"not null;default:false"`
	InviteCode   *string      `gorm:"uniqueIndex"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime"`
}

// HabitHistory is one member's completion record for a habit on a KST
// calendar day. Date holds the UTC instant of that day's KST midnight, so
// (habit_id, user_id, date) is naturally idempotent per day.
type HabitHistory struct {
	ID        int64     `gorm:"primaryKey"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;index;index:idx_habit_history_day,unique"`
	UserID    string    `gorm:"not null;index:idx_habit_history_day,unique"`
	Date      time.Time `gorm:"not null;index:idx_habit_history_day,unique"`
	Completed bool      `gorm:"not null;default:false"`
	CheckedAt time.Time `gorm:"not null"`
}

// HabitTeamHistory aggregates a team habit's contributions for one day.
// Completed flips once Count reaches the habit's target count.
type HabitTeamHistory struct {
	ID        int64     `gorm:"primaryKey"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;index:idx_habit_team_history_day,unique"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index:idx_habit_team_history_day,unique"`
	Date      time.Time `gorm:"not null;index:idx_habit_team_history_day,unique"`
	Count     int       `gorm:"not null;default:0"`
	Completed bool      `gorm:"not null;default:false"`
	CheckedAt time.Time `gorm:"not null"`
}
