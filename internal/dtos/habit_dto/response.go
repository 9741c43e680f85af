package habit_dto

import "time"

type CreateHabitResponse struct {
	HabitID    string  `json:"habit_id"`
	ChannelID  string  `json:"channel_id"`
	InviteCode *string `json:"invite_code,omitempty"`
}

type CheckInResponse struct {
	HabitID       string    `json:"habit_id"`
	Date          time.Time `json:"date"`
	RabbitStatus  string    `json:"rabbit_status"`
	Combo         int       `json:"combo"`
	TeamCount     int       `json:"team_count,omitempty"`
	TeamCompleted bool      `json:"team_completed,omitempty"`
	AlreadyDone   bool      `json:"already_done"`
}

type FinalizeSummaryResponse struct {
	OK        bool `json:"ok"`
	Processed int  `json:"processed"`
}
