package types

import "time"

// StatusChangePayload rides the job queue from the finalization engine to
// the websocket workers.
type StatusChangePayload struct {
	HabitID   string    `json:"habit_id"`
	ChannelID string    `json:"channel_id,omitempty"`
	Status    string    `json:"status"`
	Combo     int       `json:"combo"`
	Day       time.Time `json:"day"`
}
