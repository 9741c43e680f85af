package habit_dto

type CreateHabitRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=100"`
	TargetText  string  `json:"target_text" validate:"max=200"`
	TargetCount int     `json:"target_count" validate:"omitempty,min=1,max=100"`
	TeamID      *string `json:"team_id,omitempty" validate:"omitempty,uuid"`
	Attendance  bool    `json:"attendance"`
}
